package transaction_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	t.Parallel()
	pos := decimal.RequireFromString("0.01")
	zero := decimal.Zero
	neg := decimal.NewFromInt(-5)
	subCent := decimal.RequireFromString("0.001")
	cents := decimal.RequireFromString("12.34")

	tests := []struct {
		name    string
		amount  *decimal.Decimal
		wantErr error
	}{
		{"missing", nil, transaction.ErrInvalidAmount},
		{"zero", &zero, transaction.ErrInvalidAmount},
		{"negative", &neg, transaction.ErrInvalidAmount},
		{"below one cent", &subCent, transaction.ErrInvalidAmount},
		{"positive", &pos, nil},
		{"two decimals", &cents, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := transaction.ValidateAmount(tc.amount)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestSignedAdjustment(t *testing.T) {
	t.Parallel()
	amount := decimal.NewFromInt(30)
	topUp := &transaction.Transaction{Type: transaction.TypeTopUp, Amount: decimal.NewFromInt(50)}
	purchase := &transaction.Transaction{Type: transaction.TypePurchase, Amount: decimal.NewFromInt(50)}
	refund := &transaction.Transaction{Type: transaction.TypeRefund, Amount: decimal.NewFromInt(50)}

	tests := []struct {
		name     string
		typ      transaction.Type
		original *transaction.Transaction
		want     decimal.Decimal
		wantErr  error
	}{
		{"top up credits", transaction.TypeTopUp, nil, amount, nil},
		{"purchase debits", transaction.TypePurchase, nil, amount.Neg(), nil},
		{"refund of top up debits", transaction.TypeRefund, topUp, amount.Neg(), nil},
		{"refund of purchase credits", transaction.TypeRefund, purchase, amount, nil},
		{"refund of refund rejected", transaction.TypeRefund, refund, decimal.Zero, transaction.ErrUnsupportedRefundTarget},
		{"refund without original rejected", transaction.TypeRefund, nil, decimal.Zero, transaction.ErrUnsupportedRefundTarget},
		{"unknown type", transaction.Type("GIFT"), nil, decimal.Zero, transaction.ErrUnsupportedType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := transaction.SignedAdjustment(tc.typ, amount, tc.original)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestValidateRefund(t *testing.T) {
	t.Parallel()
	original := &transaction.Transaction{Type: transaction.TypePurchase, Amount: decimal.NewFromInt(40)}

	assert.NoError(t, transaction.ValidateRefund(decimal.NewFromInt(40), original))
	assert.NoError(t, transaction.ValidateRefund(decimal.NewFromInt(10), original))
	assert.ErrorIs(t, transaction.ValidateRefund(decimal.RequireFromString("40.01"), original), transaction.ErrRefundExceedsOriginal)
}

func TestFinalize(t *testing.T) {
	t.Parallel()
	tx := transaction.New(uuid.New(), transaction.TypeTopUp, decimal.NewFromInt(1), nil)
	require.Equal(t, transaction.StatusPending, tx.Status)

	assert.ErrorIs(t, tx.Finalize(transaction.StatusPending, time.Now()), transaction.ErrInvalidStatusTransition)

	at := time.Now()
	require.NoError(t, tx.Finalize(transaction.StatusSuccess, at))
	assert.Equal(t, transaction.StatusSuccess, tx.Status)
	assert.Equal(t, at, tx.UpdatedAt)

	assert.ErrorIs(t, tx.Finalize(transaction.StatusFailed, time.Now()), transaction.ErrInvalidStatusTransition)
}

func TestProcessingError(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	tx := &transaction.Transaction{Status: transaction.StatusFailed}
	var err error = &transaction.ProcessingError{Transaction: tx, Cause: cause}

	assert.ErrorIs(t, err, transaction.ErrTransactionProcessingFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	var pe *transaction.ProcessingError
	require.ErrorAs(t, err, &pe)
	assert.Same(t, tx, pe.Transaction)
}
