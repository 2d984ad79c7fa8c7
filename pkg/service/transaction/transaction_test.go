package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	infrarepo "github.com/kbhub/txledger/infra/repository"
	"github.com/kbhub/txledger/internal/fixtures/mocks"
	"github.com/kbhub/txledger/pkg/domain/customer"
	"github.com/kbhub/txledger/pkg/domain/events"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/kbhub/txledger/pkg/repository"
	service "github.com/kbhub/txledger/pkg/service/transaction"
	"github.com/kbhub/txledger/pkg/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func amount(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func deltaOf(v int64) any {
	want := decimal.NewFromInt(v)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

type fixture struct {
	svc     *service.Service
	uow     repository.UnitOfWork
	balance *mocks.MockBalanceAdjuster
	bus     *mocks.RecordingBus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	uow := infrarepo.NewUoW(testutils.NewSQLiteDB(t))
	balance := mocks.NewMockBalanceAdjuster(t)
	bus := &mocks.RecordingBus{}
	return &fixture{
		svc: service.NewService(service.Deps{
			Uow:      uow,
			Balance:  balance,
			EventBus: bus,
			Logger:   testutils.DiscardLogger(),
		}),
		uow:     uow,
		balance: balance,
		bus:     bus,
	}
}

func (f *fixture) history(t *testing.T, id uuid.UUID) []transaction.Status {
	t.Helper()
	entries, err := f.svc.History(context.Background(), id)
	require.NoError(t, err)
	out := make([]transaction.Status, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Status)
	}
	return out
}

func (f *fixture) count(t *testing.T) int {
	t.Helper()
	all, err := f.svc.List(context.Background())
	require.NoError(t, err)
	return len(all)
}

func TestSubmitSuccess(t *testing.T) {
	tests := []struct {
		typ   transaction.Type
		delta int64
	}{
		{transaction.TypeTopUp, 25},
		{transaction.TypePurchase, -25},
	}
	for _, tc := range tests {
		t.Run(string(tc.typ), func(t *testing.T) {
			f := newFixture(t)
			customerID := uuid.New()
			f.balance.On("AdjustBalance", mock.Anything, customerID, deltaOf(tc.delta)).Return(nil).Once()

			tx, err := f.svc.Submit(context.Background(), service.Request{CustomerID: customerID, Amount: amount("25")}, tc.typ)
			require.NoError(t, err)
			assert.Equal(t, transaction.StatusSuccess, tx.Status)
			assert.NotEqual(t, uuid.Nil, tx.ID)
			assert.Equal(t, 1, f.count(t))
			assert.Equal(t, []transaction.Status{transaction.StatusPending, transaction.StatusSuccess}, f.history(t, tx.ID))

			stored, err := f.svc.Get(context.Background(), tx.ID)
			require.NoError(t, err)
			assert.Equal(t, tx.ID, stored.ID)
			assert.Equal(t, tx.CustomerID, stored.CustomerID)
			assert.Equal(t, tx.Type, stored.Type)
			assert.True(t, tx.Amount.Equal(stored.Amount))
			assert.Equal(t, tx.Status, stored.Status)
			assert.Nil(t, stored.RelatedTransactionID)

			emitted := f.bus.Emitted()
			require.Len(t, emitted, 1)
			evt := emitted[0].(*events.TransactionFinalized)
			assert.Equal(t, tx.ID, evt.TransactionID)
			assert.Equal(t, transaction.StatusSuccess, evt.Status)
		})
	}
}

func TestSubmitInvalidAmountCreatesNothing(t *testing.T) {
	f := newFixture(t)
	for _, a := range []*decimal.Decimal{nil, amount("0"), amount("-1")} {
		for _, typ := range []transaction.Type{transaction.TypeTopUp, transaction.TypePurchase, transaction.TypeRefund} {
			_, err := f.svc.Submit(context.Background(), service.Request{CustomerID: uuid.New(), Amount: a}, typ)
			assert.ErrorIs(t, err, transaction.ErrInvalidAmount)
		}
	}
	assert.Zero(t, f.count(t))
	assert.Empty(t, f.bus.Emitted())
}

func TestRefundOriginalMustBelongToCustomer(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	f.balance.On("AdjustBalance", mock.Anything, owner, deltaOf(-50)).Return(nil).Once()
	purchase, err := f.svc.Purchase(context.Background(), service.Request{CustomerID: owner, Amount: amount("50")})
	require.NoError(t, err)

	unknown := uuid.New()
	tests := []struct {
		name    string
		req     service.Request
		wantErr error
	}{
		{"other customer", service.Request{CustomerID: uuid.New(), Amount: amount("10"), RelatedTransactionID: &purchase.ID}, transaction.ErrOriginalTransactionNotFound},
		{"unknown original", service.Request{CustomerID: owner, Amount: amount("10"), RelatedTransactionID: &unknown}, transaction.ErrOriginalTransactionNotFound},
		{"missing original", service.Request{CustomerID: owner, Amount: amount("10")}, transaction.ErrOriginalTransactionNotFound},
		{"exceeds original", service.Request{CustomerID: owner, Amount: amount("50.01"), RelatedTransactionID: &purchase.ID}, transaction.ErrRefundExceedsOriginal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Refund(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Equal(t, 1, f.count(t))
}

func TestRefundOfRefundIsRejectedBeforePersisting(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	f.balance.On("AdjustBalance", mock.Anything, owner, deltaOf(100)).Return(nil).Once()
	f.balance.On("AdjustBalance", mock.Anything, owner, deltaOf(-40)).Return(nil).Once()

	topUp, err := f.svc.TopUp(context.Background(), service.Request{CustomerID: owner, Amount: amount("100")})
	require.NoError(t, err)
	refund, err := f.svc.Refund(context.Background(), service.Request{CustomerID: owner, Amount: amount("40"), RelatedTransactionID: &topUp.ID})
	require.NoError(t, err)
	require.Equal(t, &topUp.ID, refund.RelatedTransactionID)

	_, err = f.svc.Refund(context.Background(), service.Request{CustomerID: owner, Amount: amount("10"), RelatedTransactionID: &refund.ID})
	assert.ErrorIs(t, err, transaction.ErrUnsupportedRefundTarget)
	assert.Equal(t, 2, f.count(t))
}

func TestBalanceRejectionFinalizesFailed(t *testing.T) {
	f := newFixture(t)
	customerID := uuid.New()
	f.balance.On("AdjustBalance", mock.Anything, customerID, deltaOf(-50)).
		Return(customer.ErrInsufficientBalance).Once()

	tx, err := f.svc.Purchase(context.Background(), service.Request{CustomerID: customerID, Amount: amount("50")})
	require.Error(t, err)
	assert.ErrorIs(t, err, transaction.ErrTransactionProcessingFailed)
	assert.ErrorIs(t, err, customer.ErrInsufficientBalance)

	var pe *transaction.ProcessingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, transaction.StatusFailed, pe.Transaction.Status)
	require.NotNil(t, tx)
	assert.Equal(t, transaction.StatusFailed, tx.Status)

	stored, err := f.svc.Get(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusFailed, stored.Status)
	assert.Equal(t, []transaction.Status{transaction.StatusPending, transaction.StatusFailed}, f.history(t, tx.ID))

	evt := f.bus.Emitted()[0].(*events.TransactionFinalized)
	assert.Equal(t, transaction.StatusFailed, evt.Status)
	assert.NotEmpty(t, evt.Reason)
}

func TestCancelledCallerStillFinalizes(t *testing.T) {
	f := newFixture(t)
	customerID := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	f.balance.On("AdjustBalance", mock.Anything, customerID, deltaOf(10)).
		Run(func(mock.Arguments) { cancel() }).
		Return(context.Canceled).Once()

	tx, err := f.svc.TopUp(ctx, service.Request{CustomerID: customerID, Amount: amount("10")})
	assert.ErrorIs(t, err, transaction.ErrTransactionProcessingFailed)
	assert.ErrorIs(t, err, context.Canceled)

	stored, err := f.svc.Get(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusFailed, stored.Status)
}

func TestEventBusFailureDoesNotChangeOutcome(t *testing.T) {
	f := newFixture(t)
	f.bus.Err = errors.New("broker unavailable")
	customerID := uuid.New()
	f.balance.On("AdjustBalance", mock.Anything, customerID, deltaOf(5)).Return(nil).Once()

	tx, err := f.svc.TopUp(context.Background(), service.Request{CustomerID: customerID, Amount: amount("5")})
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusSuccess, tx.Status)
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	f.balance.On("AdjustBalance", mock.Anything, owner, mock.Anything).Return(nil).Twice()

	_, err := f.svc.TopUp(ctx, service.Request{CustomerID: owner, Amount: amount("10")})
	require.NoError(t, err)
	_, err = f.svc.Purchase(ctx, service.Request{CustomerID: owner, Amount: amount("5")})
	require.NoError(t, err)

	list, err := f.svc.ListByCustomer(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	empty, err := f.svc.ListByCustomer(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = f.svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, transaction.ErrTransactionNotFound)

	_, err = f.svc.History(ctx, uuid.New())
	assert.ErrorIs(t, err, transaction.ErrTransactionNotFound)

	stale, err := f.svc.ListStale(ctx, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

// Balance store backed by the customer table, exercising the full scenario.
func TestScenarios(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	uow := infrarepo.NewUoW(db)
	customers := infrarepo.NewCustomerRepository(db)
	svc := service.NewService(service.Deps{Uow: uow, Balance: customers, Logger: testutils.DiscardLogger()})
	ctx := context.Background()

	balanceOf := func(id uuid.UUID) decimal.Decimal {
		c, err := customers.Get(ctx, id)
		require.NoError(t, err)
		return c.Balance
	}

	t.Run("purchase then refund restores balance", func(t *testing.T) {
		c, err := customer.New("Ada", "Lovelace", "10.12.1815", "+100")
		require.NoError(t, err)
		require.NoError(t, customers.Create(ctx, c))

		purchase, err := svc.Purchase(ctx, service.Request{CustomerID: c.ID, Amount: amount("30")})
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusSuccess, purchase.Status)
		assert.True(t, decimal.NewFromInt(70).Equal(balanceOf(c.ID)))

		refund, err := svc.Refund(ctx, service.Request{CustomerID: c.ID, Amount: amount("30"), RelatedTransactionID: &purchase.ID})
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusSuccess, refund.Status)
		assert.True(t, decimal.NewFromInt(100).Equal(balanceOf(c.ID)))
	})

	t.Run("purchase beyond balance fails and leaves balance", func(t *testing.T) {
		c, err := customer.New("Alan", "Turing", "23.06.1912", "+200")
		require.NoError(t, err)
		require.NoError(t, customers.Create(ctx, c))
		require.NoError(t, customers.AdjustBalance(ctx, c.ID, decimal.NewFromInt(-80)))

		tx, err := svc.Purchase(ctx, service.Request{CustomerID: c.ID, Amount: amount("50")})
		assert.ErrorIs(t, err, transaction.ErrTransactionProcessingFailed)
		assert.Equal(t, transaction.StatusFailed, tx.Status)
		assert.True(t, decimal.NewFromInt(20).Equal(balanceOf(c.ID)))
	})
}
