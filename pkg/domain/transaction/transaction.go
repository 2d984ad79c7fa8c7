package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain"
	"github.com/shopspring/decimal"
)

// Type is the kind of monetary movement a transaction represents.
type Type string

const (
	TypeTopUp    Type = "TOP_UP"
	TypePurchase Type = "PURCHASE"
	TypeRefund   Type = "REFUND"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	switch t {
	case TypeTopUp, TypePurchase, TypeRefund:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }

// Status is the lifecycle state of a transaction.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Terminal reports whether s is a final status.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

func (s Status) String() string { return string(s) }

// Transaction is a monetary movement against a single customer's balance.
// Amount is always the positive magnitude; the sign applied to the balance is
// derived from Type (see SignedAdjustment).
type Transaction struct {
	ID                   uuid.UUID       `json:"id"`
	CustomerID           uuid.UUID       `json:"customerId"`
	Type                 Type            `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	Status               Status          `json:"status"`
	RelatedTransactionID *uuid.UUID      `json:"relatedTransactionId,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// New builds a PENDING transaction. The ID is left zero; the record store assigns it.
func New(customerID uuid.UUID, typ Type, amount decimal.Decimal, related *uuid.UUID) *Transaction {
	return &Transaction{
		CustomerID:           customerID,
		Type:                 typ,
		Amount:               amount,
		Status:               StatusPending,
		RelatedTransactionID: related,
	}
}

// Finalize moves a PENDING transaction to a terminal status.
func (t *Transaction) Finalize(status Status, at time.Time) error {
	if t.Status != StatusPending || !status.Terminal() {
		return ErrInvalidStatusTransition
	}
	t.Status = status
	t.UpdatedAt = at
	return nil
}

// StatusHistory is one append-only entry of a transaction's status log.
type StatusHistory struct {
	TransactionID uuid.UUID `json:"transactionId"`
	Status        Status    `json:"status"`
	ChangedAt     time.Time `json:"changedAt"`
}

// ValidateAmount rejects missing, zero and negative amounts, and amounts
// with more fractional digits than domain.AmountScale.
func ValidateAmount(amount *decimal.Decimal) error {
	if amount == nil || !amount.IsPositive() || !domain.HasAmountScale(*amount) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateRefund checks a refund amount against the original transaction.
// Both values are compared as magnitudes.
func ValidateRefund(amount decimal.Decimal, original *Transaction) error {
	if amount.Abs().GreaterThan(original.Amount.Abs()) {
		return ErrRefundExceedsOriginal
	}
	return nil
}

// SignedAdjustment returns the balance delta for a transaction of type typ.
// original is required for refunds and ignored otherwise.
func SignedAdjustment(typ Type, amount decimal.Decimal, original *Transaction) (decimal.Decimal, error) {
	magnitude := amount.Abs()
	switch typ {
	case TypeTopUp:
		return magnitude, nil
	case TypePurchase:
		return magnitude.Neg(), nil
	case TypeRefund:
		if original == nil {
			return decimal.Zero, ErrUnsupportedRefundTarget
		}
		switch original.Type {
		case TypeTopUp:
			return magnitude.Neg(), nil
		case TypePurchase:
			return magnitude, nil
		default:
			return decimal.Zero, ErrUnsupportedRefundTarget
		}
	default:
		return decimal.Zero, ErrUnsupportedType
	}
}
