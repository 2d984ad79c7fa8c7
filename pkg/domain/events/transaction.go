package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/shopspring/decimal"
)

// TransactionFinalized is emitted once a transaction reaches SUCCESS or FAILED.
type TransactionFinalized struct {
	ID                   uuid.UUID          `json:"id"`
	TransactionID        uuid.UUID          `json:"transactionId"`
	CustomerID           uuid.UUID          `json:"customerId"`
	TransactionType      transaction.Type   `json:"transactionType"`
	Amount               decimal.Decimal    `json:"amount"`
	SignedAdjustment     decimal.Decimal    `json:"signedAdjustment"`
	Status               transaction.Status `json:"status"`
	RelatedTransactionID *uuid.UUID         `json:"relatedTransactionId,omitempty"`
	Reason               string             `json:"reason,omitempty"`
	OccurredAt           time.Time          `json:"occurredAt"`
}

func (e *TransactionFinalized) Type() string {
	return EventTypeTransactionFinalized.String()
}

// NewTransactionFinalized builds the event for a finalized transaction.
// cause is the downstream failure, if any.
func NewTransactionFinalized(tx *transaction.Transaction, delta decimal.Decimal, cause error) *TransactionFinalized {
	e := &TransactionFinalized{
		ID:                   uuid.New(),
		TransactionID:        tx.ID,
		CustomerID:           tx.CustomerID,
		TransactionType:      tx.Type,
		Amount:               tx.Amount,
		SignedAdjustment:     delta,
		Status:               tx.Status,
		RelatedTransactionID: tx.RelatedTransactionID,
		OccurredAt:           tx.UpdatedAt,
	}
	if cause != nil {
		e.Reason = cause.Error()
	}
	return e
}
