package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/customer"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/shopspring/decimal"
)

// TransactionRepository stores transaction records.
type TransactionRepository interface {
	// Create inserts tx and fills in its store-assigned ID and timestamps.
	Create(ctx context.Context, tx *transaction.Transaction) error

	Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)

	// GetByIDAndCustomer only matches a transaction owned by customerID.
	GetByIDAndCustomer(ctx context.Context, id, customerID uuid.UUID) (*transaction.Transaction, error)

	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*transaction.Transaction, error)
	List(ctx context.Context) ([]*transaction.Transaction, error)

	// ListPendingBefore returns PENDING transactions created before the cutoff.
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*transaction.Transaction, error)

	// UpdateStatus moves a transaction from one status to another. It fails with
	// transaction.ErrInvalidStatusTransition when the record is not in from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to transaction.Status, at time.Time) error
}

// StatusHistoryRepository is the append-only status log.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *transaction.StatusHistory) error

	// ListByTransaction returns entries ordered by change time, then insertion order.
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]transaction.StatusHistory, error)
}

// CustomerRepository stores customers and their balances.
type CustomerRepository interface {
	Create(ctx context.Context, c *customer.Customer) error
	Get(ctx context.Context, id uuid.UUID) (*customer.Customer, error)

	// AdjustBalance applies delta in a single conditional update. It fails with
	// customer.ErrInsufficientBalance if the result would be negative.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}
