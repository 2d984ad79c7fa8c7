package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/transaction"
)

// Get returns the transaction with id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// ListByCustomer returns the customer's transactions. A customer without
// transactions yields an empty slice.
func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*transaction.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByCustomer(ctx, customerID)
}

// List returns every transaction.
func (s *Service) List(ctx context.Context) ([]*transaction.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// History returns the status log of a transaction, oldest first.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]transaction.StatusHistory, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	repo, err := s.uow.StatusHistoryRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByTransaction(ctx, id)
}

// ListStale returns transactions still PENDING after olderThan. It never
// modifies them; resolving a stale transaction is a manual step.
func (s *Service) ListStale(ctx context.Context, olderThan time.Duration) ([]*transaction.Transaction, error) {
	if olderThan <= 0 {
		olderThan = s.staleAfter
	}
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListPendingBefore(ctx, s.now().Add(-olderThan))
}
