package repository

import "context"

// UnitOfWork defines the contract for transactional work and repository access.
//
// Repositories obtained from the UnitOfWork passed to Do share its database
// transaction. Repositories obtained outside Do run on the plain connection.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error,
	// the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	TransactionRepository() (TransactionRepository, error)
	StatusHistoryRepository() (StatusHistoryRepository, error)
	CustomerRepository() (CustomerRepository, error)
}
