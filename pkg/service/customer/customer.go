// Package customer owns customer records and the balance store: the only
// place a balance is mutated.
package customer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/customer"
	"github.com/kbhub/txledger/pkg/repository"
	"github.com/shopspring/decimal"
)

// CreateRequest carries the fields of a new customer.
type CreateRequest struct {
	Name        string
	Surname     string
	BirthDate   string
	PhoneNumber string
}

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: uow, logger: logger}
}

// Create stores a new customer with the initial balance.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*customer.Customer, error) {
	c, err := customer.New(req.Name, req.Surname, req.BirthDate, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	repo, err := s.uow.CustomerRepository()
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create customer", "error", err)
		return nil, err
	}
	s.logger.Info("customer created", "customer_id", c.ID)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	repo, err := s.uow.CustomerRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// AdjustBalance applies a signed delta and returns the updated customer.
// The adjustment and the read-back share one database transaction.
func (s *Service) AdjustBalance(
	ctx context.Context,
	id uuid.UUID,
	delta decimal.Decimal,
) (c *customer.Customer, err error) {
	logger := s.logger.With("customer_id", id, "delta", delta)
	if err := customer.ValidateAdjustment(delta); err != nil {
		logger.Warn("balance adjustment rejected", "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		if err := repo.AdjustBalance(ctx, id, delta); err != nil {
			return err
		}
		c, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		logger.Warn("balance adjustment rejected", "error", err)
		return nil, err
	}
	logger.Info("balance adjusted", "balance", c.Balance)
	return c, nil
}
