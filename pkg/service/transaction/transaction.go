// Package transaction implements the transaction processing core: it records
// intent (PENDING) before calling the remote balance store and records the
// outcome (SUCCESS or FAILED) after, keeping a status history at every step.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/events"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/kbhub/txledger/pkg/eventbus"
	"github.com/kbhub/txledger/pkg/repository"
	"github.com/shopspring/decimal"
)

// DefaultStaleAfter is used by ListStale when no threshold is given.
const DefaultStaleAfter = 15 * time.Minute

// BalanceAdjuster is the balance store contract: apply a signed delta to a
// customer's balance, failing if the result would be negative.
type BalanceAdjuster interface {
	AdjustBalance(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) error
}

// Metrics receives processing outcomes.
type Metrics interface {
	Submitted(typ transaction.Type)
	Rejected(typ transaction.Type, reason string)
	Finalized(typ transaction.Type, status transaction.Status)
	ObserveAdjust(d time.Duration, err error)
}

// Request is the inbound submission. Amount is nil when absent.
type Request struct {
	CustomerID           uuid.UUID
	Amount               *decimal.Decimal
	RelatedTransactionID *uuid.UUID
}

// Deps holds the collaborators of the Service.
type Deps struct {
	Uow        repository.UnitOfWork
	Balance    BalanceAdjuster
	EventBus   eventbus.Bus
	Metrics    Metrics
	Logger     *slog.Logger
	StaleAfter time.Duration
}

// Service processes and queries transactions.
type Service struct {
	uow        repository.UnitOfWork
	balance    BalanceAdjuster
	bus        eventbus.Bus
	metrics    Metrics
	logger     *slog.Logger
	staleAfter time.Duration
	now        func() time.Time
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps Deps) *Service {
	s := &Service{
		uow:        deps.Uow,
		balance:    deps.Balance,
		bus:        deps.EventBus,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		staleAfter: deps.StaleAfter,
		now:        func() time.Time { return time.Now().UTC() },
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.staleAfter <= 0 {
		s.staleAfter = DefaultStaleAfter
	}
	return s
}

func (s *Service) TopUp(ctx context.Context, req Request) (*transaction.Transaction, error) {
	return s.Submit(ctx, req, transaction.TypeTopUp)
}

func (s *Service) Purchase(ctx context.Context, req Request) (*transaction.Transaction, error) {
	return s.Submit(ctx, req, transaction.TypePurchase)
}

func (s *Service) Refund(ctx context.Context, req Request) (*transaction.Transaction, error) {
	return s.Submit(ctx, req, transaction.TypeRefund)
}

// Submit validates req, persists a PENDING transaction, adjusts the balance
// and finalizes the transaction. When the adjustment fails the returned
// transaction is FAILED and the error is a *transaction.ProcessingError.
func (s *Service) Submit(
	ctx context.Context,
	req Request,
	typ transaction.Type,
) (*transaction.Transaction, error) {
	logger := s.logger.With(
		"customer_id", req.CustomerID,
		"type", typ,
	)
	s.metrics.Submitted(typ)

	delta, err := s.prepare(ctx, req, typ)
	if err != nil {
		s.metrics.Rejected(typ, rejectionReason(err))
		logger.Info("transaction rejected", "error", err)
		return nil, err
	}

	tx := transaction.New(req.CustomerID, typ, *req.Amount, req.RelatedTransactionID)
	if err := s.persistPending(ctx, tx); err != nil {
		logger.Error("failed to persist pending transaction", "error", err)
		return nil, fmt.Errorf("persist pending transaction: %w", err)
	}
	logger = logger.With("transaction_id", tx.ID)
	logger.Info("transaction pending", "amount", tx.Amount, "delta", delta)

	start := time.Now()
	adjustErr := s.balance.AdjustBalance(ctx, tx.CustomerID, delta)
	s.metrics.ObserveAdjust(time.Since(start), adjustErr)

	status := transaction.StatusSuccess
	if adjustErr != nil {
		status = transaction.StatusFailed
		logger.Warn("balance adjustment failed", "error", adjustErr)
	}

	// The outcome is recorded even if the caller has gone away.
	finalizeCtx := context.WithoutCancel(ctx)
	if err := s.finalize(finalizeCtx, tx, status); err != nil {
		logger.Error("failed to finalize transaction; left PENDING for reconciliation",
			"status", status, "error", err)
		return nil, fmt.Errorf("finalize transaction %s: %w", tx.ID, err)
	}
	s.metrics.Finalized(typ, status)
	s.emitFinalized(finalizeCtx, logger, tx, delta, adjustErr)

	if adjustErr != nil {
		return tx, &transaction.ProcessingError{Transaction: tx, Cause: adjustErr}
	}
	logger.Info("transaction succeeded")
	return tx, nil
}

// prepare runs every check that must pass before anything is persisted and
// returns the signed balance adjustment.
func (s *Service) prepare(ctx context.Context, req Request, typ transaction.Type) (decimal.Decimal, error) {
	if !typ.Valid() {
		return decimal.Zero, transaction.ErrUnsupportedType
	}
	if err := transaction.ValidateAmount(req.Amount); err != nil {
		return decimal.Zero, err
	}

	var original *transaction.Transaction
	if typ == transaction.TypeRefund {
		var err error
		original, err = s.resolveOriginal(ctx, req)
		if err != nil {
			return decimal.Zero, err
		}
		if err := transaction.ValidateRefund(*req.Amount, original); err != nil {
			return decimal.Zero, err
		}
	}
	return transaction.SignedAdjustment(typ, *req.Amount, original)
}

func (s *Service) resolveOriginal(ctx context.Context, req Request) (*transaction.Transaction, error) {
	if req.RelatedTransactionID == nil {
		return nil, transaction.ErrOriginalTransactionNotFound
	}
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	original, err := repo.GetByIDAndCustomer(ctx, *req.RelatedTransactionID, req.CustomerID)
	if errors.Is(err, transaction.ErrTransactionNotFound) {
		return nil, transaction.ErrOriginalTransactionNotFound
	}
	return original, err
}

func (s *Service) persistPending(ctx context.Context, tx *transaction.Transaction) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		histRepo, err := uow.StatusHistoryRepository()
		if err != nil {
			return err
		}
		if err := txRepo.Create(ctx, tx); err != nil {
			return err
		}
		return histRepo.Append(ctx, &transaction.StatusHistory{
			TransactionID: tx.ID,
			Status:        transaction.StatusPending,
			ChangedAt:     tx.CreatedAt,
		})
	})
}

func (s *Service) finalize(ctx context.Context, tx *transaction.Transaction, status transaction.Status) error {
	at := s.now()
	if at.Before(tx.CreatedAt) {
		at = tx.CreatedAt
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		histRepo, err := uow.StatusHistoryRepository()
		if err != nil {
			return err
		}
		if err := txRepo.UpdateStatus(ctx, tx.ID, transaction.StatusPending, status, at); err != nil {
			return err
		}
		return histRepo.Append(ctx, &transaction.StatusHistory{
			TransactionID: tx.ID,
			Status:        status,
			ChangedAt:     at,
		})
	})
	if err != nil {
		return err
	}
	return tx.Finalize(status, at)
}

func (s *Service) emitFinalized(
	ctx context.Context,
	logger *slog.Logger,
	tx *transaction.Transaction,
	delta decimal.Decimal,
	cause error,
) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, events.NewTransactionFinalized(tx, delta, cause)); err != nil {
		logger.Warn("failed to emit transaction finalized event", "error", err)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, transaction.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, transaction.ErrOriginalTransactionNotFound):
		return "original_not_found"
	case errors.Is(err, transaction.ErrRefundExceedsOriginal):
		return "refund_exceeds_original"
	case errors.Is(err, transaction.ErrUnsupportedRefundTarget):
		return "unsupported_refund_target"
	case errors.Is(err, transaction.ErrUnsupportedType):
		return "unsupported_type"
	default:
		return "error"
	}
}

type noopMetrics struct{}

func (noopMetrics) Submitted(transaction.Type) {}
func (noopMetrics) Rejected(transaction.Type, string) {}
func (noopMetrics) Finalized(transaction.Type, transaction.Status) {}
func (noopMetrics) ObserveAdjust(time.Duration, error) {}
