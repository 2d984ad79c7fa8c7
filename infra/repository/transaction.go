package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/kbhub/txledger/pkg/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction record store on db.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	m := mapTransactionToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	tx.ID = m.ID
	tx.CreatedAt = m.CreatedAt
	tx.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var m Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapNotFound(err, transaction.ErrTransactionNotFound)
	}
	return mapModelToTransaction(&m), nil
}

func (r *transactionRepository) GetByIDAndCustomer(
	ctx context.Context,
	id, customerID uuid.UUID,
) (*transaction.Transaction, error) {
	var m Transaction
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&m).Error
	if err != nil {
		return nil, mapNotFound(err, transaction.ErrTransactionNotFound)
	}
	return mapModelToTransaction(&m), nil
}

func (r *transactionRepository) ListByCustomer(
	ctx context.Context,
	customerID uuid.UUID,
) ([]*transaction.Transaction, error) {
	return r.find(r.db.WithContext(ctx).Where("customer_id = ?", customerID))
}

func (r *transactionRepository) List(ctx context.Context) ([]*transaction.Transaction, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *transactionRepository) ListPendingBefore(
	ctx context.Context,
	cutoff time.Time,
) ([]*transaction.Transaction, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(transaction.StatusPending), cutoff))
}

func (r *transactionRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to transaction.Status,
	at time.Time,
) error {
	res := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": at})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return transaction.ErrInvalidStatusTransition
	}
	return nil
}

func (r *transactionRepository) find(q *gorm.DB) ([]*transaction.Transaction, error) {
	var models []Transaction
	if err := q.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*transaction.Transaction, 0, len(models))
	for i := range models {
		out = append(out, mapModelToTransaction(&models[i]))
	}
	return out, nil
}
