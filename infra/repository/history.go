package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/kbhub/txledger/pkg/repository"
	"gorm.io/gorm"
)

type statusHistoryRepository struct {
	db *gorm.DB
}

// NewStatusHistoryRepository creates the status history log on db.
func NewStatusHistoryRepository(db *gorm.DB) repository.StatusHistoryRepository {
	return &statusHistoryRepository{db: db}
}

func (r *statusHistoryRepository) Append(ctx context.Context, entry *transaction.StatusHistory) error {
	m := &TransactionStatusHistory{
		TransactionID: entry.TransactionID,
		Status:        string(entry.Status),
		ChangedAt:     entry.ChangedAt,
	}
	return MapGormErrorToDomain(r.db.WithContext(ctx).Create(m).Error)
}

func (r *statusHistoryRepository) ListByTransaction(
	ctx context.Context,
	transactionID uuid.UUID,
) ([]transaction.StatusHistory, error) {
	var models []TransactionStatusHistory
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("changed_at ASC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]transaction.StatusHistory, 0, len(models))
	for _, m := range models {
		out = append(out, transaction.StatusHistory{
			TransactionID: m.TransactionID,
			Status:        transaction.Status(m.Status),
			ChangedAt:     m.ChangedAt,
		})
	}
	return out, nil
}
