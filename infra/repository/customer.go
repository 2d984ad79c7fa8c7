package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain"
	"github.com/kbhub/txledger/pkg/domain/customer"
	"github.com/kbhub/txledger/pkg/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates the customer store on db.
func NewCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	m := mapCustomerToModel(c)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	c.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var m Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapNotFound(err, customer.ErrCustomerNotFound)
	}
	return mapModelToCustomer(&m), nil
}

// AdjustBalance applies delta with a single conditional UPDATE on integer
// minor units so concurrent adjustments never drive the balance below zero.
func (r *customerRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	if err := customer.ValidateAdjustment(delta); err != nil {
		return err
	}
	cents := domain.ToMinorUnits(delta)
	res := r.db.WithContext(ctx).
		Model(&Customer{}).
		Where("id = ? AND balance + ? >= 0", id, cents).
		Update("balance", gorm.Expr("balance + ?", cents))
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	if count == 0 {
		return customer.ErrCustomerNotFound
	}
	return customer.ErrInsufficientBalance
}
