package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/customer"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/kbhub/txledger/pkg/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository is a mock of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func NewMockTransactionRepository(t cleanuper) *MockTransactionRepository {
	m := &MockTransactionRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*transaction.Transaction)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) GetByIDAndCustomer(
	ctx context.Context,
	id, customerID uuid.UUID,
) (*transaction.Transaction, error) {
	args := m.Called(ctx, id, customerID)
	tx, _ := args.Get(0).(*transaction.Transaction)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) ListByCustomer(
	ctx context.Context,
	customerID uuid.UUID,
) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, customerID)
	list, _ := args.Get(0).([]*transaction.Transaction)
	return list, args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]*transaction.Transaction, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*transaction.Transaction)
	return list, args.Error(1)
}

func (m *MockTransactionRepository) ListPendingBefore(
	ctx context.Context,
	cutoff time.Time,
) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, cutoff)
	list, _ := args.Get(0).([]*transaction.Transaction)
	return list, args.Error(1)
}

func (m *MockTransactionRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to transaction.Status,
	at time.Time,
) error {
	return m.Called(ctx, id, from, to, at).Error(0)
}

// MockStatusHistoryRepository is a mock of repository.StatusHistoryRepository.
type MockStatusHistoryRepository struct {
	mock.Mock
}

func NewMockStatusHistoryRepository(t cleanuper) *MockStatusHistoryRepository {
	m := &MockStatusHistoryRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStatusHistoryRepository) Append(ctx context.Context, entry *transaction.StatusHistory) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockStatusHistoryRepository) ListByTransaction(
	ctx context.Context,
	transactionID uuid.UUID,
) ([]transaction.StatusHistory, error) {
	args := m.Called(ctx, transactionID)
	list, _ := args.Get(0).([]transaction.StatusHistory)
	return list, args.Error(1)
}

// MockCustomerRepository is a mock of repository.CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

func NewMockCustomerRepository(t cleanuper) *MockCustomerRepository {
	m := &MockCustomerRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Get(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*customer.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return m.Called(ctx, id, delta).Error(0)
}

var (
	_ repository.TransactionRepository   = (*MockTransactionRepository)(nil)
	_ repository.StatusHistoryRepository = (*MockStatusHistoryRepository)(nil)
	_ repository.CustomerRepository      = (*MockCustomerRepository)(nil)
)
