// Package mocks holds testify mocks for the repository, balance and event
// bus contracts.
package mocks

import (
	"context"

	"github.com/kbhub/txledger/pkg/repository"
	"github.com/stretchr/testify/mock"
)

type cleanuper interface {
	mock.TestingT
	Cleanup(func())
}

// MockUnitOfWork is a mock of repository.UnitOfWork. When the Do expectation
// returns nil, fn is executed against the mock itself.
type MockUnitOfWork struct {
	mock.Mock
}

func NewMockUnitOfWork(t cleanuper) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *MockUnitOfWork) TransactionRepository() (repository.TransactionRepository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(repository.TransactionRepository)
	return repo, args.Error(1)
}

func (m *MockUnitOfWork) StatusHistoryRepository() (repository.StatusHistoryRepository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(repository.StatusHistoryRepository)
	return repo, args.Error(1)
}

func (m *MockUnitOfWork) CustomerRepository() (repository.CustomerRepository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(repository.CustomerRepository)
	return repo, args.Error(1)
}

var _ repository.UnitOfWork = (*MockUnitOfWork)(nil)
