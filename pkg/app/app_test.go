package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	infrarepo "github.com/kbhub/txledger/infra/repository"
	"github.com/kbhub/txledger/internal/fixtures/mocks"
	"github.com/kbhub/txledger/pkg/app"
	"github.com/kbhub/txledger/pkg/config"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	txsvc "github.com/kbhub/txledger/pkg/service/transaction"
	"github.com/kbhub/txledger/pkg/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCustomerOnly(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	a := app.New(&app.Deps{Uow: infrarepo.NewUoW(db), Logger: testutils.DiscardLogger()}, &config.App{})

	assert.NotNil(t, a.CustomerService)
	assert.Nil(t, a.TransactionService)
}

func TestNewTransactionServiceRegistersAudit(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	uow := infrarepo.NewUoW(db)
	bus := &mocks.RecordingBus{}
	balance := mocks.NewMockBalanceAdjuster(t)
	balance.On("AdjustBalance", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	a := app.New(&app.Deps{
		Uow:      uow,
		EventBus: bus,
		Balance:  balance,
		Logger:   testutils.DiscardLogger(),
	}, &config.App{Reconciliation: &config.Reconciliation{StaleAfter: time.Minute}})
	require.NotNil(t, a.TransactionService)

	amount := decimal.NewFromInt(5)
	tx, err := a.TransactionService.TopUp(context.Background(), txsvc.Request{CustomerID: uuid.New(), Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusSuccess, tx.Status)
	assert.Len(t, bus.Emitted(), 1)
}
