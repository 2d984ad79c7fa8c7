// Package app assembles the services of one binary from its dependencies.
package app

import (
	"log/slog"

	"github.com/kbhub/txledger/pkg/config"
	"github.com/kbhub/txledger/pkg/eventbus"
	"github.com/kbhub/txledger/pkg/repository"
	customersvc "github.com/kbhub/txledger/pkg/service/customer"
	txsvc "github.com/kbhub/txledger/pkg/service/transaction"
)

// Deps contains the dependencies the services are built from. Balance is
// only set for the transaction service.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Balance  txsvc.BalanceAdjuster
	Metrics  txsvc.Metrics
	Logger   *slog.Logger
}

type App struct {
	Deps               *Deps
	Config             *config.App
	CustomerService    *customersvc.Service
	TransactionService *txsvc.Service
}

func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.CustomerService = customersvc.NewService(deps.Uow, deps.Logger.With("service", "customer"))

	if deps.Balance != nil {
		var staleAfter = txsvc.DefaultStaleAfter
		if cfg != nil && cfg.Reconciliation != nil {
			staleAfter = cfg.Reconciliation.StaleAfter
		}
		app.TransactionService = txsvc.NewService(txsvc.Deps{
			Uow:        deps.Uow,
			Balance:    deps.Balance,
			EventBus:   deps.EventBus,
			Metrics:    deps.Metrics,
			Logger:     deps.Logger.With("service", "transaction"),
			StaleAfter: staleAfter,
		})
		app.setupEventBus()
	}
	return app
}
