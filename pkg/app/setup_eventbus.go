package app

import (
	"github.com/kbhub/txledger/pkg/domain/events"
	"github.com/kbhub/txledger/pkg/handler/audit"
)

// setupEventBus registers the event handlers of the transaction service.
func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil {
		return
	}
	a.Deps.EventBus.Register(
		events.EventTypeTransactionFinalized,
		audit.HandleTransactionFinalized(a.Deps.Logger),
	)
}
