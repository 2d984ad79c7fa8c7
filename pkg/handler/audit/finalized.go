package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kbhub/txledger/pkg/domain/events"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/kbhub/txledger/pkg/eventbus"
)

// HandleTransactionFinalized writes one audit log line per finalized
// transaction. FAILED outcomes are logged at warn level with their reason.
func HandleTransactionFinalized(logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		log := logger.With(
			"handler", "audit.HandleTransactionFinalized",
			"event_type", e.Type(),
		)

		tf, ok := e.(*events.TransactionFinalized)
		if !ok {
			err := fmt.Errorf("unexpected event type: %s", e.Type())
			log.Error("unexpected event type", "error", err)
			return err
		}

		log = log.With(
			"event_id", tf.ID,
			"transaction_id", tf.TransactionID,
			"customer_id", tf.CustomerID,
			"transaction_type", tf.TransactionType,
			"amount", tf.Amount.String(),
			"signed_adjustment", tf.SignedAdjustment.String(),
			"status", tf.Status,
		)
		if tf.RelatedTransactionID != nil {
			log = log.With("related_transaction_id", *tf.RelatedTransactionID)
		}

		if tf.Status == transaction.StatusFailed {
			log.WarnContext(ctx, "transaction finalized", "reason", tf.Reason)
			return nil
		}
		log.InfoContext(ctx, "transaction finalized")
		return nil
	}
}
