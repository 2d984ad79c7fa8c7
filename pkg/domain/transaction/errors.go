package transaction

import (
	"errors"
	"fmt"

	"github.com/kbhub/txledger/pkg/domain"
)

var (
	ErrInvalidAmount               = fmt.Errorf("%w: amount must be present, greater than zero and have at most 2 decimal places", domain.ErrValidation)
	ErrRefundExceedsOriginal       = fmt.Errorf("%w: refund amount exceeds original transaction amount", domain.ErrValidation)
	ErrUnsupportedRefundTarget     = fmt.Errorf("%w: original transaction type cannot be refunded", domain.ErrValidation)
	ErrUnsupportedType             = fmt.Errorf("%w: unsupported transaction type", domain.ErrValidation)
	ErrOriginalTransactionNotFound = fmt.Errorf("%w: original transaction not found", domain.ErrNotFound)
	ErrTransactionNotFound         = fmt.Errorf("%w: transaction not found", domain.ErrNotFound)
	ErrTransactionProcessingFailed = errors.New("transaction processing failed")
	ErrInvalidStatusTransition     = errors.New("invalid status transition")
)

// ProcessingError is returned when the balance adjustment for a persisted
// transaction failed. Transaction holds the record as finalized (FAILED).
type ProcessingError struct {
	Transaction *Transaction
	Cause       error
}

func (e *ProcessingError) Error() string {
	if e.Cause == nil {
		return ErrTransactionProcessingFailed.Error()
	}
	return fmt.Sprintf("%s: %v", ErrTransactionProcessingFailed, e.Cause)
}

// Is matches ErrTransactionProcessingFailed.
func (e *ProcessingError) Is(target error) bool {
	return target == ErrTransactionProcessingFailed
}

func (e *ProcessingError) Unwrap() error { return e.Cause }
