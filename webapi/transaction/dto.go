package transaction

import (
	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	txsvc "github.com/kbhub/txledger/pkg/service/transaction"
	"github.com/shopspring/decimal"
)

// SubmitRequest represents the request body of the topup, purchase and refund endpoints.
// Amount is checked by the service so a missing or non-positive value is
// reported the same way for every caller.
type SubmitRequest struct {
	CustomerID           string           `json:"customerId" validate:"required,uuid"`
	Amount               *decimal.Decimal `json:"amount" swaggertype:"number" example:"25.50"`
	RelatedTransactionID string           `json:"relatedTransactionId,omitempty" validate:"omitempty,uuid"`
}

func (r SubmitRequest) toServiceRequest() txsvc.Request {
	req := txsvc.Request{
		CustomerID: uuid.MustParse(r.CustomerID),
		Amount:     r.Amount,
	}
	if r.RelatedTransactionID != "" {
		related := uuid.MustParse(r.RelatedTransactionID)
		req.RelatedTransactionID = &related
	}
	return req
}

func nonNilHistory(entries []transaction.StatusHistory) []transaction.StatusHistory {
	if entries == nil {
		return []transaction.StatusHistory{}
	}
	return entries
}

func nonNilList(txs []*transaction.Transaction) []*transaction.Transaction {
	if txs == nil {
		return []*transaction.Transaction{}
	}
	return txs
}
