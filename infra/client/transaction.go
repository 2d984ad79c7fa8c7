package client

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/kbhub/txledger/pkg/servicetoken"
	"github.com/shopspring/decimal"
)

// TransactionService is the audience name of the transaction service.
const TransactionService = "ms-transaction"

// SubmitRequest is the body of the transaction submission endpoints.
type SubmitRequest struct {
	CustomerID           uuid.UUID        `json:"customerId"`
	Amount               *decimal.Decimal `json:"amount"`
	RelatedTransactionID *uuid.UUID       `json:"relatedTransactionId,omitempty"`
}

// TransactionClient calls the transaction service on behalf of the gateway.
type TransactionClient struct {
	base
}

func NewTransactionClient(baseURL string, source *servicetoken.Source, timeout time.Duration, logger *slog.Logger) *TransactionClient {
	return &TransactionClient{base: newBase(TransactionService, baseURL, source, timeout, logger)}
}

// Submit posts a transaction of typ (TOP_UP, PURCHASE or REFUND).
func (c *TransactionClient) Submit(ctx context.Context, typ transaction.Type, req SubmitRequest) (*transaction.Transaction, error) {
	var out transaction.Transaction
	if err := c.do(ctx, http.MethodPost, "/api/v1/transactions/"+submitPath(typ), req, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TransactionClient) Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var out transaction.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/v1/transactions/"+url.PathEscape(id.String()), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TransactionClient) List(ctx context.Context) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/v1/transactions", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TransactionClient) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	path := "/api/v1/transactions/customer/" + url.PathEscape(customerID.String())
	if err := c.do(ctx, http.MethodGet, path, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TransactionClient) History(ctx context.Context, id uuid.UUID) ([]transaction.StatusHistory, error) {
	var out []transaction.StatusHistory
	path := "/api/v1/transactions/" + url.PathEscape(id.String()) + "/history"
	if err := c.do(ctx, http.MethodGet, path, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func submitPath(typ transaction.Type) string {
	if typ == transaction.TypeTopUp {
		return "topup"
	}
	return strings.ToLower(typ.String())
}
