package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/customer"
	"github.com/kbhub/txledger/pkg/servicetoken"
	"github.com/shopspring/decimal"
)

// CustomerService is the audience name of the customer service.
const CustomerService = "ms-customer"

var customerStatusErrors = statusErrors{
	http.StatusNotFound:            customer.ErrCustomerNotFound,
	http.StatusUnprocessableEntity: customer.ErrInsufficientBalance,
}

// CreateCustomerRequest is the body of POST /api/v1/customers.
type CreateCustomerRequest struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	BirthDate   string `json:"birthDate"`
	PhoneNumber string `json:"phoneNumber"`
}

type balanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CustomerClient calls the customer service. It is the remote balance store
// of the transaction service.
type CustomerClient struct {
	base
}

func NewCustomerClient(baseURL string, source *servicetoken.Source, timeout time.Duration, logger *slog.Logger) *CustomerClient {
	return &CustomerClient{base: newBase(CustomerService, baseURL, source, timeout, logger)}
}

// AdjustBalance applies a signed delta to the customer's balance.
func (c *CustomerClient) AdjustBalance(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) error {
	path := fmt.Sprintf("/api/v1/customers/%s/balance", url.PathEscape(customerID.String()))
	return c.do(ctx, http.MethodPut, path, balanceRequest{Amount: delta}, nil, customerStatusErrors)
}

func (c *CustomerClient) Create(ctx context.Context, req CreateCustomerRequest) (*customer.Customer, error) {
	var out customer.Customer
	if err := c.do(ctx, http.MethodPost, "/api/v1/customers", req, &out, customerStatusErrors); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CustomerClient) Get(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var out customer.Customer
	path := "/api/v1/customers/" + url.PathEscape(id.String())
	if err := c.do(ctx, http.MethodGet, path, nil, &out, customerStatusErrors); err != nil {
		return nil, err
	}
	return &out, nil
}
