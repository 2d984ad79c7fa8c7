// Package gateway is the public façade (ms-core). It forwards customer and
// transaction requests to the owning services and relays their problems.
package gateway

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/kbhub/txledger/infra/client"
	"github.com/kbhub/txledger/pkg/domain/customer"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/kbhub/txledger/webapi/common"
)

// CustomerAPI is the subset of the customer client the gateway uses.
type CustomerAPI interface {
	Create(ctx context.Context, req client.CreateCustomerRequest) (*customer.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
}

// TransactionAPI is the subset of the transaction client the gateway uses.
type TransactionAPI interface {
	Submit(ctx context.Context, typ transaction.Type, req client.SubmitRequest) (*transaction.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	List(ctx context.Context) ([]*transaction.Transaction, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*transaction.Transaction, error)
	History(ctx context.Context, id uuid.UUID) ([]transaction.StatusHistory, error)
}

// Routes registers the public endpoints.
func Routes(app *fiber.App, customers CustomerAPI, transactions TransactionAPI) {
	cg := app.Group("/api/v1/customers")
	cg.Post("/", CreateCustomer(customers))
	cg.Get("/:id", GetCustomer(customers))

	tg := app.Group("/api/v1/transactions")
	tg.Post("/topup", Submit(transactions, transaction.TypeTopUp))
	tg.Post("/purchase", Submit(transactions, transaction.TypePurchase))
	tg.Post("/refund", Submit(transactions, transaction.TypeRefund))
	tg.Get("/", ListTransactions(transactions))
	tg.Get("/customer/:customerId", ListCustomerTransactions(transactions))
	tg.Get("/:id", GetTransaction(transactions))
	tg.Get("/:id/history", TransactionHistory(transactions))
}

// CreateCustomer forwards a customer creation.
// @Summary Create a customer
// @Tags gateway
// @Accept json
// @Produce json
// @Param request body client.CreateCustomerRequest true "Customer details"
// @Success 201 {object} common.Response "Customer created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 502 {object} common.ProblemDetails "Customer service unavailable"
// @Router /api/v1/customers [post]
func CreateCustomer(customers CustomerAPI) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[client.CreateCustomerRequest](c)
		if input == nil {
			return err // error response already written
		}
		cust, err := customers.Create(c.UserContext(), *input)
		if err != nil {
			return relay(c, "Failed to create customer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Customer created", cust)
	}
}

// GetCustomer forwards a customer lookup.
// @Summary Get a customer
// @Tags gateway
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} common.Response "Customer fetched"
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Router /api/v1/customers/{id} [get]
func GetCustomer(customers CustomerAPI) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid customer ID", err, "Customer ID must be a valid UUID", fiber.StatusBadRequest)
		}
		cust, err := customers.Get(c.UserContext(), id)
		if err != nil {
			return relay(c, "Failed to get customer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Customer fetched", cust)
	}
}

// Submit forwards a transaction of typ.
// @Summary Submit a transaction
// @Tags gateway
// @Accept json
// @Produce json
// @Param type path string true "topup, purchase or refund"
// @Param request body client.SubmitRequest true "Transaction details"
// @Success 201 {object} common.Response "Transaction processed"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 422 {object} common.ProblemDetails "Insufficient balance"
// @Failure 502 {object} common.ProblemDetails "Downstream failure"
// @Router /api/v1/transactions/{type} [post]
func Submit(transactions TransactionAPI, typ transaction.Type) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[client.SubmitRequest](c)
		if input == nil {
			return err // error response already written
		}
		tx, err := transactions.Submit(c.UserContext(), typ, *input)
		if err != nil {
			return relay(c, "Transaction failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction processed", tx)
	}
}

// ListTransactions forwards the transaction listing.
// @Summary List transactions
// @Tags gateway
// @Produce json
// @Success 200 {object} common.Response "Transactions fetched"
// @Router /api/v1/transactions [get]
func ListTransactions(transactions TransactionAPI) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txs, err := transactions.List(c.UserContext())
		if err != nil {
			return relay(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", nonNil(txs))
	}
}

// ListCustomerTransactions forwards the per-customer listing.
// @Summary List a customer's transactions
// @Tags gateway
// @Produce json
// @Param customerId path string true "Customer ID"
// @Success 200 {object} common.Response "Transactions fetched"
// @Router /api/v1/transactions/customer/{customerId} [get]
func ListCustomerTransactions(transactions TransactionAPI) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, err := uuid.Parse(c.Params("customerId"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid customer ID", err, "Customer ID must be a valid UUID", fiber.StatusBadRequest)
		}
		txs, err := transactions.ListByCustomer(c.UserContext(), customerID)
		if err != nil {
			return relay(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", nonNil(txs))
	}
}

// GetTransaction forwards a transaction lookup.
// @Summary Get a transaction
// @Tags gateway
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response "Transaction fetched"
// @Failure 404 {object} common.ProblemDetails "Transaction not found"
// @Router /api/v1/transactions/{id} [get]
func GetTransaction(transactions TransactionAPI) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, "Transaction ID must be a valid UUID", fiber.StatusBadRequest)
		}
		tx, err := transactions.Get(c.UserContext(), id)
		if err != nil {
			return relay(c, "Failed to get transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction fetched", tx)
	}
}

// TransactionHistory forwards a status history lookup.
// @Summary Get a transaction's status history
// @Tags gateway
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response "History fetched"
// @Failure 404 {object} common.ProblemDetails "Transaction not found"
// @Router /api/v1/transactions/{id}/history [get]
func TransactionHistory(transactions TransactionAPI) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, "Transaction ID must be a valid UUID", fiber.StatusBadRequest)
		}
		entries, err := transactions.History(c.UserContext(), id)
		if err != nil {
			return relay(c, "Failed to get history", err)
		}
		if entries == nil {
			entries = []transaction.StatusHistory{}
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "History fetched", entries)
	}
}

// relay writes a downstream problem unchanged. Transport failures become 502.
func relay(c *fiber.Ctx, title string, err error) error {
	var pe *client.ProblemError
	if errors.As(err, &pe) {
		if len(pe.Body) > 0 {
			c.Set(fiber.HeaderContentType, common.MIMEProblemJSON)
			return c.Status(pe.StatusCode).Send(pe.Body)
		}
		return common.ProblemDetailsJSON(c, title, err, pe.StatusCode)
	}
	log.Errorf("%s: %v", title, err)
	return common.ProblemDetailsJSON(c, title, err, "Downstream service unavailable", fiber.StatusBadGateway)
}

func nonNil(txs []*transaction.Transaction) []*transaction.Transaction {
	if txs == nil {
		return []*transaction.Transaction{}
	}
	return txs
}
