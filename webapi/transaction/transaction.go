package transaction

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/kbhub/txledger/pkg/middleware"
	txsvc "github.com/kbhub/txledger/pkg/service/transaction"
	"github.com/kbhub/txledger/webapi/common"
)

// Routes registers the transaction endpoints. Every route requires a
// service credential (auth).
//
// Routes:
//   - POST /api/v1/transactions/topup                 : Credit a customer's balance.
//   - POST /api/v1/transactions/purchase              : Debit a customer's balance.
//   - POST /api/v1/transactions/refund                : Reverse (part of) an earlier transaction.
//   - GET  /api/v1/transactions                       : List all transactions.
//   - GET  /api/v1/transactions/stale                 : List transactions stuck in PENDING.
//   - GET  /api/v1/transactions/customer/:customerId  : List a customer's transactions.
//   - GET  /api/v1/transactions/:id                   : Get one transaction.
//   - GET  /api/v1/transactions/:id/history           : Get a transaction's status history.
func Routes(app *fiber.App, svc *txsvc.Service, auth fiber.Handler) {
	g := app.Group("/api/v1/transactions", auth)
	g.Post("/topup", Submit(svc, transaction.TypeTopUp))
	g.Post("/purchase", Submit(svc, transaction.TypePurchase))
	g.Post("/refund", Submit(svc, transaction.TypeRefund))
	g.Get("/", List(svc))
	g.Get("/stale", ListStale(svc))
	g.Get("/customer/:customerId", ListByCustomer(svc))
	g.Get("/:id", Get(svc))
	g.Get("/:id/history", History(svc))
}

// Submit returns a handler processing one transaction of typ.
// @Summary Submit a transaction
// @Description Records a PENDING transaction, adjusts the customer's balance and finalizes it.
// @Description A failed adjustment returns the FAILED transaction inside the problem response.
// @Tags transactions
// @Accept json
// @Produce json
// @Param type path string true "topup, purchase or refund"
// @Param request body SubmitRequest true "Transaction details"
// @Success 201 {object} common.Response "Transaction processed"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Missing or invalid service credential"
// @Failure 403 {object} common.ProblemDetails "Caller not allowed"
// @Failure 404 {object} common.ProblemDetails "Original transaction not found"
// @Failure 422 {object} common.ProblemDetails "Insufficient balance"
// @Failure 502 {object} common.ProblemDetails "Balance adjustment failed"
// @Router /api/v1/transactions/{type} [post]
// @Security Bearer
func Submit(svc *txsvc.Service, typ transaction.Type) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SubmitRequest](c)
		if input == nil {
			return err // error response already written
		}
		tx, err := svc.Submit(c.UserContext(), input.toServiceRequest(), typ)
		if err != nil {
			log.Errorf("Failed to process %s transaction from %s: %v", typ, middleware.CallingService(c), err)
			return common.ProblemDetailsJSON(c, "Transaction failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction processed", tx)
	}
}

// List returns all transactions.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Success 200 {object} common.Response "Transactions fetched"
// @Failure 401 {object} common.ProblemDetails "Missing or invalid service credential"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /api/v1/transactions [get]
// @Security Bearer
func List(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txs, err := svc.List(c.UserContext())
		if err != nil {
			log.Errorf("Failed to list transactions: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", nonNilList(txs))
	}
}

// ListByCustomer returns every transaction of a customer. An unknown
// customer yields an empty list.
// @Summary List a customer's transactions
// @Tags transactions
// @Produce json
// @Param customerId path string true "Customer ID"
// @Success 200 {object} common.Response "Transactions fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid customer ID"
// @Failure 401 {object} common.ProblemDetails "Missing or invalid service credential"
// @Router /api/v1/transactions/customer/{customerId} [get]
// @Security Bearer
func ListByCustomer(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, err := uuid.Parse(c.Params("customerId"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid customer ID", err, "Customer ID must be a valid UUID", fiber.StatusBadRequest)
		}
		txs, err := svc.ListByCustomer(c.UserContext(), customerID)
		if err != nil {
			log.Errorf("Failed to list transactions of customer %s: %v", customerID, err)
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", nonNilList(txs))
	}
}

// Get returns one transaction.
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response "Transaction fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid transaction ID"
// @Failure 404 {object} common.ProblemDetails "Transaction not found"
// @Router /api/v1/transactions/{id} [get]
// @Security Bearer
func Get(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, "Transaction ID must be a valid UUID", fiber.StatusBadRequest)
		}
		tx, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction fetched", tx)
	}
}

// History returns the status history of a transaction, oldest first.
// @Summary Get a transaction's status history
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response "History fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid transaction ID"
// @Failure 404 {object} common.ProblemDetails "Transaction not found"
// @Router /api/v1/transactions/{id}/history [get]
// @Security Bearer
func History(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, "Transaction ID must be a valid UUID", fiber.StatusBadRequest)
		}
		entries, err := svc.History(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get history", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "History fetched", nonNilHistory(entries))
	}
}

// ListStale lists PENDING transactions older than the olderThan query
// parameter (a Go duration, default from configuration). Read only.
// @Summary List stale pending transactions
// @Tags transactions
// @Produce json
// @Param olderThan query string false "Age threshold, e.g. 15m"
// @Success 200 {object} common.Response "Stale transactions fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid olderThan"
// @Router /api/v1/transactions/stale [get]
// @Security Bearer
func ListStale(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var olderThan time.Duration
		if raw := c.Query("olderThan"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil || d <= 0 {
				return common.ProblemDetailsJSON(c, "Invalid olderThan", err, "olderThan must be a positive duration such as 15m", fiber.StatusBadRequest)
			}
			olderThan = d
		}
		txs, err := svc.ListStale(c.UserContext(), olderThan)
		if err != nil {
			log.Errorf("Failed to list stale transactions: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list stale transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Stale transactions fetched", nonNilList(txs))
	}
}
