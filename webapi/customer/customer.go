package customer

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	customersvc "github.com/kbhub/txledger/pkg/service/customer"
	"github.com/kbhub/txledger/webapi/common"
)

// Routes registers the customer endpoints. Only the balance endpoint, the
// one other services call, requires a service credential.
//
// Routes:
//   - POST /api/v1/customers              : Create a customer with the initial balance.
//   - GET  /api/v1/customers/:id          : Get a customer.
//   - PUT  /api/v1/customers/:id/balance  : Apply a signed balance adjustment.
func Routes(app *fiber.App, svc *customersvc.Service, auth fiber.Handler) {
	g := app.Group("/api/v1/customers")
	g.Post("/", CreateCustomer(svc))
	g.Get("/:id", GetCustomer(svc))
	g.Put("/:id/balance", auth, AdjustBalance(svc))
}

// CreateCustomer returns a Fiber handler creating a customer.
// @Summary Create a customer
// @Description New customers start with a balance of 100.
// @Tags customers
// @Accept json
// @Produce json
// @Param request body CreateCustomerRequest true "Customer details"
// @Success 201 {object} common.Response "Customer created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 409 {object} common.ProblemDetails "Phone number already registered"
// @Router /api/v1/customers [post]
func CreateCustomer(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateCustomerRequest](c)
		if input == nil {
			return err // error response already written
		}
		cust, err := svc.Create(c.UserContext(), customersvc.CreateRequest{
			Name:        input.Name,
			Surname:     input.Surname,
			BirthDate:   input.BirthDate,
			PhoneNumber: input.PhoneNumber,
		})
		if err != nil {
			log.Errorf("Failed to create customer: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create customer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Customer created", cust)
	}
}

// GetCustomer returns a Fiber handler fetching a customer.
// @Summary Get a customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} common.Response "Customer fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid customer ID"
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Router /api/v1/customers/{id} [get]
func GetCustomer(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid customer ID", err, "Customer ID must be a valid UUID", fiber.StatusBadRequest)
		}
		cust, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get customer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Customer fetched", cust)
	}
}

// AdjustBalance returns a Fiber handler applying a signed delta to a balance.
// @Summary Adjust a customer's balance
// @Description Applies a signed amount. The balance never goes below zero.
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body AdjustBalanceRequest true "Signed amount"
// @Success 200 {object} common.Response "Balance updated"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Missing or invalid service credential"
// @Failure 403 {object} common.ProblemDetails "Caller not allowed"
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Failure 422 {object} common.ProblemDetails "Balance cannot be negative"
// @Router /api/v1/customers/{id}/balance [put]
// @Security Bearer
func AdjustBalance(svc *customersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid customer ID", err, "Customer ID must be a valid UUID", fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[AdjustBalanceRequest](c)
		if input == nil {
			return err // error response already written
		}
		cust, err := svc.AdjustBalance(c.UserContext(), id, *input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Balance adjustment rejected", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance updated", cust)
	}
}
