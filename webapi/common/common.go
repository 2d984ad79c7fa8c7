// Package common holds the response envelope, RFC 9457 problem details and
// request binding shared by every HTTP app.
package common

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/kbhub/txledger/pkg/domain"
	"github.com/kbhub/txledger/pkg/domain/customer"
	"github.com/kbhub/txledger/pkg/domain/transaction"
)

// MIMEProblemJSON is the media type of problem responses.
const MIMEProblemJSON = "application/problem+json"

// BalanceAdjustmentFailedDetail replaces the downstream cause of a failed
// transaction; the cause itself is only logged.
const BalanceAdjustmentFailedDetail = "Balance adjustment could not be completed"

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
	// Transaction carries the FAILED record when processing was attempted.
	Transaction *transaction.Transaction `json:"transaction,omitempty"`
}

var validate = validator.New()

// ProblemDetailsJSON writes a problem response. args may contain a string
// (detail override) and an int (status override); otherwise the status is
// derived from err with ErrorToStatusCode. 5xx details, including the cause
// of a failed transaction, are never leaked unless overridden.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	status := fiber.StatusInternalServerError
	if err != nil {
		status = ErrorToStatusCode(err)
	}
	detail := ""
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			detail = v
		case int:
			status = v
		}
	}
	if detail == "" && err != nil {
		switch {
		case status < fiber.StatusInternalServerError:
			detail = err.Error()
		case errors.Is(err, transaction.ErrTransactionProcessingFailed):
			detail = BalanceAdjustmentFailedDetail
		default:
			detail = http.StatusText(status)
		}
	}

	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		pd.Errors = fields
	}
	var pe *transaction.ProcessingError
	if errors.As(err, &pe) {
		pd.Transaction = pe.Transaction
	}

	c.Set(fiber.HeaderContentType, MIMEProblemJSON)
	return c.Status(status).JSON(pd)
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, customer.ErrInsufficientBalance):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, transaction.ErrTransactionProcessingFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, transaction.ErrInvalidStatusTransition):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}

// ErrorHandler is the fiber.Config ErrorHandler of every app.
func ErrorHandler(c *fiber.Ctx, err error) error {
	title := "Internal Server Error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		title = http.StatusText(fe.Code)
		return ProblemDetailsJSON(c, title, err, fe.Message)
	}
	return ProblemDetailsJSON(c, title, err)
}
