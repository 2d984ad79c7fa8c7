package customer

import "github.com/shopspring/decimal"

// CreateCustomerRequest represents the request body for creating a customer.
type CreateCustomerRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Surname     string `json:"surname" validate:"required,max=100"`
	BirthDate   string `json:"birthDate" validate:"required" example:"31.12.1990"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=32"`
}

// AdjustBalanceRequest carries a signed balance delta.
type AdjustBalanceRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required" swaggertype:"number" example:"-25.50"`
}
