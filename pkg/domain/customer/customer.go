package customer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kbhub/txledger/pkg/domain"
	"github.com/shopspring/decimal"
)

// BirthDateLayout is the wire format of a customer's birth date (dd.MM.yyyy).
const BirthDateLayout = "02.01.2006"

// InitialBalance is credited to every newly created customer.
var InitialBalance = decimal.NewFromInt(100)

var (
	ErrCustomerNotFound    = fmt.Errorf("%w: customer not found", domain.ErrNotFound)
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient balance: balance cannot be negative", domain.ErrValidation)
	ErrInvalidBirthDate    = fmt.Errorf("%w: birth date must be in dd.MM.yyyy format", domain.ErrValidation)
	ErrInvalidAdjustment   = fmt.Errorf("%w: adjustment must have at most 2 decimal places", domain.ErrValidation)
)

// Customer owns a balance that transactions adjust.
type Customer struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Surname     string          `json:"surname"`
	BirthDate   time.Time       `json:"birthDate"`
	PhoneNumber string          `json:"phoneNumber"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// New builds a customer with the initial balance.
func New(name, surname, birthDate, phone string) (*Customer, error) {
	bd, err := ParseBirthDate(birthDate)
	if err != nil {
		return nil, err
	}
	return &Customer{
		Name:        name,
		Surname:     surname,
		BirthDate:   bd,
		PhoneNumber: phone,
		Balance:     InitialBalance,
	}, nil
}

// ParseBirthDate parses a dd.MM.yyyy date.
func ParseBirthDate(s string) (time.Time, error) {
	t, err := time.Parse(BirthDateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidBirthDate
	}
	return t, nil
}

// ValidateAdjustment rejects deltas that cannot be applied in whole cents.
func ValidateAdjustment(delta decimal.Decimal) error {
	if !domain.HasAmountScale(delta) {
		return ErrInvalidAdjustment
	}
	return nil
}
