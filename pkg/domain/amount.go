package domain

import "github.com/shopspring/decimal"

// AmountScale is the number of fractional digits a monetary amount may carry.
// Amounts are persisted as integer minor units (cents).
const AmountScale = 2

// HasAmountScale reports whether d can be stored as minor units without rounding.
func HasAmountScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale))
}

// ToMinorUnits converts d to minor units. d must satisfy HasAmountScale.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Shift(AmountScale).IntPart()
}

// FromMinorUnits converts minor units back to a decimal amount.
func FromMinorUnits(v int64) decimal.Decimal {
	return decimal.New(v, -AmountScale)
}
