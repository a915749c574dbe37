package model

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/supplyshield/riskengine/internal/domain/errs"
)

// Amounts are bounded so that comparisons and the canonical text form stay
// small regardless of how the input was written.
const (
	maxAmountExponent = 18
	maxAmountDigits   = 38
)

// ParseAmount parses a required monetary amount from its text form.
// Missing and non-numeric input is a ValidationError.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errs.NewValidation("amount", "is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errs.NewValidation("amount", "must be numeric")
	}
	if err := requireInRange(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

func requireInRange(amount decimal.Decimal) error {
	exp := amount.Exponent()
	if exp > maxAmountExponent || exp < -maxAmountExponent || amount.NumDigits() > maxAmountDigits {
		return errs.NewValidation("amount", "out of range")
	}
	return nil
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValidation("amount", "must be positive")
	}
	return requireInRange(amount)
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errs.NewValidation(field, "is required")
	}
	return value, nil
}
