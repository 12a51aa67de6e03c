package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are stored as BIGINT cents (10^-2) to avoid floating point errors,
// and carried on the wire as fixed-precision decimal strings ("40.00").
const centsPerUnit = 100

// ParseAmount converts a decimal string into cents. It rejects anything that
// is not a positive amount with at most two fraction digits.
func ParseAmount(s string) (int64, error) {
	cents, err := parseCents(s, "amount")
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, NewInvalidInput("Amount must be greater than 0")
	}
	return cents, nil
}

// ParseBalance is ParseAmount for opening balances, which may be zero.
// An empty string means a zero opening balance.
func ParseBalance(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	cents, err := parseCents(s, "balance")
	if err != nil {
		return 0, err
	}
	if cents < 0 {
		return 0, NewInvalidInput("balance must not be negative")
	}
	return cents, nil
}

func parseCents(s, field string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, NewInvalidInput(fmt.Sprintf("invalid %s: %q", field, s))
	}
	if d.Exponent() < -2 {
		return 0, NewInvalidInput(fmt.Sprintf("%s %s has more than two decimal places", field, s))
	}
	scaled := d.Mul(decimal.NewFromInt(centsPerUnit)).BigInt()
	// IntPart would wrap around past int64 range, turning an absurd amount
	// into a plausible one.
	if !scaled.IsInt64() {
		return 0, NewInvalidInput(fmt.Sprintf("%s %s is out of range", field, s))
	}
	return scaled.Int64(), nil
}

// FormatAmount renders cents as a two-decimal string.
func FormatAmount(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(centsPerUnit)).StringFixed(2)
}
