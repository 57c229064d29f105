package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits stored for every currency amount.
const MoneyScale = 2

// ParseAmount parses a decimal currency amount. Values with more than two fractional
// digits are rejected rather than rounded.
func ParseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("amount is required: %w", ErrInvalidArgument)
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount value %q: %w", trimmed, ErrInvalidArgument)
	}
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return decimal.Zero, fmt.Errorf("amount %s has more than %d decimal places: %w", trimmed, MoneyScale, ErrInvalidArgument)
	}
	return amount, nil
}

// FormatAmount renders an amount for human-readable messages: trailing zeros are
// dropped but at least one fractional digit is kept (100.00 -> "100.0", 10.50 -> "10.5").
func FormatAmount(amount decimal.Decimal) string {
	s := amount.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
