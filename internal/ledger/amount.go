package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CoerceAmount parses a stored or submitted amount. Anything that is not a
// number (empty, garbage, NaN) becomes zero rather than an error.
func CoerceAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// sum adds amounts without accumulating binary floating point error.
func sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
