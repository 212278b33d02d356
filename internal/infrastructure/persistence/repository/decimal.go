package repository

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money columns are stored as normalized decimal strings (decimal.String()
// output), so exact-equality matching works at the SQL level.

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored amount %q: %w", s, err)
	}
	return d, nil
}
