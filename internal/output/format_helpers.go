package output

import (
	"strconv"

	"github.com/shopspring/decimal"

	money "github.com/rpgo/fund-calculator/pkg/decimal"
)

// FormatCurrency formats a decimal as rupees with Indian digit grouping.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string { return money.FormatINR(amount) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatYears renders a fractional year count with 2 decimals.
func FormatYears(years float64) string {
	return strconv.FormatFloat(years, 'f', 2, 64) + " years"
}
