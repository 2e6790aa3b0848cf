package output

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fund-calculator/pkg/dateutil"
)

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// fixedOrBlank renders d with two decimals, or "" when it is zero.
func fixedOrBlank(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

func isoOrBlank(t *time.Time) string {
	if t == nil {
		return ""
	}
	return dateutil.FormatISO(*t)
}
