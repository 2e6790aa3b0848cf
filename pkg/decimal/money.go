package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RupeeSymbol prefixes every formatted amount.
const RupeeSymbol = "₹"

// ParseAmount parses an amount as typed by a user. Digit grouping commas
// (western or Indian) and a leading rupee symbol are accepted.
func ParseAmount(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	s = strings.TrimPrefix(s, RupeeSymbol)
	s = strings.ReplaceAll(s, ",", "")
	return decimal.NewFromString(strings.TrimSpace(s))
}

// FormatINR formats d with Indian digit grouping: the last three integer
// digits form one group, every group to the left of it has two digits.
func FormatINR(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	return sign + RupeeSymbol + GroupIndian(intPart) + "." + frac
}

// GroupIndian inserts lakh/crore separators into a string of digits.
func GroupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, lastThree := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + lastThree
}
