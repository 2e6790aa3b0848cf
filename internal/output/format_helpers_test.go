//go:build unit

package output

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234.567", "₹1,234.57"},
		{"1234567.8", "₹12,34,567.80"},
		{"-250000", "-₹2,50,000.00"},
		{"0", "₹0.00"},
	}
	for _, c := range cases {
		v := decimal.RequireFromString(c.in)
		if got := FormatCurrency(v); got != c.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, c.want)
		}
	}
}

func TestFormatPercentage(t *testing.T) {
	v := decimal.NewFromFloat(12.3456)
	got := FormatPercentage(v)
	want := "12.35%"
	if got != want {
		t.Errorf("FormatPercentage(%v) = %q, want %q", v, got, want)
	}
}
