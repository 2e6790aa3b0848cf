package calculation

import (
	"math"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// CAGR returns the compound annual growth rate, in percent, of principal
// growing to final over years.
func CAGR(principal, final decimal.Decimal, years float64) (decimal.Decimal, error) {
	if !principal.IsPositive() {
		return decimal.Zero, domain.NewInvalidInput("cagr", "principal must be positive, got %s", principal)
	}
	if years <= 0 || math.IsNaN(years) || math.IsInf(years, 0) {
		return decimal.Zero, domain.NewInvalidInput("cagr", "elapsed years must be positive, got %g", years)
	}
	ratio := final.Div(principal).InexactFloat64()
	if ratio < 0 {
		return decimal.Zero, domain.NewInvalidInput("cagr", "final value %s is negative", final)
	}
	rate := math.Pow(ratio, 1/years) - 1
	if math.IsInf(rate, 0) || math.IsNaN(rate) {
		return decimal.Zero, domain.NewInvalidInput("cagr", "growth from %s to %s over %g years is out of range", principal, final, years)
	}
	return decimal.NewFromFloat(rate * 100), nil
}

// ReturnPercent returns the absolute return of principal growing to final, in percent.
func ReturnPercent(principal, final decimal.Decimal) (decimal.Decimal, error) {
	if !principal.IsPositive() {
		return decimal.Zero, domain.NewInvalidInput("return percent", "principal must be positive, got %s", principal)
	}
	return final.Sub(principal).Div(principal).Mul(hundred), nil
}

// fillMetrics sets TotalReturn, CAGRPercent and ReturnPercent of result
// measuring growth from principal to outcome.
func fillMetrics(result *domain.ValuationResult, principal, outcome decimal.Decimal) error {
	cagr, err := CAGR(principal, outcome, result.Years)
	if err != nil {
		return err
	}
	ret, err := ReturnPercent(principal, outcome)
	if err != nil {
		return err
	}
	result.TotalReturn = outcome.Sub(principal)
	result.CAGRPercent = cagr
	result.ReturnPercent = ret
	return nil
}
