package calculation

import (
	"math"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Sensitivity table bounds around the quoted rate, in percentage points.
var (
	sensitivitySpread = decimal.NewFromInt(2)
	sensitivityStep   = decimal.NewFromFloat(0.5)
)

func tenureMonths(op string, tenureYears float64) (int, error) {
	n := int(math.Round(tenureYears * 12))
	if n < 1 {
		return 0, domain.NewInvalidInput(op, "tenure must be at least one month, got %g years", tenureYears)
	}
	return n, nil
}

// emiFloat is P*r*(1+r)^n / ((1+r)^n - 1), or P/n without interest.
func emiFloat(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	g := math.Pow(1+r, float64(n))
	return principal * r * g / (g - 1)
}

// LoanEMI computes the equated monthly instalment with totals, a rate
// sensitivity table and the amortization schedule.
func LoanEMI(principal, annualRatePercent decimal.Decimal, tenureYears float64) (*domain.LoanResult, error) {
	const op = "loan emi"
	if !principal.IsPositive() {
		return nil, domain.NewInvalidInput(op, "principal must be positive, got %s", principal)
	}
	if annualRatePercent.IsNegative() {
		return nil, domain.NewInvalidInput(op, "interest rate must not be negative, got %s%%", annualRatePercent)
	}
	n, err := tenureMonths(op, tenureYears)
	if err != nil {
		return nil, err
	}

	emi := decimal.NewFromFloat(emiFloat(principal.InexactFloat64(), monthlyRate(annualRatePercent), n)).Round(2)
	total := emi.Mul(decimal.NewFromInt(int64(n)))
	return &domain.LoanResult{
		Mode:              "emi",
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TenureYears:       tenureYears,
		EMI:               emi,
		TotalPayment:      total,
		TotalInterest:     total.Sub(principal),
		Sensitivity:       EMISensitivity(principal, annualRatePercent, n),
		Schedule:          Amortize(principal, annualRatePercent, emi, n),
	}, nil
}

// EMISensitivity tabulates the EMI from two points below to two points above
// the given rate in half-point steps. Negative rates are skipped.
func EMISensitivity(principal, annualRatePercent decimal.Decimal, months int) []domain.RatePoint {
	var points []domain.RatePoint
	high := annualRatePercent.Add(sensitivitySpread)
	for rate := annualRatePercent.Sub(sensitivitySpread); rate.LessThanOrEqual(high); rate = rate.Add(sensitivityStep) {
		if rate.IsNegative() {
			continue
		}
		emi := emiFloat(principal.InexactFloat64(), monthlyRate(rate), months)
		points = append(points, domain.RatePoint{
			AnnualRatePercent: rate,
			EMI:               decimal.NewFromFloat(emi).Round(2),
		})
	}
	return points
}

// Amortize splits each instalment into interest and principal. The final
// payment settles the remaining balance exactly.
func Amortize(principal, annualRatePercent, emi decimal.Decimal, months int) []domain.AmortizationRow {
	r := annualRatePercent.Div(hundred).Div(decimal.NewFromInt(12))
	balance := principal
	rows := make([]domain.AmortizationRow, 0, months)
	for m := 1; m <= months && balance.IsPositive(); m++ {
		interest := balance.Mul(r).Round(2)
		repaid := emi.Sub(interest)
		if m == months || repaid.GreaterThan(balance) {
			repaid = balance
		}
		balance = balance.Sub(repaid)
		rows = append(rows, domain.AmortizationRow{
			Month:     m,
			Payment:   interest.Add(repaid),
			Interest:  interest,
			Principal: repaid,
			Balance:   balance,
		})
	}
	return rows
}

// LoanTenure returns the years needed to repay principal with a monthly emi.
// The emi must exceed the first month's interest.
func LoanTenure(principal, annualRatePercent, emi decimal.Decimal) (*domain.LoanResult, error) {
	const op = "loan tenure"
	if !principal.IsPositive() || !emi.IsPositive() {
		return nil, domain.NewInvalidInput(op, "principal and EMI must be positive")
	}
	if annualRatePercent.IsNegative() {
		return nil, domain.NewInvalidInput(op, "interest rate must not be negative, got %s%%", annualRatePercent)
	}
	r := monthlyRate(annualRatePercent)
	p, e := principal.InexactFloat64(), emi.InexactFloat64()

	var months float64
	if r == 0 {
		months = p / e
	} else {
		if e <= p*r {
			return nil, domain.NewInvalidInput(op, "EMI %s does not cover the monthly interest of %s",
				emi, decimal.NewFromFloat(p*r).Round(2))
		}
		months = math.Log(e/(e-p*r)) / math.Log(1+r)
	}
	return &domain.LoanResult{
		Mode:              "tenure",
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TenureYears:       months / 12,
		EMI:               emi,
	}, nil
}

// LoanRate recovers the annual interest rate implied by an EMI by bisecting
// the monthly rate over [0, 1].
func LoanRate(principal, emi decimal.Decimal, tenureYears float64) (*domain.LoanResult, error) {
	const op = "loan rate"
	if !principal.IsPositive() || !emi.IsPositive() {
		return nil, domain.NewInvalidInput(op, "principal and EMI must be positive")
	}
	n, err := tenureMonths(op, tenureYears)
	if err != nil {
		return nil, err
	}
	p, e := principal.InexactFloat64(), emi.InexactFloat64()
	if e*float64(n) <= p {
		return nil, domain.NewInvalidInput(op, "%d payments of %s do not exceed the principal %s", n, emi, principal)
	}

	low, high, mid := 0.0, 1.0, 0.0
	for i := 0; i < BisectionIterations; i++ {
		mid = (low + high) / 2
		if emiFloat(p, mid, n) > e {
			high = mid
		} else {
			low = mid
		}
	}
	return &domain.LoanResult{
		Mode:              "rate",
		Principal:         principal,
		AnnualRatePercent: decimal.NewFromFloat(mid * 12 * 100),
		TenureYears:       tenureYears,
		EMI:               emi,
	}, nil
}
