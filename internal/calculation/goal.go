package calculation

import (
	"math"
	"time"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// BisectionIterations is the fixed number of halvings used by the solvers.
const BisectionIterations = 20

var two = decimal.NewFromInt(2)

func validateGoal(op string, target decimal.Decimal, years int) error {
	if !target.IsPositive() {
		return domain.NewInvalidInput(op, "target must be positive, got %s", target)
	}
	if years <= 0 {
		return domain.NewInvalidInput(op, "years must be positive, got %d", years)
	}
	return nil
}

// SolveRequiredContribution finds the monthly SIP base amount that grows to
// target over years from start when replayed against series. A non-zero
// stepUpPercent changes the contribution every year. The search bisects
// [0, target/(years*12)] a fixed number of times and returns the last midpoint.
func SolveRequiredContribution(target decimal.Decimal, series PriceSource, start time.Time, years int, stepUpPercent decimal.Decimal) (decimal.Decimal, error) {
	amount, _, err := solveRequiredContribution(target, series, start, years, stepUpPercent)
	return amount, err
}

// solveRequiredContribution also reports whether the top of the bracket
// reaches target. When it does not, the midpoint returned sits just below
// the bracket top and falls short of target.
func solveRequiredContribution(target decimal.Decimal, series PriceSource, start time.Time, years int, stepUpPercent decimal.Decimal) (decimal.Decimal, bool, error) {
	const op = "solve required contribution"
	if err := validateGoal(op, target, years); err != nil {
		return decimal.Zero, false, err
	}
	end := dateutil.AddYears(dateutil.Day(start), years)

	finalValue := func(base decimal.Decimal) (decimal.Decimal, error) {
		policy := domain.Flat(base)
		if !stepUpPercent.IsZero() {
			policy = domain.AnnualStepUp(base, stepUpPercent)
		}
		result, err := SimulateSIP(series, domain.ScheduleSpec{
			Start:     start,
			End:       end,
			Frequency: domain.Monthly,
			CashFlow:  policy,
		})
		if err != nil {
			return decimal.Zero, err
		}
		return result.FinalValue, nil
	}

	low := decimal.Zero
	high := target.Div(decimal.NewFromInt(int64(years * 12)))
	top, err := finalValue(high)
	if err != nil {
		return decimal.Zero, false, err
	}
	reachable := top.GreaterThanOrEqual(target)

	var mid decimal.Decimal
	for i := 0; i < BisectionIterations; i++ {
		mid = low.Add(high).Div(two)
		value, err := finalValue(mid)
		if err != nil {
			return decimal.Zero, false, err
		}
		if value.LessThan(target) {
			low = mid
		} else {
			high = mid
		}
	}
	return mid, reachable, nil
}

// SolveRequiredLumpsum returns the single investment at start that grows to
// target after years, using the NAV ratio between the two dates.
func SolveRequiredLumpsum(target decimal.Decimal, series PriceSource, start time.Time, years int) (decimal.Decimal, error) {
	const op = "solve required lumpsum"
	if err := validateGoal(op, target, years); err != nil {
		return decimal.Zero, err
	}
	start, end, _, err := window(op, series, start, dateutil.AddYears(dateutil.Day(start), years))
	if err != nil {
		return decimal.Zero, err
	}
	run := newValuationRun(series)
	startPrice, err := run.priceAt(op, start)
	if err != nil {
		return decimal.Zero, err
	}
	endPrice, err := run.priceAt(op, end)
	if err != nil {
		return decimal.Zero, err
	}
	return target.Mul(startPrice.Div(endPrice)), nil
}

// Fixed-rate planners assume a constant expected annual return instead of
// replaying NAV history. Monthly contributions are made at the start of each
// month and compound at annualReturnPercent/12.

func monthlyRate(annualReturnPercent decimal.Decimal) float64 {
	return annualReturnPercent.InexactFloat64() / 100 / 12
}

// sipFutureValueFactor is the future value of 1 paid at the start of each of n months.
func sipFutureValueFactor(r float64, n float64) float64 {
	if r == 0 {
		return n
	}
	return (math.Pow(1+r, n) - 1) / r * (1 + r)
}

// SIPFutureValue projects monthly contributions over years.
func SIPFutureValue(monthly decimal.Decimal, years int, annualReturnPercent decimal.Decimal) decimal.Decimal {
	factor := sipFutureValueFactor(monthlyRate(annualReturnPercent), float64(years*12))
	return monthly.Mul(decimal.NewFromFloat(factor))
}

// LumpsumFutureValue compounds amount annually over years.
func LumpsumFutureValue(amount decimal.Decimal, years int, annualReturnPercent decimal.Decimal) decimal.Decimal {
	growth := math.Pow(1+annualReturnPercent.InexactFloat64()/100, float64(years))
	return amount.Mul(decimal.NewFromFloat(growth))
}

// MonthlySIPForGoal returns the monthly contribution reaching target after years.
func MonthlySIPForGoal(target decimal.Decimal, years int, annualReturnPercent decimal.Decimal) (decimal.Decimal, error) {
	if err := validateGoal("monthly sip for goal", target, years); err != nil {
		return decimal.Zero, err
	}
	factor := sipFutureValueFactor(monthlyRate(annualReturnPercent), float64(years*12))
	if factor <= 0 {
		return decimal.Zero, domain.NewInvalidInput("monthly sip for goal", "return %s%% cannot reach the target", annualReturnPercent)
	}
	return target.Div(decimal.NewFromFloat(factor)).Round(2), nil
}

// LumpsumForGoal returns the investment today reaching target after years.
func LumpsumForGoal(target decimal.Decimal, years int, annualReturnPercent decimal.Decimal) (decimal.Decimal, error) {
	if err := validateGoal("lumpsum for goal", target, years); err != nil {
		return decimal.Zero, err
	}
	if annualReturnPercent.LessThanOrEqual(hundred.Neg()) {
		return decimal.Zero, domain.NewInvalidInput("lumpsum for goal", "return must be greater than -100%%, got %s%%", annualReturnPercent)
	}
	growth := math.Pow(1+annualReturnPercent.InexactFloat64()/100, float64(years))
	return target.Div(decimal.NewFromFloat(growth)).Round(2), nil
}

// TimeForLumpsum returns the years for lumpsum to grow to target.
func TimeForLumpsum(lumpsum, target, annualReturnPercent decimal.Decimal) (float64, error) {
	const op = "time for lumpsum"
	if !lumpsum.IsPositive() || !target.IsPositive() {
		return 0, domain.NewInvalidInput(op, "lumpsum and target must be positive")
	}
	if lumpsum.GreaterThanOrEqual(target) {
		return 0, nil
	}
	if !annualReturnPercent.IsPositive() {
		return 0, domain.NewInvalidInput(op, "a non-positive return of %s%% never reaches the target", annualReturnPercent)
	}
	ratio := target.Div(lumpsum).InexactFloat64()
	return math.Log(ratio) / math.Log(1+annualReturnPercent.InexactFloat64()/100), nil
}

// TimeForSIP returns the years of monthly contributions needed to reach target.
func TimeForSIP(monthly, target, annualReturnPercent decimal.Decimal) (float64, error) {
	const op = "time for sip"
	if !monthly.IsPositive() || !target.IsPositive() {
		return 0, domain.NewInvalidInput(op, "contribution and target must be positive")
	}
	if annualReturnPercent.IsNegative() {
		return 0, domain.NewInvalidInput(op, "return must not be negative, got %s%%", annualReturnPercent)
	}
	r := monthlyRate(annualReturnPercent)
	t, s := target.InexactFloat64(), monthly.InexactFloat64()
	if r == 0 {
		return t / s / 12, nil
	}
	months := math.Log(t*r/(s*(1+r))+1) / math.Log(1+r)
	return months / 12, nil
}

// CombineWithLumpsum plans a target funded by an existing lumpsum plus a
// monthly SIP covering the shortfall.
func CombineWithLumpsum(target, lumpsum decimal.Decimal, years int, annualReturnPercent decimal.Decimal) (*domain.GoalResult, error) {
	if err := validateGoal("combine with lumpsum", target, years); err != nil {
		return nil, err
	}
	result := &domain.GoalResult{Kind: "combination_lumpsum", Target: target, Years: float64(years)}
	remaining := target.Sub(LumpsumFutureValue(lumpsum, years, annualReturnPercent))
	if !remaining.IsPositive() {
		result.TargetMet = true
		result.Note = "the lumpsum alone meets the target"
		return result, nil
	}
	sip, err := MonthlySIPForGoal(remaining, years, annualReturnPercent)
	if err != nil {
		return nil, err
	}
	result.Required = sip
	result.Note = "additional monthly SIP required"
	return result, nil
}

// CombineWithSIP plans a target funded by an existing monthly SIP plus a
// lumpsum covering the shortfall.
func CombineWithSIP(target, monthly decimal.Decimal, years int, annualReturnPercent decimal.Decimal) (*domain.GoalResult, error) {
	if err := validateGoal("combine with sip", target, years); err != nil {
		return nil, err
	}
	result := &domain.GoalResult{Kind: "combination_sip", Target: target, Years: float64(years)}
	remaining := target.Sub(SIPFutureValue(monthly, years, annualReturnPercent))
	if !remaining.IsPositive() {
		result.TargetMet = true
		result.Note = "the SIP alone meets the target"
		return result, nil
	}
	lumpsum, err := LumpsumForGoal(remaining, years, annualReturnPercent)
	if err != nil {
		return nil, err
	}
	result.Required = lumpsum
	result.Note = "additional lumpsum required"
	return result, nil
}
