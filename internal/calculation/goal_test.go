package calculation

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
)

func TestSolveRequiredContribution_RoundTrip(t *testing.T) {
	start := date(2018, 1, 1)
	tests := []struct {
		name   string
		nav    func(int) decimal.Decimal
		target string
		years  int
	}{
		{"flat NAV", constantNAV("10"), "500000", 3},
		{"rising NAV", risingNAV("10", "0.001"), "500000", 3},
		{"rising NAV long horizon", risingNAV("50", "0.01"), "2500000", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := dailySeries(t, start, 365*tt.years+30, tt.nav)
			target := dec(tt.target)

			monthly, err := SolveRequiredContribution(target, series, start, tt.years, decimal.Zero)
			require.NoError(t, err)
			require.True(t, monthly.IsPositive())

			result, err := SimulateSIP(series, domain.ScheduleSpec{
				Start:    start,
				End:      dateutil.AddYears(start, tt.years),
				CashFlow: domain.Flat(monthly),
			})
			require.NoError(t, err)

			diff := result.FinalValue.Sub(target).Abs().InexactFloat64()
			assert.Less(t, diff, target.InexactFloat64()*math.Pow(2, -19), "monthly %s gives %s", monthly, result.FinalValue)
		})
	}
}

func TestSolveRequiredContribution_FlatNAVClosedForm(t *testing.T) {
	start := date(2020, 1, 1)
	series := dailySeries(t, start, 800, constantNAV("10"))

	// 25 installments from start to start+2y inclusive
	monthly, err := SolveRequiredContribution(dec("250000"), series, start, 2, decimal.Zero)
	require.NoError(t, err)
	assert.InDelta(t, 10000, monthly.InexactFloat64(), 0.05)
}

func TestSolveRequiredContribution_StepUpNeedsLess(t *testing.T) {
	start := date(2018, 1, 1)
	series := dailySeries(t, start, 365*4, risingNAV("10", "0.002"))

	flat, err := SolveRequiredContribution(dec("1000000"), series, start, 3, decimal.Zero)
	require.NoError(t, err)
	stepped, err := SolveRequiredContribution(dec("1000000"), series, start, 3, dec("10"))
	require.NoError(t, err)
	assert.True(t, stepped.LessThan(flat), "step-up %s should be below flat %s", stepped, flat)
}

// fallingNAV drops by perDay every day and stops at floor.
func fallingNAV(base, perDay, floor string) func(int) decimal.Decimal {
	b, step, f := dec(base), dec(perDay), dec(floor)
	return func(i int) decimal.Decimal {
		return decimal.Max(b.Sub(step.Mul(decimal.NewFromInt(int64(i)))), f)
	}
}

func TestSolveRequiredContribution_NegativeStepUp(t *testing.T) {
	start := date(2020, 1, 1)
	series := dailySeries(t, start, 800, constantNAV("10"))

	// 13 installments at the base, 12 at 98% of it: 24.76 bases of units worth 10 each
	stepped, err := SolveRequiredContribution(dec("250000"), series, start, 2, dec("-2"))
	require.NoError(t, err)
	assert.InDelta(t, 250000/24.76, stepped.InexactFloat64(), 0.05)

	flat, err := SolveRequiredContribution(dec("250000"), series, start, 2, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, stepped.GreaterThan(flat), "step-down %s should need more than flat %s", stepped, flat)

	result, err := SimulateSIP(series, domain.ScheduleSpec{
		Start:     start,
		End:       dateutil.AddYears(start, 2),
		Frequency: domain.Monthly,
		CashFlow:  domain.AnnualStepUp(stepped, dec("-2")),
	})
	require.NoError(t, err)
	assert.InDelta(t, 250000, result.FinalValue.InexactFloat64(), 1)

	_, err = SolveRequiredContribution(dec("250000"), series, start, 2, dec("-100"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSolveRequiredContribution_ReportsUnreachableTarget(t *testing.T) {
	start := date(2020, 1, 1)
	crash := dailySeries(t, start, 400, fallingNAV("100", "0.25", "1"))

	monthly, reachable, err := solveRequiredContribution(dec("100000"), crash, start, 1, decimal.Zero)
	require.NoError(t, err)
	assert.False(t, reachable)
	top := dec("100000").Div(decimal.NewFromInt(12))
	assert.InDelta(t, top.InexactFloat64(), monthly.InexactFloat64(), 0.01, "bisection keeps moving up to the bracket top")

	rising := dailySeries(t, start, 400, risingNAV("10", "0.01"))
	_, reachable, err = solveRequiredContribution(dec("100000"), rising, start, 1, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, reachable)
}

func TestSolveRequiredContribution_Errors(t *testing.T) {
	series := buildSeries(t, date(2020, 1, 1), "10")
	_, err := SolveRequiredContribution(dec("0"), series, date(2020, 1, 1), 3, decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = SolveRequiredContribution(dec("1000"), series, date(2020, 1, 1), 0, decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSolveRequiredLumpsum(t *testing.T) {
	series := buildSeries(t, date(2020, 1, 1), "10", date(2022, 1, 1), "12.5")

	amount, err := SolveRequiredLumpsum(dec("100000"), series, date(2020, 1, 1), 2)
	require.NoError(t, err)
	assert.Equal(t, "80000", amount.String())

	result, err := SimulateLumpsum(series, date(2020, 1, 1), date(2022, 1, 1), amount)
	require.NoError(t, err)
	assert.Equal(t, "100000.00", result.FinalValue.StringFixed(2))
}

func TestFixedRatePlanners(t *testing.T) {
	lumpsum, err := LumpsumForGoal(dec("100000"), 5, dec("10"))
	require.NoError(t, err)
	assert.Equal(t, "62092.13", lumpsum.StringFixed(2))

	sip, err := MonthlySIPForGoal(dec("1000000"), 10, dec("12"))
	require.NoError(t, err)
	assert.Equal(t, "4304.05", sip.StringFixed(2))

	zeroRate, err := MonthlySIPForGoal(dec("120000"), 10, dec("0"))
	require.NoError(t, err)
	assert.Equal(t, "1000", zeroRate.String())

	years, err := TimeForLumpsum(dec("100000"), dec("200000"), dec("12"))
	require.NoError(t, err)
	assert.InDelta(t, 6.116, years, 0.001)

	years, err = TimeForLumpsum(dec("300000"), dec("200000"), dec("12"))
	require.NoError(t, err)
	assert.Zero(t, years)

	_, err = TimeForLumpsum(dec("100000"), dec("200000"), dec("0"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// solving for time inverts the SIP future value
	fv := SIPFutureValue(dec("5000"), 15, dec("11"))
	years, err = TimeForSIP(dec("5000"), fv, dec("11"))
	require.NoError(t, err)
	assert.InDelta(t, 15, years, 1e-6)

	years, err = TimeForSIP(dec("1000"), dec("60000"), dec("0"))
	require.NoError(t, err)
	assert.InDelta(t, 5, years, 1e-9)
}

func TestCombinationPlanners(t *testing.T) {
	met, err := CombineWithLumpsum(dec("100000"), dec("80000"), 5, dec("10"))
	require.NoError(t, err)
	assert.True(t, met.TargetMet)
	assert.True(t, met.Required.IsZero())

	extra, err := CombineWithLumpsum(dec("1000000"), dec("100000"), 10, dec("12"))
	require.NoError(t, err)
	assert.False(t, extra.TargetMet)
	remaining := dec("1000000").Sub(LumpsumFutureValue(dec("100000"), 10, dec("12")))
	expected, err := MonthlySIPForGoal(remaining, 10, dec("12"))
	require.NoError(t, err)
	assert.True(t, extra.Required.Equal(expected))

	sipMet, err := CombineWithSIP(dec("100000"), dec("10000"), 5, dec("8"))
	require.NoError(t, err)
	assert.True(t, sipMet.TargetMet)

	lumpExtra, err := CombineWithSIP(dec("2000000"), dec("5000"), 10, dec("12"))
	require.NoError(t, err)
	assert.False(t, lumpExtra.TargetMet)
	assert.True(t, lumpExtra.Required.IsPositive())
	assert.Equal(t, "combination_sip", lumpExtra.Kind)
}
