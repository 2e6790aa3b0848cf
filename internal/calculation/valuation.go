package calculation

import (
	"errors"
	"fmt"
	"time"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// PriceSource resolves NAVs for one instrument. *navdata.PriceSeries
// implements it.
type PriceSource interface {
	InstrumentID() string
	Len() int
	First() (domain.PriceSample, error)
	ResolvePrice(date time.Time) (decimal.Decimal, error)
}

type runPhase int

const (
	phaseNotStarted runPhase = iota
	phaseAccumulating
	phaseFinalized
)

var errRunReused = errors.New("valuation run cannot be reused")

// valuationRun owns the mutable state of one calculator invocation. It moves
// NotStarted -> Accumulating -> Finalized and cannot be reused afterwards.
type valuationRun struct {
	phase          runPhase
	series         PriceSource
	totalInvested  decimal.Decimal
	totalUnits     decimal.Decimal
	totalWithdrawn decimal.Decimal
	points         []domain.SeriesPoint
}

func newValuationRun(series PriceSource) *valuationRun {
	return &valuationRun{series: series}
}

func (r *valuationRun) begin() error {
	if r.phase != phaseNotStarted {
		return errRunReused
	}
	r.phase = phaseAccumulating
	return nil
}

func (r *valuationRun) priceAt(op string, date time.Time) (decimal.Decimal, error) {
	price, err := r.series.ResolvePrice(date)
	if err != nil {
		return decimal.Zero, err
	}
	if !price.IsPositive() {
		return decimal.Zero, domain.NewInvalidInput(op, "non-positive NAV %s", price).
			WithInstrument(r.series.InstrumentID()).WithDate(date)
	}
	return price, nil
}

// buy converts amount to units at price.
func (r *valuationRun) buy(amount, price decimal.Decimal) {
	r.totalInvested = r.totalInvested.Add(amount)
	r.totalUnits = r.totalUnits.Add(amount.Div(price))
}

func (r *valuationRun) record(date time.Time, invested, value decimal.Decimal) {
	r.points = append(r.points, domain.SeriesPoint{
		Date:      date,
		Invested:  invested,
		Value:     value,
		Withdrawn: r.totalWithdrawn,
	})
}

func (r *valuationRun) finalize() ([]domain.SeriesPoint, error) {
	if r.phase != phaseAccumulating {
		return nil, errRunReused
	}
	r.phase = phaseFinalized
	points := r.points
	r.points = nil
	return points, nil
}

// window validates a [start, end] valuation period against series and clamps
// a start that precedes the first sample. The clamp is reported as a warning.
func window(op string, series PriceSource, start, end time.Time) (time.Time, time.Time, []string, error) {
	if series == nil || series.Len() == 0 {
		return time.Time{}, time.Time{}, nil, domain.NewInvalidInput(op, "price series is empty")
	}
	start, end = dateutil.Day(start), dateutil.Day(end)
	if start.After(end) {
		return time.Time{}, time.Time{}, nil, domain.NewInvalidInput(op, "start %s is after end %s",
			dateutil.FormatISO(start), dateutil.FormatISO(end)).WithInstrument(series.InstrumentID())
	}

	first, err := series.First()
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	var warnings []string
	if start.Before(first.Date) {
		if end.Before(first.Date) {
			return time.Time{}, time.Time{}, nil, domain.NewInvalidInput(op, "period ends before the first NAV on %s",
				dateutil.FormatISO(first.Date)).WithInstrument(series.InstrumentID()).WithDate(end)
		}
		warnings = append(warnings, fmt.Sprintf("start date %s precedes the first available NAV; using %s",
			dateutil.FormatISO(start), dateutil.FormatISO(first.Date)))
		start = first.Date
	}
	return start, end, warnings, nil
}

// SimulateSIP invests the schedule's cash flow on every monthly date from
// Start to End and values the accumulated units at End.
func SimulateSIP(series PriceSource, schedule domain.ScheduleSpec) (*domain.ValuationResult, error) {
	const op = "simulate sip"
	if schedule.Frequency != "" && schedule.Frequency != domain.Monthly {
		return nil, domain.NewInvalidInput(op, "unsupported frequency %q", schedule.Frequency)
	}
	if err := validatePolicy(op, schedule.CashFlow); err != nil {
		return nil, err
	}
	start, end, warnings, err := window(op, series, schedule.Start, schedule.End)
	if err != nil {
		return nil, err
	}

	run := newValuationRun(series)
	if err := run.begin(); err != nil {
		return nil, err
	}
	for _, date := range dateutil.MonthlyDates(start, end) {
		price, err := run.priceAt(op, date)
		if err != nil {
			return nil, err
		}
		run.buy(AmountAt(schedule.CashFlow, start, date), price)
		run.record(date, run.totalInvested, run.totalUnits.Mul(price))
	}

	endPrice, err := run.priceAt(op, end)
	if err != nil {
		return nil, err
	}
	invested, units := run.totalInvested, run.totalUnits
	points, err := run.finalize()
	if err != nil {
		return nil, err
	}

	result := &domain.ValuationResult{
		Mode:          domain.ModeSIP,
		InstrumentID:  series.InstrumentID(),
		Start:         start,
		End:           end,
		Years:         dateutil.YearsBetween(start, end),
		Principal:     invested,
		TotalInvested: invested,
		TotalUnits:    units,
		FinalValue:    units.Mul(endPrice),
		Series:        points,
		Warnings:      warnings,
	}
	if err := fillMetrics(result, invested, result.FinalValue); err != nil {
		return nil, err
	}
	return result, nil
}

// SimulateLumpsum values a single investment made at start. The headline
// value scales amount by the price ratio; the monthly series replays the
// fixed unit count for charting only.
func SimulateLumpsum(series PriceSource, start, end time.Time, amount decimal.Decimal) (*domain.ValuationResult, error) {
	const op = "simulate lumpsum"
	if !amount.IsPositive() {
		return nil, domain.NewInvalidInput(op, "amount must be positive, got %s", amount)
	}
	start, end, warnings, err := window(op, series, start, end)
	if err != nil {
		return nil, err
	}

	run := newValuationRun(series)
	if err := run.begin(); err != nil {
		return nil, err
	}
	startPrice, err := run.priceAt(op, start)
	if err != nil {
		return nil, err
	}
	endPrice, err := run.priceAt(op, end)
	if err != nil {
		return nil, err
	}
	final := amount.Mul(endPrice.Div(startPrice))

	run.buy(amount, startPrice)
	for _, date := range dateutil.MonthlyDates(start, end) {
		price, err := run.priceAt(op, date)
		if err != nil {
			return nil, err
		}
		run.record(date, amount, run.totalUnits.Mul(price))
	}
	units := run.totalUnits
	points, err := run.finalize()
	if err != nil {
		return nil, err
	}

	result := &domain.ValuationResult{
		Mode:          domain.ModeLumpsum,
		InstrumentID:  series.InstrumentID(),
		Start:         start,
		End:           end,
		Years:         dateutil.YearsBetween(start, end),
		Principal:     amount,
		TotalInvested: amount,
		TotalUnits:    units,
		FinalValue:    final,
		Series:        points,
		Warnings:      warnings,
	}
	if err := fillMetrics(result, amount, final); err != nil {
		return nil, err
	}
	return result, nil
}

// SimulateSWP draws withdrawal from an initial corpus on every monthly date
// after start, letting the remainder track the NAV between withdrawals. A
// withdrawal larger than the corpus takes what is left and marks the date the
// corpus ran out. Returns are measured on final value plus cash withdrawn.
func SimulateSWP(series PriceSource, start, end time.Time, initial, withdrawal decimal.Decimal) (*domain.ValuationResult, error) {
	const op = "simulate swp"
	if !initial.IsPositive() {
		return nil, domain.NewInvalidInput(op, "initial corpus must be positive, got %s", initial)
	}
	if withdrawal.IsNegative() {
		return nil, domain.NewInvalidInput(op, "withdrawal must not be negative, got %s", withdrawal)
	}
	start, end, warnings, err := window(op, series, start, end)
	if err != nil {
		return nil, err
	}

	run := newValuationRun(series)
	if err := run.begin(); err != nil {
		return nil, err
	}
	prevPrice, err := run.priceAt(op, start)
	if err != nil {
		return nil, err
	}

	portfolio := initial
	var depletedOn *time.Time
	run.record(start, initial, portfolio)
	dates := dateutil.MonthlyDates(start, end)
	for _, date := range dates[1:] {
		price, err := run.priceAt(op, date)
		if err != nil {
			return nil, err
		}
		portfolio = portfolio.Mul(price).Div(prevPrice)
		prevPrice = price

		take := decimal.Min(withdrawal, portfolio)
		portfolio = portfolio.Sub(take)
		run.totalWithdrawn = run.totalWithdrawn.Add(take)
		if depletedOn == nil && withdrawal.IsPositive() && !portfolio.IsPositive() {
			d := date
			depletedOn = &d
		}
		run.record(date, initial, portfolio)
	}
	withdrawn := run.totalWithdrawn
	points, err := run.finalize()
	if err != nil {
		return nil, err
	}

	result := &domain.ValuationResult{
		Mode:           domain.ModeSWP,
		InstrumentID:   series.InstrumentID(),
		Start:          start,
		End:            end,
		Years:          dateutil.YearsBetween(start, end),
		Principal:      initial,
		TotalInvested:  initial,
		FinalValue:     portfolio,
		TotalWithdrawn: withdrawn,
		DepletedOn:     depletedOn,
		Series:         points,
		Warnings:       warnings,
	}
	if err := fillMetrics(result, initial, portfolio.Add(withdrawn)); err != nil {
		return nil, err
	}
	return result, nil
}
