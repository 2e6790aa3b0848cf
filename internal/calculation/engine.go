package calculation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/internal/metrics"
	"github.com/rpgo/fund-calculator/internal/navdata"
	"github.com/rpgo/fund-calculator/internal/tracing"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
)

// SeriesProvider resolves funds and supplies their NAV history.
// *navdata.Store implements it.
type SeriesProvider interface {
	Resolve(ctx context.Context, text string) (domain.Instrument, error)
	History(ctx context.Context, instrumentID string) (*navdata.PriceSeries, error)
}

// CalculationEngine runs plan calculations against NAV history
type CalculationEngine struct {
	Provider SeriesProvider
	Now      func() time.Time
	Logger   Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine(provider SeriesProvider) *CalculationEngine {
	return &CalculationEngine{
		Provider: provider,
		Now:      time.Now,
		Logger:   NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) now() time.Time {
	if ce.Now == nil {
		return time.Now()
	}
	return ce.Now()
}

func (ce *CalculationEngine) today() time.Time {
	return dateutil.Day(ce.now())
}

// RunPlan runs every calculation of the plan in order. The first failure
// aborts the run; no partial report is returned.
func (ce *CalculationEngine) RunPlan(ctx context.Context, plan *domain.Plan) (*domain.Report, error) {
	if plan == nil || len(plan.Calculations) == 0 {
		return nil, fmt.Errorf("plan has no calculations")
	}
	ctx, span := tracing.Tracer().Start(ctx, "calculation.run_plan")
	defer span.End()
	span.SetAttributes(attribute.Int("plan.calculations", len(plan.Calculations)))

	report := domain.NewReport(ce.now())
	for i, calc := range plan.Calculations {
		if calc.Fund == "" {
			calc.Fund = plan.Fund
		}
		entry, err := ce.RunCalculation(ctx, calc)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("calculation %d (%s): %w", i+1, calc.Name, err)
		}
		report.Entries = append(report.Entries, *entry)
	}
	return report, nil
}

// RunCalculation runs a single calculation.
func (ce *CalculationEngine) RunCalculation(ctx context.Context, calc domain.Calculation) (entry *domain.ReportEntry, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "calculation."+string(calc.Type))
	span.SetAttributes(attribute.String("calculation.name", calc.Name))
	defer func() {
		status := metrics.StatusOK
		if err != nil {
			status = metrics.StatusError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		metrics.Calculations.WithLabelValues(string(calc.Type), status).Inc()
		span.End()
	}()

	entry = &domain.ReportEntry{Name: calc.Name, Type: calc.Type}
	if entry.Name == "" {
		entry.Name = string(calc.Type)
	}

	var series *navdata.PriceSeries
	if calc.Type.NeedsPriceSeries() {
		inst, s, err := ce.loadSeries(ctx, calc.Fund)
		if err != nil {
			return nil, err
		}
		entry.Instrument = &inst
		series = s
	}

	switch calc.Type {
	case domain.CalcSIP, domain.CalcSWP, domain.CalcLumpsum:
		entry.Valuation, err = ce.runValuation(calc, series)
	case domain.CalcGoalSIP, domain.CalcGoalLumpsum:
		entry.Goal, err = ce.runHistoricalGoal(calc, series)
	case domain.CalcGoalTime, domain.CalcGoalCombination:
		entry.Goal, err = ce.runFixedRateGoal(calc)
	case domain.CalcLoanEMI, domain.CalcLoanTenure, domain.CalcLoanRate:
		entry.Loan, err = ce.runLoan(calc)
	default:
		err = domain.NewInvalidInput("run calculation", "unknown calculation type %q", calc.Type)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (ce *CalculationEngine) loadSeries(ctx context.Context, fund string) (domain.Instrument, *navdata.PriceSeries, error) {
	if strings.TrimSpace(fund) == "" {
		return domain.Instrument{}, nil, domain.NewInvalidInput("load series", "no fund given")
	}
	if ce.Provider == nil {
		return domain.Instrument{}, nil, fmt.Errorf("no NAV provider configured")
	}
	inst, err := ce.Provider.Resolve(ctx, fund)
	if err != nil {
		return domain.Instrument{}, nil, err
	}
	series, err := ce.Provider.History(ctx, inst.Code)
	if err != nil {
		return domain.Instrument{}, nil, err
	}
	ce.Logger.Debugf("loaded %d NAV samples for %s (%s)", series.Len(), inst.Name, inst.Code)
	return inst, series, nil
}

// period parses the calculation dates. A missing end date means today.
func (ce *CalculationEngine) period(calc domain.Calculation) (time.Time, time.Time, error) {
	if calc.StartDate == "" {
		return time.Time{}, time.Time{}, domain.NewInvalidInput(string(calc.Type), "start_date is required")
	}
	start, err := dateutil.ParseDate(calc.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewInvalidInput(string(calc.Type), "invalid start_date: %v", err)
	}
	end := ce.today()
	if calc.EndDate != "" {
		if end, err = dateutil.ParseDate(calc.EndDate); err != nil {
			return time.Time{}, time.Time{}, domain.NewInvalidInput(string(calc.Type), "invalid end_date: %v", err)
		}
	}
	return start, end, nil
}

func (ce *CalculationEngine) runValuation(calc domain.Calculation, series *navdata.PriceSeries) (*domain.ValuationResult, error) {
	start, end, err := ce.period(calc)
	if err != nil {
		return nil, err
	}

	var result *domain.ValuationResult
	switch calc.Type {
	case domain.CalcSIP:
		policy := domain.Flat(calc.Amount)
		if !calc.StepUpPercent.IsZero() {
			policy = domain.AnnualStepUp(calc.Amount, calc.StepUpPercent)
		}
		result, err = SimulateSIP(series, domain.ScheduleSpec{
			Start:     start,
			End:       end,
			Frequency: domain.Monthly,
			CashFlow:  policy,
		})
	case domain.CalcLumpsum:
		result, err = SimulateLumpsum(series, start, end, calc.Amount)
	case domain.CalcSWP:
		result, err = SimulateSWP(series, start, end, calc.Initial, calc.Amount)
	}
	if err != nil {
		return nil, err
	}

	for _, w := range result.Warnings {
		ce.Logger.Warnf("%s: %s", calc.Name, w)
	}
	if result.DepletedOn != nil {
		ce.Logger.Warnf("%s: corpus depleted on %s", calc.Name, dateutil.FormatISO(*result.DepletedOn))
	}
	ce.Logger.Infof("%s: %s from %s to %s, final value %s",
		calc.Name, calc.Type, dateutil.FormatISO(result.Start), dateutil.FormatISO(result.End), result.FinalValue.StringFixed(2))
	return result, nil
}

// runHistoricalGoal solves against NAV history. Without a start_date the
// horizon begins today, so prices past the last sample carry forward.
func (ce *CalculationEngine) runHistoricalGoal(calc domain.Calculation, series *navdata.PriceSeries) (*domain.GoalResult, error) {
	start := ce.today()
	if calc.StartDate != "" {
		var err error
		if start, err = dateutil.ParseDate(calc.StartDate); err != nil {
			return nil, domain.NewInvalidInput(string(calc.Type), "invalid start_date: %v", err)
		}
	}

	result := &domain.GoalResult{Kind: string(calc.Type), Target: calc.Target, Years: float64(calc.Years)}
	var err error
	switch calc.Type {
	case domain.CalcGoalSIP:
		result.StepUpPercent = calc.StepUpPercent
		var reachable bool
		result.Required, reachable, err = solveRequiredContribution(calc.Target, series, start, calc.Years, calc.StepUpPercent)
		result.Note = "required monthly SIP"
		if err == nil && !reachable {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"target not reached: even %s a month falls short over %d years of this NAV history",
				calc.Target.Div(decimal.NewFromInt(int64(calc.Years*12))).StringFixed(2), calc.Years))
		}
	case domain.CalcGoalLumpsum:
		result.Required, err = SolveRequiredLumpsum(calc.Target, series, start, calc.Years)
		result.Note = "required lumpsum investment"
	}
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		ce.Logger.Warnf("%s: %s", calc.Name, w)
	}
	ce.Logger.Infof("%s: %s %s", calc.Name, result.Note, result.Required.StringFixed(2))
	return result, nil
}

func (ce *CalculationEngine) runFixedRateGoal(calc domain.Calculation) (*domain.GoalResult, error) {
	switch {
	case calc.Type == domain.CalcGoalTime && calc.Mode == "lumpsum":
		years, err := TimeForLumpsum(calc.Amount, calc.Target, calc.ExpectedReturn)
		if err != nil {
			return nil, err
		}
		return &domain.GoalResult{Kind: "time_lumpsum", Target: calc.Target, YearsNeeded: years}, nil
	case calc.Type == domain.CalcGoalTime && calc.Mode == "sip":
		years, err := TimeForSIP(calc.Amount, calc.Target, calc.ExpectedReturn)
		if err != nil {
			return nil, err
		}
		return &domain.GoalResult{Kind: "time_sip", Target: calc.Target, YearsNeeded: years}, nil
	case calc.Type == domain.CalcGoalCombination && calc.Mode == "lumpsum":
		return CombineWithLumpsum(calc.Target, calc.Amount, calc.Years, calc.ExpectedReturn)
	case calc.Type == domain.CalcGoalCombination && calc.Mode == "sip":
		return CombineWithSIP(calc.Target, calc.Amount, calc.Years, calc.ExpectedReturn)
	}
	return nil, domain.NewInvalidInput(string(calc.Type), "mode must be lumpsum or sip, got %q", calc.Mode)
}

func (ce *CalculationEngine) runLoan(calc domain.Calculation) (*domain.LoanResult, error) {
	tenure := calc.TenureYears.InexactFloat64()
	switch calc.Type {
	case domain.CalcLoanEMI:
		return LoanEMI(calc.Principal, calc.AnnualRate, tenure)
	case domain.CalcLoanTenure:
		return LoanTenure(calc.Principal, calc.AnnualRate, calc.EMI)
	default:
		return LoanRate(calc.Principal, calc.EMI, tenure)
	}
}
