package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSample is a single NAV quote.
type PriceSample struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"nav"`
}

// Instrument identifies a mutual fund scheme in the catalog.
type Instrument struct {
	Code string `json:"scheme_code" yaml:"scheme_code"`
	Name string `json:"scheme_name" yaml:"scheme_name"`
}

// Frequency of a cash-flow schedule. Only monthly schedules exist today.
type Frequency string

const Monthly Frequency = "monthly"

// CashFlowKind tags the CashFlowPolicy variant.
type CashFlowKind string

const (
	CashFlowFlat         CashFlowKind = "flat"
	CashFlowAnnualStepUp CashFlowKind = "annual_step_up"
)

// CashFlowPolicy determines the contribution or withdrawal for each period.
// Flat uses Amount every period; AnnualStepUp grows Amount by StepUpPercent
// after each completed anniversary of the schedule start.
type CashFlowPolicy struct {
	Kind          CashFlowKind    `json:"kind" yaml:"kind"`
	Amount        decimal.Decimal `json:"amount" yaml:"amount"`
	StepUpPercent decimal.Decimal `json:"step_up_percent,omitempty" yaml:"step_up_percent,omitempty"`
}

// Flat returns a constant-amount policy.
func Flat(amount decimal.Decimal) CashFlowPolicy {
	return CashFlowPolicy{Kind: CashFlowFlat, Amount: amount}
}

// AnnualStepUp returns a policy compounding base by stepUpPercent every year.
func AnnualStepUp(base, stepUpPercent decimal.Decimal) CashFlowPolicy {
	return CashFlowPolicy{Kind: CashFlowAnnualStepUp, Amount: base, StepUpPercent: stepUpPercent}
}

// ScheduleSpec describes one monthly iteration of the valuation engine.
type ScheduleSpec struct {
	Start     time.Time      `json:"start"`
	End       time.Time      `json:"end"`
	Frequency Frequency      `json:"frequency"`
	CashFlow  CashFlowPolicy `json:"cash_flow"`
}

// ValuationMode names the calculator that produced a ValuationResult.
type ValuationMode string

const (
	ModeSIP     ValuationMode = "sip"
	ModeLumpsum ValuationMode = "lumpsum"
	ModeSWP     ValuationMode = "swp"
)

// SeriesPoint is one charting sample. For SWP, Invested holds the initial
// corpus and Withdrawn the cumulative withdrawals.
type SeriesPoint struct {
	Date      time.Time       `json:"date"`
	Invested  decimal.Decimal `json:"invested"`
	Value     decimal.Decimal `json:"value"`
	Withdrawn decimal.Decimal `json:"withdrawn,omitempty"`
}

// ValuationResult is the output of one calculator invocation.
type ValuationResult struct {
	Mode           ValuationMode   `json:"mode"`
	InstrumentID   string          `json:"instrument_id,omitempty"`
	Start          time.Time       `json:"start"`
	End            time.Time       `json:"end"`
	Years          float64         `json:"years"`
	Principal      decimal.Decimal `json:"principal"`
	TotalInvested  decimal.Decimal `json:"total_invested"`
	TotalUnits     decimal.Decimal `json:"total_units"`
	FinalValue     decimal.Decimal `json:"final_value"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn,omitempty"`
	TotalReturn    decimal.Decimal `json:"total_return"`
	CAGRPercent    decimal.Decimal `json:"cagr_percent"`
	ReturnPercent  decimal.Decimal `json:"return_percent"`
	DepletedOn     *time.Time      `json:"depleted_on,omitempty"`
	Series         []SeriesPoint   `json:"series,omitempty"`
	Warnings       []string        `json:"warnings,omitempty"`
}

// GoalResult is the answer of a goal planner.
type GoalResult struct {
	Kind          string          `json:"kind"`
	Target        decimal.Decimal `json:"target"`
	Years         float64         `json:"years,omitempty"`
	StepUpPercent decimal.Decimal `json:"step_up_percent,omitempty"`
	// Required is the monthly contribution or lumpsum needed, depending on Kind.
	Required decimal.Decimal `json:"required,omitempty"`
	// YearsNeeded is set by the time planners.
	YearsNeeded float64 `json:"years_needed,omitempty"`
	// TargetMet is set by the combination planner when the given investment
	// alone already reaches the target.
	TargetMet bool     `json:"target_met,omitempty"`
	Note      string   `json:"note,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// AmortizationRow is one month of a loan repayment schedule.
type AmortizationRow struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"`
}

// RatePoint pairs an annual interest rate with the resulting EMI.
type RatePoint struct {
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	EMI               decimal.Decimal `json:"emi"`
}

// LoanResult is the output of the loan calculators.
type LoanResult struct {
	Mode              string            `json:"mode"`
	Principal         decimal.Decimal   `json:"principal"`
	AnnualRatePercent decimal.Decimal   `json:"annual_rate_percent"`
	TenureYears       float64           `json:"tenure_years"`
	EMI               decimal.Decimal   `json:"emi"`
	TotalInterest     decimal.Decimal   `json:"total_interest,omitempty"`
	TotalPayment      decimal.Decimal   `json:"total_payment,omitempty"`
	Sensitivity       []RatePoint       `json:"sensitivity,omitempty"`
	Schedule          []AmortizationRow `json:"schedule,omitempty"`
}
