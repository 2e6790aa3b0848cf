package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculationType names one of the calculators a plan can request.
type CalculationType string

const (
	CalcSIP             CalculationType = "sip"
	CalcSWP             CalculationType = "swp"
	CalcLumpsum         CalculationType = "lumpsum"
	CalcGoalSIP         CalculationType = "goal_sip"
	CalcGoalLumpsum     CalculationType = "goal_lumpsum"
	CalcGoalTime        CalculationType = "goal_time"
	CalcGoalCombination CalculationType = "goal_combination"
	CalcLoanEMI         CalculationType = "loan_emi"
	CalcLoanTenure      CalculationType = "loan_tenure"
	CalcLoanRate        CalculationType = "loan_rate"
)

// NeedsPriceSeries reports whether the calculation is driven by NAV history.
func (c CalculationType) NeedsPriceSeries() bool {
	switch c {
	case CalcSIP, CalcSWP, CalcLumpsum, CalcGoalSIP, CalcGoalLumpsum:
		return true
	}
	return false
}

// Plan is a batch of calculations loaded from a YAML file.
type Plan struct {
	// Fund is the default scheme code or exact scheme name for calculations
	// that do not name their own.
	Fund         string        `yaml:"fund,omitempty" json:"fund,omitempty"`
	Calculations []Calculation `yaml:"calculations" json:"calculations"`
}

// Calculation holds the parameters of one requested calculation. Fields not
// used by Type are ignored. Dates are YYYY-MM-DD strings.
type Calculation struct {
	Name string          `yaml:"name" json:"name"`
	Type CalculationType `yaml:"type" json:"type"`
	Fund string          `yaml:"fund,omitempty" json:"fund,omitempty"`

	StartDate string `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   string `yaml:"end_date,omitempty" json:"end_date,omitempty"`

	// Amount is the SIP installment, lumpsum, SWP withdrawal or the
	// existing investment for the time/combination planners.
	Amount        decimal.Decimal `yaml:"amount,omitempty" json:"amount,omitempty"`
	StepUpPercent decimal.Decimal `yaml:"step_up_percent,omitempty" json:"step_up_percent,omitempty"`
	Initial       decimal.Decimal `yaml:"initial,omitempty" json:"initial,omitempty"`

	Target         decimal.Decimal `yaml:"target,omitempty" json:"target,omitempty"`
	Years          int             `yaml:"years,omitempty" json:"years,omitempty"`
	Mode           string          `yaml:"mode,omitempty" json:"mode,omitempty"` // lumpsum|sip for goal_time and goal_combination
	ExpectedReturn decimal.Decimal `yaml:"expected_return,omitempty" json:"expected_return,omitempty"`

	Principal   decimal.Decimal `yaml:"principal,omitempty" json:"principal,omitempty"`
	AnnualRate  decimal.Decimal `yaml:"annual_rate,omitempty" json:"annual_rate,omitempty"`
	EMI         decimal.Decimal `yaml:"emi,omitempty" json:"emi,omitempty"`
	TenureYears decimal.Decimal `yaml:"tenure_years,omitempty" json:"tenure_years,omitempty"`
}

// Report collects the results of running a plan.
type Report struct {
	ID          uuid.UUID     `json:"id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Entries     []ReportEntry `json:"entries"`
}

// NewReport stamps a fresh report.
func NewReport(now time.Time) *Report {
	return &Report{ID: uuid.New(), GeneratedAt: now}
}

// ReportEntry is the outcome of one calculation; exactly one result is set.
type ReportEntry struct {
	Name       string           `json:"name"`
	Type       CalculationType  `json:"type"`
	Instrument *Instrument      `json:"instrument,omitempty"`
	Valuation  *ValuationResult `json:"valuation,omitempty"`
	Goal       *GoalResult      `json:"goal,omitempty"`
	Loan       *LoanResult      `json:"loan,omitempty"`
}
