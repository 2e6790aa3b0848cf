package config

import (
	"fmt"
	"os"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a plan from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := readPlanFile(filename)
	if err != nil {
		return nil, err
	}
	return ip.Parse(data)
}

// DecodeFile reads a plan without validating it, for callers that fill in
// defaults (such as the fund) before calling ValidateConfiguration.
func (ip *InputParser) DecodeFile(filename string) (*domain.Plan, error) {
	data, err := readPlanFile(filename)
	if err != nil {
		return nil, err
	}
	return ip.Decode(data)
}

// Decode parses a plan document without validating it.
func (ip *InputParser) Decode(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &plan, nil
}

// Parse decodes and validates a plan document.
func (ip *InputParser) Parse(data []byte) (*domain.Plan, error) {
	plan, err := ip.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := ip.ValidateConfiguration(plan); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return plan, nil
}

func readPlanFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return data, nil
}

// ValidateConfiguration validates the loaded plan
func (ip *InputParser) ValidateConfiguration(plan *domain.Plan) error {
	if len(plan.Calculations) == 0 {
		return fmt.Errorf("no calculations provided")
	}

	seen := make(map[string]bool, len(plan.Calculations))
	for i := range plan.Calculations {
		calc := &plan.Calculations[i]
		if calc.Name == "" {
			calc.Name = fmt.Sprintf("%s-%d", calc.Type, i+1)
		}
		if seen[calc.Name] {
			return fmt.Errorf("duplicate calculation name %q", calc.Name)
		}
		seen[calc.Name] = true

		if err := ip.validateCalculation(plan.Fund, calc); err != nil {
			return fmt.Errorf("calculation %q validation failed: %w", calc.Name, err)
		}
	}

	return nil
}

func (ip *InputParser) validateCalculation(defaultFund string, calc *domain.Calculation) error {
	if calc.Type.NeedsPriceSeries() && calc.Fund == "" && defaultFund == "" {
		return fmt.Errorf("fund is required for %s", calc.Type)
	}

	switch calc.Type {
	case domain.CalcSIP, domain.CalcLumpsum:
		if err := validateDates(calc, true); err != nil {
			return err
		}
		if !calc.Amount.IsPositive() {
			return fmt.Errorf("amount must be positive")
		}
		if calc.StepUpPercent.IsNegative() {
			return fmt.Errorf("step_up_percent cannot be negative")
		}
	case domain.CalcSWP:
		if err := validateDates(calc, true); err != nil {
			return err
		}
		if !calc.Initial.IsPositive() {
			return fmt.Errorf("initial corpus must be positive")
		}
		if calc.Amount.IsNegative() {
			return fmt.Errorf("withdrawal amount cannot be negative")
		}
	case domain.CalcGoalSIP, domain.CalcGoalLumpsum:
		if err := validateDates(calc, false); err != nil {
			return err
		}
		if err := validateTarget(calc); err != nil {
			return err
		}
		if calc.StepUpPercent.IsNegative() {
			return fmt.Errorf("step_up_percent cannot be negative")
		}
	case domain.CalcGoalTime:
		if err := validateMode(calc); err != nil {
			return err
		}
		if !calc.Amount.IsPositive() || !calc.Target.IsPositive() {
			return fmt.Errorf("amount and target must be positive")
		}
		if calc.ExpectedReturn.IsNegative() {
			return fmt.Errorf("expected_return cannot be negative")
		}
	case domain.CalcGoalCombination:
		if err := validateMode(calc); err != nil {
			return err
		}
		if err := validateTarget(calc); err != nil {
			return err
		}
		if calc.Amount.IsNegative() {
			return fmt.Errorf("amount cannot be negative")
		}
	case domain.CalcLoanEMI:
		if err := validateLoan(calc.Principal, calc.AnnualRate); err != nil {
			return err
		}
		if !calc.TenureYears.IsPositive() {
			return fmt.Errorf("tenure_years must be positive")
		}
	case domain.CalcLoanTenure:
		if err := validateLoan(calc.Principal, calc.AnnualRate); err != nil {
			return err
		}
		if !calc.EMI.IsPositive() {
			return fmt.Errorf("emi must be positive")
		}
	case domain.CalcLoanRate:
		if !calc.Principal.IsPositive() || !calc.EMI.IsPositive() {
			return fmt.Errorf("principal and emi must be positive")
		}
		if !calc.TenureYears.IsPositive() {
			return fmt.Errorf("tenure_years must be positive")
		}
	default:
		return fmt.Errorf("unknown calculation type %q", calc.Type)
	}

	return nil
}

func validateDates(calc *domain.Calculation, startRequired bool) error {
	if calc.StartDate == "" {
		if startRequired {
			return fmt.Errorf("start_date is required")
		}
		return nil
	}
	start, err := dateutil.ParseDate(calc.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date: %w", err)
	}
	if calc.EndDate == "" {
		return nil
	}
	end, err := dateutil.ParseDate(calc.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end_date (%s) cannot be before start_date (%s)", calc.EndDate, calc.StartDate)
	}
	return nil
}

func validateTarget(calc *domain.Calculation) error {
	if !calc.Target.IsPositive() {
		return fmt.Errorf("target must be positive")
	}
	if calc.Years <= 0 {
		return fmt.Errorf("years must be positive, got %d", calc.Years)
	}
	return nil
}

func validateMode(calc *domain.Calculation) error {
	if calc.Mode != "lumpsum" && calc.Mode != "sip" {
		return fmt.Errorf("mode must be lumpsum or sip, got %q", calc.Mode)
	}
	return nil
}

func validateLoan(principal, annualRate decimal.Decimal) error {
	if !principal.IsPositive() {
		return fmt.Errorf("principal must be positive")
	}
	if annualRate.IsNegative() || annualRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("annual_rate must be between 0 and 100, got %s", annualRate)
	}
	return nil
}

// CreateExamplePlan creates an example plan covering every calculation type
func (ip *InputParser) CreateExamplePlan() *domain.Plan {
	return &domain.Plan{
		Fund: "120503",
		Calculations: []domain.Calculation{
			{
				Name:          "Monthly SIP with 10% step-up",
				Type:          domain.CalcSIP,
				StartDate:     "2018-01-01",
				EndDate:       "2024-12-31",
				Amount:        decimal.NewFromInt(10000),
				StepUpPercent: decimal.NewFromInt(10),
			},
			{
				Name:      "Lumpsum 2018",
				Type:      domain.CalcLumpsum,
				StartDate: "2018-01-01",
				EndDate:   "2024-12-31",
				Amount:    decimal.NewFromInt(500000),
			},
			{
				Name:      "Retirement withdrawals",
				Type:      domain.CalcSWP,
				StartDate: "2018-01-01",
				EndDate:   "2024-12-31",
				Initial:   decimal.NewFromInt(2500000),
				Amount:    decimal.NewFromInt(20000),
			},
			{
				Name:      "Child education (SIP)",
				Type:      domain.CalcGoalSIP,
				StartDate: "2015-01-01",
				Target:    decimal.NewFromInt(2500000),
				Years:     8,
			},
			{
				Name:           "Home down payment timing",
				Type:           domain.CalcGoalTime,
				Mode:           "sip",
				Amount:         decimal.NewFromInt(25000),
				Target:         decimal.NewFromInt(3000000),
				ExpectedReturn: decimal.NewFromInt(12),
			},
			{
				Name:           "Retirement top-up",
				Type:           domain.CalcGoalCombination,
				Mode:           "lumpsum",
				Amount:         decimal.NewFromInt(1000000),
				Target:         decimal.NewFromInt(10000000),
				Years:          15,
				ExpectedReturn: decimal.NewFromInt(11),
			},
			{
				Name:        "Home loan",
				Type:        domain.CalcLoanEMI,
				Principal:   decimal.NewFromInt(5000000),
				AnnualRate:  decimal.NewFromFloat(8.5),
				TenureYears: decimal.NewFromInt(20),
			},
		},
	}
}
