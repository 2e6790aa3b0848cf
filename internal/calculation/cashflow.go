package calculation

import (
	"time"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AmountAt returns the contribution (or withdrawal) the policy prescribes on
// date for a schedule starting at scheduleStart. For AnnualStepUp the base
// amount grows by StepUpPercent once per anniversary that has passed before
// date, so the first period always pays exactly the base amount.
func AmountAt(policy domain.CashFlowPolicy, scheduleStart, date time.Time) decimal.Decimal {
	if policy.Kind != domain.CashFlowAnnualStepUp || policy.StepUpPercent.IsZero() {
		return policy.Amount
	}

	k := dateutil.AnniversariesElapsed(scheduleStart, date)
	growth := decimal.NewFromInt(1).Add(policy.StepUpPercent.Div(hundred))
	amount := policy.Amount
	for i := 0; i < k; i++ {
		amount = amount.Mul(growth)
	}
	return amount
}

func validatePolicy(op string, policy domain.CashFlowPolicy) error {
	switch policy.Kind {
	case domain.CashFlowFlat, domain.CashFlowAnnualStepUp:
	default:
		return domain.NewInvalidInput(op, "unknown cash flow kind %q", policy.Kind)
	}
	if !policy.Amount.IsPositive() {
		return domain.NewInvalidInput(op, "contribution must be positive, got %s", policy.Amount)
	}
	if policy.StepUpPercent.LessThanOrEqual(hundred.Neg()) {
		return domain.NewInvalidInput(op, "step-up must be greater than -100%%, got %s%%", policy.StepUpPercent)
	}
	return nil
}
