package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rpgo/fund-calculator/internal/domain"
)

func TestAmountAt(t *testing.T) {
	start := date(2020, 1, 15)
	stepUp := domain.AnnualStepUp(dec("100"), dec("10"))

	tests := []struct {
		name   string
		policy domain.CashFlowPolicy
		on     string
		want   string
	}{
		{"flat", domain.Flat(dec("2500")), "2023-07-15", "2500"},
		{"step-up at origin", stepUp, "2020-01-15", "100"},
		{"step-up first year", stepUp, "2020-12-15", "100"},
		{"anniversary on the date is not yet counted", stepUp, "2021-01-15", "100"},
		{"day after first anniversary", stepUp, "2021-01-16", "110"},
		{"second year", stepUp, "2021-06-15", "110"},
		{"after two anniversaries", stepUp, "2022-02-15", "121"},
		{"zero step-up behaves flat", domain.AnnualStepUp(dec("100"), dec("0")), "2030-01-01", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountAt(tt.policy, start, mustDate(t, tt.on))
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestAmountAt_StepUpAtOriginIsExact(t *testing.T) {
	start := date(2021, 3, 31)
	got := AmountAt(domain.AnnualStepUp(dec("100"), dec("10")), start, start)
	assert.Equal(t, "100", got.String())
}

func TestValidatePolicy(t *testing.T) {
	assert.NoError(t, validatePolicy("test", domain.Flat(dec("1"))))
	assert.Error(t, validatePolicy("test", domain.Flat(dec("0"))))
	assert.Error(t, validatePolicy("test", domain.AnnualStepUp(dec("100"), dec("-100"))))
	assert.Error(t, validatePolicy("test", domain.CashFlowPolicy{Kind: "weekly", Amount: dec("1")}))
}
