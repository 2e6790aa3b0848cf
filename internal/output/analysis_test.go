package output

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rpgo/fund-calculator/internal/domain"
)

func valuationEntry(name string, cagr int64) domain.ReportEntry {
	return domain.ReportEntry{Name: name, Type: domain.CalcSIP, Valuation: &domain.ValuationResult{
		Mode:        domain.ModeSIP,
		CAGRPercent: decimal.NewFromInt(cagr),
		TotalReturn: decimal.NewFromInt(cagr * 100),
	}}
}

func TestAnalyzeValuations_SelectsHighestCAGR(t *testing.T) {
	report := &domain.Report{Entries: []domain.ReportEntry{
		valuationEntry("Fund A", 9),
		{Name: "Loan", Type: domain.CalcLoanEMI, Loan: &domain.LoanResult{Mode: "emi"}},
		valuationEntry("Fund B", 14),
		valuationEntry("Fund C", -2),
	}}

	h := AnalyzeValuations(report)
	assert.Equal(t, "Fund B", h.EntryName)
	assert.True(t, h.CAGRPercent.Equal(decimal.NewFromInt(14)))
	assert.True(t, h.TotalReturn.Equal(decimal.NewFromInt(1400)))
	assert.True(t, h.Spread.Equal(decimal.NewFromInt(16)), h.Spread.String())
}

func TestAnalyzeValuations_TiesKeepReportOrder(t *testing.T) {
	report := &domain.Report{Entries: []domain.ReportEntry{valuationEntry("first", 10), valuationEntry("second", 10)}}
	assert.Equal(t, "first", AnalyzeValuations(report).EntryName)
}

func TestAnalyzeValuations_NoValuations(t *testing.T) {
	report := &domain.Report{Entries: []domain.ReportEntry{
		{Name: "Goal", Type: domain.CalcGoalTime, Goal: &domain.GoalResult{Kind: "time_sip"}},
	}}
	assert.Equal(t, Highlight{}, AnalyzeValuations(report))
}

func TestGenerateAssumptionsAppendsWarnings(t *testing.T) {
	report := &domain.Report{Entries: []domain.ReportEntry{{
		Name: "Early SIP",
		Valuation: &domain.ValuationResult{
			Warnings: []string{"start date moved to first NAV 2013-01-02"},
		},
	}}}
	notes := GenerateAssumptions(report)
	assert.Len(t, notes, len(DefaultAssumptions)+1)
	assert.Equal(t, "Early SIP: start date moved to first NAV 2013-01-02", notes[len(notes)-1])
}

func TestGenerateAssumptionsIncludesGoalWarnings(t *testing.T) {
	report := &domain.Report{Entries: []domain.ReportEntry{{
		Name: "Retirement goal",
		Type: domain.CalcGoalSIP,
		Goal: &domain.GoalResult{
			Kind:     string(domain.CalcGoalSIP),
			Warnings: []string{"target not reached: even 8333.33 a month falls short over 1 years of this NAV history"},
		},
	}}}
	notes := GenerateAssumptions(report)
	assert.Len(t, notes, len(DefaultAssumptions)+1)
	assert.Contains(t, notes[len(notes)-1], "Retirement goal: target not reached")
}
