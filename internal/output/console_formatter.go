package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/fund-calculator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "FUND CALCULATION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	for _, e := range report.Entries {
		fmt.Fprintf(&buf, "%s [%s]: %s\n", e.Name, e.Type, summaryLine(e))
	}
	if h := AnalyzeValuations(report); h.EntryName != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Best growth: %s (CAGR %s, return %s)\n", h.EntryName, FormatPercentage(h.CAGRPercent), FormatCurrency(h.TotalReturn))
	}
	return buf.Bytes(), nil
}

// summaryLine condenses one entry's headline numbers.
func summaryLine(e domain.ReportEntry) string {
	switch {
	case e.Valuation != nil:
		v := e.Valuation
		if v.Mode == domain.ModeSWP {
			return fmt.Sprintf("initial=%s withdrawn=%s remaining=%s CAGR=%s",
				FormatCurrency(v.Principal), FormatCurrency(v.TotalWithdrawn), FormatCurrency(v.FinalValue), FormatPercentage(v.CAGRPercent))
		}
		return fmt.Sprintf("invested=%s final=%s return=%s CAGR=%s",
			FormatCurrency(v.TotalInvested), FormatCurrency(v.FinalValue), FormatPercentage(v.ReturnPercent), FormatPercentage(v.CAGRPercent))
	case e.Goal != nil:
		return goalLine(e.Goal)
	case e.Loan != nil:
		return loanLine(e.Loan)
	}
	return "no result"
}

func goalLine(g *domain.GoalResult) string {
	switch g.Kind {
	case "time_lumpsum", "time_sip":
		return fmt.Sprintf("target=%s reached in %s", FormatCurrency(g.Target), FormatYears(g.YearsNeeded))
	}
	if g.TargetMet {
		return fmt.Sprintf("target=%s already met", FormatCurrency(g.Target))
	}
	note := g.Note
	if note == "" {
		note = "required"
	}
	return fmt.Sprintf("target=%s %s=%s", FormatCurrency(g.Target), note, FormatCurrency(g.Required))
}

func loanLine(l *domain.LoanResult) string {
	switch l.Mode {
	case "tenure":
		return fmt.Sprintf("EMI=%s repays %s in %s", FormatCurrency(l.EMI), FormatCurrency(l.Principal), FormatYears(l.TenureYears))
	case "rate":
		return fmt.Sprintf("EMI=%s over %s implies %s p.a.", FormatCurrency(l.EMI), FormatYears(l.TenureYears), FormatPercentage(l.AnnualRatePercent))
	}
	return fmt.Sprintf("EMI=%s interest=%s total=%s", FormatCurrency(l.EMI), FormatCurrency(l.TotalInterest), FormatCurrency(l.TotalPayment))
}
