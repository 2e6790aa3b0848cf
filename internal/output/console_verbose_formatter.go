package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
)

// scheduleHead is how many amortization rows the console shows before eliding.
const scheduleHead = 12

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "MUTUAL FUND CALCULATION REPORT")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintf(&buf, "Report ID: %s\n", report.ID)
	fmt.Fprintf(&buf, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(report) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, e := range report.Entries {
		fmt.Fprintf(&buf, "CALCULATION %d: %s (%s)\n", i+1, e.Name, e.Type)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		if e.Instrument != nil {
			fmt.Fprintf(&buf, "Fund: %s (%s)\n", e.Instrument.Name, e.Instrument.Code)
		}
		switch {
		case e.Valuation != nil:
			writeValuation(&buf, e.Valuation)
		case e.Goal != nil:
			writeGoal(&buf, e.Goal)
		case e.Loan != nil:
			writeLoan(&buf, e.Loan)
		}
		fmt.Fprintln(&buf)
	}

	if h := AnalyzeValuations(report); h.EntryName != "" {
		fmt.Fprintln(&buf, "BEST GROWTH")
		fmt.Fprintln(&buf, "===========")
		fmt.Fprintf(&buf, "%s (%s): CAGR %s, %s ahead of the weakest valuation\n",
			h.EntryName, h.Mode, FormatPercentage(h.CAGRPercent), FormatPercentage(h.Spread))
	}
	return buf.Bytes(), nil
}

func writeValuation(w io.Writer, v *domain.ValuationResult) {
	fmt.Fprintf(w, "Period:          %s to %s (%s)\n", dateutil.FormatISO(v.Start), dateutil.FormatISO(v.End), FormatYears(v.Years))
	if v.Mode == domain.ModeSWP {
		fmt.Fprintf(w, "Initial corpus:  %s\n", FormatCurrency(v.Principal))
		fmt.Fprintf(w, "Total withdrawn: %s\n", FormatCurrency(v.TotalWithdrawn))
		fmt.Fprintf(w, "Remaining value: %s\n", FormatCurrency(v.FinalValue))
	} else {
		fmt.Fprintf(w, "Total invested:  %s\n", FormatCurrency(v.TotalInvested))
		fmt.Fprintf(w, "Final value:     %s\n", FormatCurrency(v.FinalValue))
	}
	fmt.Fprintf(w, "Units held:      %s\n", v.TotalUnits.StringFixed(4))
	fmt.Fprintf(w, "Total return:    %s (%s)\n", FormatCurrency(v.TotalReturn), FormatPercentage(v.ReturnPercent))
	fmt.Fprintf(w, "CAGR:            %s\n", FormatPercentage(v.CAGRPercent))
	if v.DepletedOn != nil {
		fmt.Fprintf(w, "Depleted on:     %s\n", dateutil.FormatISO(*v.DepletedOn))
	}

	if len(v.Series) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "YEARLY SNAPSHOTS:")
	fmt.Fprintf(w, "  %-12s %18s %18s %18s\n", "Date", "Invested", "Value", "Withdrawn")
	for i, p := range v.Series {
		if i%12 != 0 && i != len(v.Series)-1 {
			continue
		}
		fmt.Fprintf(w, "  %-12s %18s %18s %18s\n", dateutil.FormatISO(p.Date),
			FormatCurrency(p.Invested), FormatCurrency(p.Value), FormatCurrency(p.Withdrawn))
	}
}

func writeGoal(w io.Writer, g *domain.GoalResult) {
	fmt.Fprintf(w, "Target:          %s\n", FormatCurrency(g.Target))
	if g.Years > 0 {
		fmt.Fprintf(w, "Horizon:         %s\n", FormatYears(g.Years))
	}
	if !g.StepUpPercent.IsZero() {
		fmt.Fprintf(w, "Annual step-up:  %s\n", FormatPercentage(g.StepUpPercent))
	}
	fmt.Fprintf(w, "Result:          %s\n", goalLine(g))
	for _, warn := range g.Warnings {
		fmt.Fprintf(w, "Warning:         %s\n", warn)
	}
}

func writeLoan(w io.Writer, l *domain.LoanResult) {
	fmt.Fprintf(w, "Principal:       %s\n", FormatCurrency(l.Principal))
	fmt.Fprintf(w, "Annual rate:     %s\n", FormatPercentage(l.AnnualRatePercent))
	fmt.Fprintf(w, "Tenure:          %s\n", FormatYears(l.TenureYears))
	fmt.Fprintf(w, "EMI:             %s\n", FormatCurrency(l.EMI))
	if !l.TotalPayment.IsZero() {
		fmt.Fprintf(w, "Total interest:  %s\n", FormatCurrency(l.TotalInterest))
		fmt.Fprintf(w, "Total payment:   %s\n", FormatCurrency(l.TotalPayment))
	}

	if len(l.Sensitivity) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "RATE SENSITIVITY:")
		for _, p := range l.Sensitivity {
			fmt.Fprintf(w, "  %8s  %s\n", FormatPercentage(p.AnnualRatePercent), FormatCurrency(p.EMI))
		}
	}

	if len(l.Schedule) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "AMORTIZATION:")
		fmt.Fprintf(w, "  %5s %16s %16s %16s %18s\n", "Month", "Payment", "Interest", "Principal", "Balance")
		for i, r := range l.Schedule {
			if i == scheduleHead && len(l.Schedule) > scheduleHead+1 {
				fmt.Fprintf(w, "  ... %d months omitted ...\n", len(l.Schedule)-scheduleHead-1)
			}
			if i >= scheduleHead && i != len(l.Schedule)-1 {
				continue
			}
			fmt.Fprintf(w, "  %5d %16s %16s %16s %18s\n", r.Month,
				FormatCurrency(r.Payment), FormatCurrency(r.Interest), FormatCurrency(r.Principal), FormatCurrency(r.Balance))
		}
	}
}
