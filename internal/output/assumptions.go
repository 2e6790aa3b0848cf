package output

import (
	"fmt"

	"github.com/rpgo/fund-calculator/internal/domain"
)

// DefaultAssumptions lists the methodology rendered in detailed outputs.
var DefaultAssumptions = []string{
	"NAV on a non-trading day is the most recent earlier published NAV",
	"Monthly installments fall on the start day of month, clamped to the month end",
	"Step-up raises the installment after each completed year from the start date",
	"CAGR and elapsed years use 365.25-day years",
	"SWP returns count withdrawals plus the remaining corpus value",
	"Fixed-rate planners compound monthly at one twelfth of the annual return",
}

// GenerateAssumptions returns DefaultAssumptions followed by the warnings
// raised while computing the report, prefixed with the entry name.
func GenerateAssumptions(report *domain.Report) []string {
	notes := append([]string(nil), DefaultAssumptions...)
	for _, e := range report.Entries {
		if e.Goal != nil {
			for _, w := range e.Goal.Warnings {
				notes = append(notes, fmt.Sprintf("%s: %s", e.Name, w))
			}
		}
		if e.Valuation == nil {
			continue
		}
		for _, w := range e.Valuation.Warnings {
			notes = append(notes, fmt.Sprintf("%s: %s", e.Name, w))
		}
		if e.Valuation.DepletedOn != nil {
			notes = append(notes, fmt.Sprintf("%s: corpus depleted on %s", e.Name, isoOrBlank(e.Valuation.DepletedOn)))
		}
	}
	return notes
}
