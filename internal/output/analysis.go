package output

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fund-calculator/internal/domain"
)

// Highlight names the valuation with the best annualized growth in a report.
type Highlight struct {
	EntryName   string
	Mode        domain.ValuationMode
	CAGRPercent decimal.Decimal
	TotalReturn decimal.Decimal
	// Spread is the CAGR gap to the weakest valuation, in percentage points.
	Spread decimal.Decimal
}

// AnalyzeValuations picks the valuation entry with the highest CAGR. Entries
// with equal CAGR keep report order. Reports without valuations yield a zero
// Highlight.
func AnalyzeValuations(report *domain.Report) Highlight {
	type ranked struct {
		name string
		res  *domain.ValuationResult
	}
	var ranks []ranked
	for _, e := range report.Entries {
		if e.Valuation != nil {
			ranks = append(ranks, ranked{e.Name, e.Valuation})
		}
	}
	if len(ranks) == 0 {
		return Highlight{}
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].res.CAGRPercent.GreaterThan(ranks[j].res.CAGRPercent)
	})
	best, worst := ranks[0], ranks[len(ranks)-1]
	return Highlight{
		EntryName:   best.name,
		Mode:        best.res.Mode,
		CAGRPercent: best.res.CAGRPercent,
		TotalReturn: best.res.TotalReturn,
		Spread:      best.res.CAGRPercent.Sub(worst.res.CAGRPercent),
	}
}
