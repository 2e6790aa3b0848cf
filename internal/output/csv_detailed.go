package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
)

// CSVDetailedExporter writes the monthly valuation series and loan
// amortization rows of every calculation, one row per period.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Entry", "Kind", "Period", "Invested", "Value", "Withdrawn", "Payment", "Interest", "Principal", "Balance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, e := range report.Entries {
		if e.Valuation != nil {
			for _, p := range e.Valuation.Series {
				row := []string{
					e.Name,
					"valuation",
					dateutil.FormatISO(p.Date),
					p.Invested.StringFixed(2),
					p.Value.StringFixed(2),
					p.Withdrawn.StringFixed(2),
					"", "", "", "",
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
		if e.Loan != nil {
			for _, r := range e.Loan.Schedule {
				row := []string{
					e.Name,
					"amortization",
					intToString(r.Month),
					"", "", "",
					r.Payment.StringFixed(2),
					r.Interest.StringFixed(2),
					r.Principal.StringFixed(2),
					r.Balance.StringFixed(2),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
