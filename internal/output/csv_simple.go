package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
)

// CSVSummarizer implements the simple summary CSV output (one row per calculation).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Name", "Type", "Fund", "Start", "End", "Invested", "FinalValue", "Withdrawn", "TotalReturn", "CAGRPercent", "ReturnPercent", "Depleted", "Target", "Required", "YearsNeeded", "TargetMet", "EMI", "AnnualRatePercent", "TenureYears", "TotalInterest"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, e := range report.Entries {
		row := make([]string, len(header))
		row[0] = e.Name
		row[1] = string(e.Type)
		if e.Instrument != nil {
			row[2] = e.Instrument.Code
		}
		if v := e.Valuation; v != nil {
			row[3] = dateutil.FormatISO(v.Start)
			row[4] = dateutil.FormatISO(v.End)
			row[5] = v.TotalInvested.StringFixed(2)
			row[6] = v.FinalValue.StringFixed(2)
			row[7] = v.TotalWithdrawn.StringFixed(2)
			row[8] = v.TotalReturn.StringFixed(2)
			row[9] = v.CAGRPercent.StringFixed(2)
			row[10] = v.ReturnPercent.StringFixed(2)
			row[11] = isoOrBlank(v.DepletedOn)
		}
		if g := e.Goal; g != nil {
			row[12] = g.Target.StringFixed(2)
			row[13] = fixedOrBlank(g.Required)
			if g.YearsNeeded > 0 {
				row[14] = FormatYears(g.YearsNeeded)
			}
			row[15] = boolToString(g.TargetMet)
		}
		if l := e.Loan; l != nil {
			row[16] = l.EMI.StringFixed(2)
			row[17] = l.AnnualRatePercent.StringFixed(2)
			row[18] = FormatYears(l.TenureYears)
			row[19] = fixedOrBlank(l.TotalInterest)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
