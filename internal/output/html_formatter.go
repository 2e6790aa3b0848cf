package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
)

// HTMLFormatter produces a standalone HTML report with a growth chart per valuation.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":    FormatCurrency,
	"pct":     FormatPercentage,
	"years":   FormatYears,
	"iso":     dateutil.FormatISO,
	"summary": summaryLine,
	"add":     func(i, j int) int { return i + j },
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

// chartData is the Chart.js payload for one valuation.
type chartData struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Labels    []string  `json:"labels"`
	Invested  []float64 `json:"invested"`
	Value     []float64 `json:"value"`
	Withdrawn []float64 `json:"withdrawn,omitempty"`
}

func buildCharts(report *domain.Report) []chartData {
	var charts []chartData
	for i, e := range report.Entries {
		v := e.Valuation
		if v == nil || len(v.Series) == 0 {
			continue
		}
		c := chartData{ID: "chart-" + intToString(i+1), Title: e.Name}
		for _, p := range v.Series {
			c.Labels = append(c.Labels, dateutil.FormatISO(p.Date))
			c.Invested = append(c.Invested, p.Invested.InexactFloat64())
			c.Value = append(c.Value, p.Value.InexactFloat64())
			if v.Mode == domain.ModeSWP {
				c.Withdrawn = append(c.Withdrawn, p.Withdrawn.InexactFloat64())
			}
		}
		charts = append(charts, c)
	}
	return charts
}

func (h HTMLFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.Report
		Highlight   Highlight
		Assumptions []string
		Charts      []chartData
	}{report, AnalyzeValuations(report), GenerateAssumptions(report), buildCharts(report)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
