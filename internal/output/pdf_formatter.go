package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
	money "github.com/rpgo/fund-calculator/pkg/decimal"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// pdfText makes text safe for the core PDF fonts, which have no rupee glyph.
func pdfText(s string) string {
	return strings.ReplaceAll(s, money.RupeeSymbol, "Rs.")
}

// PDFFormatter renders the report as an A4 PDF document.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *domain.Report) ([]byte, error) {
	r := &pdfReport{pdf: fpdf.New("P", "mm", "A4", ""), report: report}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)

	r.addSummaryPage()
	for _, e := range report.Entries {
		r.addEntry(e)
	}
	r.addAssumptions()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pdfReport struct {
	pdf    *fpdf.Fpdf
	report *domain.Report
}

func (r *pdfReport) addSummaryPage() {
	r.pdf.AddPage()
	r.pdf.SetFont("Arial", "B", 22)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, "Mutual Fund Calculation Report", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated %s  |  Report %s",
		r.report.GeneratedAt.Format("2 January 2006 15:04"), r.report.ID), "", 1, "C", false, 0, "")
	r.pdf.Ln(8)

	r.drawSectionHeader("Summary")
	widths := []float64{55, 30, 95}
	r.drawTableHeader([]string{"Calculation", "Type", "Result"}, widths)
	for i, e := range r.report.Entries {
		r.drawTableRow([]string{e.Name, string(e.Type), summaryLine(e)}, widths, i%2 == 1)
	}

	if h := AnalyzeValuations(r.report); h.EntryName != "" {
		r.pdf.Ln(4)
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.SetTextColor(0, 102, 51)
		r.pdf.MultiCell(contentWidth, 5, pdfText(fmt.Sprintf("Best growth: %s with CAGR %s (total return %s)",
			h.EntryName, FormatPercentage(h.CAGRPercent), FormatCurrency(h.TotalReturn))), "", "L", false)
	}
}

func (r *pdfReport) addEntry(e domain.ReportEntry) {
	if r.pdf.GetY() > 200 {
		r.pdf.AddPage()
	} else {
		r.pdf.Ln(6)
	}
	r.drawSectionHeader(fmt.Sprintf("%s (%s)", e.Name, e.Type))
	if e.Instrument != nil {
		r.drawKeyValue("Fund", fmt.Sprintf("%s (%s)", e.Instrument.Name, e.Instrument.Code))
	}

	switch {
	case e.Valuation != nil:
		v := e.Valuation
		r.drawKeyValue("Period", fmt.Sprintf("%s to %s (%s)", dateutil.FormatISO(v.Start), dateutil.FormatISO(v.End), FormatYears(v.Years)))
		if v.Mode == domain.ModeSWP {
			r.drawKeyValue("Initial corpus", FormatCurrency(v.Principal))
			r.drawKeyValue("Total withdrawn", FormatCurrency(v.TotalWithdrawn))
			r.drawKeyValue("Remaining value", FormatCurrency(v.FinalValue))
		} else {
			r.drawKeyValue("Total invested", FormatCurrency(v.TotalInvested))
			r.drawKeyValue("Final value", FormatCurrency(v.FinalValue))
		}
		r.drawKeyValue("Total return", fmt.Sprintf("%s (%s)", FormatCurrency(v.TotalReturn), FormatPercentage(v.ReturnPercent)))
		r.drawKeyValue("CAGR", FormatPercentage(v.CAGRPercent))
		if v.DepletedOn != nil {
			r.drawKeyValue("Depleted on", dateutil.FormatISO(*v.DepletedOn))
		}
	case e.Goal != nil:
		r.drawKeyValue("Target", FormatCurrency(e.Goal.Target))
		r.drawKeyValue("Result", goalLine(e.Goal))
	case e.Loan != nil:
		l := e.Loan
		r.drawKeyValue("Principal", FormatCurrency(l.Principal))
		r.drawKeyValue("Annual rate", FormatPercentage(l.AnnualRatePercent))
		r.drawKeyValue("Tenure", FormatYears(l.TenureYears))
		r.drawKeyValue("EMI", FormatCurrency(l.EMI))
		if !l.TotalPayment.IsZero() {
			r.drawKeyValue("Total interest", FormatCurrency(l.TotalInterest))
			r.drawKeyValue("Total payment", FormatCurrency(l.TotalPayment))
		}
		if len(l.Sensitivity) > 0 {
			r.pdf.Ln(2)
			widths := []float64{40, 50}
			r.drawTableHeader([]string{"Annual rate", "EMI"}, widths)
			for i, pt := range l.Sensitivity {
				r.drawTableRow([]string{FormatPercentage(pt.AnnualRatePercent), FormatCurrency(pt.EMI)}, widths, i%2 == 1)
			}
		}
	}
}

func (r *pdfReport) addAssumptions() {
	r.pdf.Ln(8)
	r.drawSectionHeader("Key Assumptions")
	r.pdf.SetFont("Arial", "", 9)
	r.pdf.SetTextColor(50, 50, 50)
	for _, a := range GenerateAssumptions(r.report) {
		r.pdf.MultiCell(contentWidth, 5, pdfText("- "+a), "", "L", false)
	}

	r.pdf.Ln(6)
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 4,
		"Past NAV performance does not guarantee future returns. This document is for informational purposes only "+
			"and does not constitute financial advice.", "", "C", false)
}

func (r *pdfReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 13)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, pdfText(title), "B", 1, "L", false, 0, "")
	r.pdf.Ln(2)
}

func (r *pdfReport) drawKeyValue(key, value string) {
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.CellFormat(40, 5, key+":", "", 0, "L", false, 0, "")
	r.pdf.SetFont("Arial", "", 9)
	r.pdf.CellFormat(contentWidth-40, 5, pdfText(value), "", 1, "L", false, 0, "")
}

func (r *pdfReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFont("Arial", "B", 8)
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		r.pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) drawTableRow(cells []string, widths []float64, shaded bool) {
	r.pdf.SetFont("Arial", "", 8)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.SetFillColor(240, 244, 250)
	for i, c := range cells {
		text := pdfText(c)
		// Truncate to the column so rows stay one line high.
		for len(text) > 3 && r.pdf.GetStringWidth(text) > widths[i]-2 {
			text = text[:len(text)-4] + "..."
		}
		r.pdf.CellFormat(widths[i], 6, text, "1", 0, "L", shaded, 0, "")
	}
	r.pdf.Ln(-1)
}
