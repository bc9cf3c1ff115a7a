package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

// PDFFormatter renders the score report as an A4 PDF document
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 20.0
	pdfContentWidth = 210.0 - pdfMarginLeft - pdfMarginRight
)

type pdfReport struct {
	pdf *fpdf.Fpdf
	// tr converts UTF-8 text into the core fonts' code page
	tr func(string) string
}

func (p PDFFormatter) Format(report *Report) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	doc.SetAutoPageBreak(true, pdfMarginBottom)
	doc.SetTitle(report.title(), true)

	r := &pdfReport{pdf: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	doc.AddPage()
	r.header(report)
	r.factors(report.Breakdown)
	r.suggestions(report.Breakdown.Suggestions)
	r.peers(report.Breakdown.PeerComparison)
	r.issues(report.Issues)
	r.assumptions(report.Assumptions)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *pdfReport) header(report *Report) {
	b := report.Breakdown
	r.pdf.SetFont("Arial", "B", 22)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(pdfContentWidth, 12, r.tr(report.title()), "", 1, "C", false, 0, "")

	r.pdf.Ln(4)
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(50, 50, 50)
	text := fmt.Sprintf("Score %d / 100  (%s)", b.TotalScore, OverallLabel(b.Status))
	r.pdf.CellFormat(pdfContentWidth, 12, text, "1", 1, "C", true, 0, "")
	r.pdf.Ln(6)
}

func (r *pdfReport) section(title string) {
	r.pdf.Ln(4)
	r.pdf.SetFont("Arial", "B", 13)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(pdfContentWidth, 8, r.tr(title), "B", 1, "L", false, 0, "")
	r.pdf.Ln(2)
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
}

func (r *pdfReport) factors(b domain.ScoreBreakdown) {
	r.section("Factors")
	widths := []float64{60, 30, 40, 50}
	headers := []string{"Factor", "Score", "Status", "Weight"}

	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		r.pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Arial", "", 10)
	for i, f := range b.OrderedFactors() {
		if i%2 == 0 {
			r.pdf.SetFillColor(252, 252, 252)
		} else {
			r.pdf.SetFillColor(240, 248, 255)
		}
		red, green, blue := statusRGB(f.Details.Status)
		r.pdf.SetTextColor(50, 50, 50)
		r.pdf.CellFormat(widths[0], 7, FactorLabel(f.Factor), "1", 0, "L", true, 0, "")
		r.pdf.CellFormat(widths[1], 7, FormatScore(f.Score), "1", 0, "R", true, 0, "")
		r.pdf.SetTextColor(red, green, blue)
		r.pdf.CellFormat(widths[2], 7, StatusLabel(f.Details.Status), "1", 0, "C", true, 0, "")
		r.pdf.SetTextColor(50, 50, 50)
		r.pdf.CellFormat(widths[3], 7, f.Weight.String(), "1", 1, "R", true, 0, "")
	}
}

func (r *pdfReport) suggestions(suggestions []domain.ImprovementSuggestion) {
	if len(suggestions) == 0 {
		return
	}
	r.section("Suggestions")
	for i, s := range suggestions {
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.CellFormat(pdfContentWidth, 6, r.tr(fmt.Sprintf("%d. %s (%s priority, %s)", i+1, FactorLabel(s.Category), s.Priority, s.Impact)), "", 1, "L", false, 0, "")
		r.pdf.SetFont("Arial", "", 10)
		r.pdf.MultiCell(pdfContentWidth, 5, r.tr(s.Issue), "", "L", false)
		r.pdf.SetFont("Arial", "I", 10)
		r.pdf.MultiCell(pdfContentWidth, 5, r.tr(s.Action), "", "L", false)
		r.pdf.Ln(2)
	}
}

func (r *pdfReport) peers(pc *domain.PeerComparison) {
	if pc == nil {
		return
	}
	r.section("Peer comparison")
	text := fmt.Sprintf("Age group %s: your score %d, peer average %d, top quartile %d. Better than about %d%% of peers.",
		pc.AgeGroup, pc.YourScore, pc.PeerAverage, pc.TopQuartile, pc.Percentile)
	r.pdf.MultiCell(pdfContentWidth, 5, text, "", "L", false)
}

func (r *pdfReport) issues(issues []domain.ValidationIssue) {
	if len(issues) == 0 {
		return
	}
	r.section("Input issues")
	for _, i := range issues {
		r.pdf.MultiCell(pdfContentWidth, 5, r.tr(i.String()), "", "L", false)
	}
}

func (r *pdfReport) assumptions(assumptions []string) {
	if len(assumptions) == 0 {
		return
	}
	r.section("Key assumptions")
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	for _, a := range assumptions {
		r.pdf.MultiCell(pdfContentWidth, 4.5, r.tr("- "+a), "", "L", false)
	}
}

func statusRGB(s domain.FactorStatus) (int, int, int) {
	switch s {
	case domain.StatusExcellent, domain.StatusGood:
		return 46, 158, 91
	case domain.StatusFair:
		return 217, 154, 30
	case domain.StatusPoor, domain.StatusCritical, domain.StatusError:
		return 214, 69, 69
	}
	return 138, 143, 152
}
