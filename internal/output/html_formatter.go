package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

// HTMLFormatter produces a standalone HTML score report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":    FormatCurrency,
	"pct":     FormatPercentage,
	"score":   FormatScore,
	"factor":  FactorLabel,
	"status":  StatusLabel,
	"overall": OverallLabel,
	"metric":  FormatMetric,
	"width": func(score, weight decimal.Decimal) string {
		if !weight.IsPositive() {
			return "0"
		}
		return score.Div(weight).Mul(decimal.NewFromInt(100)).StringFixed(0)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*Report
		Factors []domain.FactorResult
	}{report, report.Breakdown.OrderedFactors()}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
