package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finhealth/internal/config"
	"github.com/rgehrsitz/finhealth/internal/domain"
)

func buildTestReport() *Report {
	metrics := func(kv ...any) map[string]decimal.Decimal {
		m := map[string]decimal.Decimal{}
		for i := 0; i < len(kv); i += 2 {
			m[kv[i].(string)] = decimal.NewFromFloat(kv[i+1].(float64))
		}
		return m
	}
	factor := func(f domain.ScoreFactor, weight, score float64, status domain.FactorStatus, m map[string]decimal.Decimal) domain.FactorResult {
		return domain.FactorResult{
			Factor: f,
			Weight: decimal.NewFromFloat(weight),
			Score:  decimal.NewFromFloat(score),
			Details: domain.FactorDetails{
				Status:  status,
				Metrics: m,
				Labels:  map[string]string{},
			},
		}
	}

	breakdown := domain.ScoreBreakdown{
		TotalScore: 46,
		Status:     domain.OverallCritical,
		Factors: map[domain.ScoreFactor]domain.FactorResult{
			domain.FactorSavingsRate:         factor(domain.FactorSavingsRate, 25, 21.25, domain.StatusGood, metrics("savingsRate", 17.5, "monthlyIncome", 15000.0)),
			domain.FactorRetirementReadiness: factor(domain.FactorRetirementReadiness, 20, 0, domain.StatusCritical, metrics("currentSavings", 0.0, "targetSavings", 180000.0)),
			domain.FactorTimeHorizon:         factor(domain.FactorTimeHorizon, 15, 15, domain.StatusExcellent, metrics("yearsToRetirement", 37.0)),
			domain.FactorRiskAlignment:       factor(domain.FactorRiskAlignment, 12, 0, domain.StatusNoData, nil),
			domain.FactorDiversification:     factor(domain.FactorDiversification, 10, 0, domain.StatusNoData, metrics("assetClasses", 0.0)),
			domain.FactorTaxEfficiency:       factor(domain.FactorTaxEfficiency, 8, 6.57, domain.StatusGood, metrics("efficiencyScore", 82.16)),
			domain.FactorEmergencyFund:       factor(domain.FactorEmergencyFund, 7, 0, domain.StatusUnknown, nil),
			domain.FactorDebtManagement:      factor(domain.FactorDebtManagement, 3, 3, domain.StatusExcellent, metrics("debtToIncome", 0.0)),
		},
		Suggestions: []domain.ImprovementSuggestion{{
			Priority: domain.PriorityHigh,
			Category: domain.FactorRetirementReadiness,
			Issue:    "Retirement savings of 0 are below the age-based target of 180000",
			Action:   "Build retirement savings by 180000, starting with higher pension contributions",
			Impact:   "+17.0 points",
		}},
		PeerComparison: &domain.PeerComparison{AgeGroup: "30-39", YourScore: 46, PeerAverage: 58, TopQuartile: 78, Percentile: 25},
	}
	breakdown.Factors[domain.FactorEmergencyFund].Details.Labels["partialCredit"] = "true"

	return NewReport("Test Plan", breakdown).
		WithIssues([]domain.ValidationIssue{{Field: "country", Severity: domain.SeverityWarning, Message: "no tax table"}}).
		WithAssumptions(Assumptions(config.DefaultRules()))
}

func TestFormatterFunc_Format(t *testing.T) {
	called := false
	var received *Report

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(report *Report) ([]byte, error) {
			called = true
			received = report
			return []byte("test output"), nil
		},
	}

	report := buildTestReport()
	out, err := formatter.Format(report)

	assert.NoError(t, err)
	assert.True(t, called)
	assert.Same(t, report, received)
	assert.Equal(t, []byte("test output"), out)
	assert.Equal(t, "test-formatter", formatter.Name())
}

func TestWriteFormatted(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	formatter := FormatterFunc{
		ID: "test-formatter",
		F:  func(*Report) ([]byte, error) { return []byte("test output content"), nil },
	}
	filename, err := WriteFormatted(formatter, buildTestReport(), "txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "finhealth_report_"))
	assert.True(t, strings.HasSuffix(filename, ".txt"))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "test output content", string(content))
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F:  func(*Report) ([]byte, error) { return nil, fmt.Errorf("formatter error") },
	}
	filename, err := WriteFormatted(formatter, buildTestReport(), "txt")
	assert.Error(t, err)
	assert.Empty(t, filename)
	assert.Contains(t, err.Error(), "formatter error")
}

func TestConsoleFormatter_Format(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "Test Plan")
	assert.Contains(t, content, "Score 46 / 100")
	assert.Contains(t, content, "Retirement Readiness")
	assert.Contains(t, content, "15,000.00")
	assert.Contains(t, content, "17.50%")
	assert.Contains(t, content, "partialCredit:")
	assert.Contains(t, content, "+17.0 points")
	assert.Contains(t, content, "Age group 30-39")
	assert.Contains(t, content, "[warning] country: no tax table")
	assert.Contains(t, content, "KEY ASSUMPTIONS")
}

func TestConsoleLiteFormatter_Format(t *testing.T) {
	out, err := ConsoleLiteFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "FINANCIAL HEALTH SCORE SUMMARY")
	assert.Contains(t, content, "Total: 46/100 (critical)")
	assert.Contains(t, content, "no data")
	assert.Contains(t, content, "Top suggestion: Build retirement savings")
	assert.Contains(t, content, "Peers 30-39: percentile 25")
}

func TestConsoleLiteFormatter_EmptyBreakdown(t *testing.T) {
	report := NewReport("", domain.ScoreBreakdown{Status: domain.OverallError, Factors: map[domain.ScoreFactor]domain.FactorResult{}})
	out, err := ConsoleLiteFormatter{}.Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Total: 0/100 (error)")
	assert.NotContains(t, string(out), "Top suggestion")
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	var decoded struct {
		Title     string `json:"title"`
		Breakdown struct {
			TotalScore int                        `json:"totalScore"`
			Status     string                     `json:"status"`
			Factors    map[string]json.RawMessage `json:"factors"`
		} `json:"breakdown"`
		Issues []domain.ValidationIssue `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Test Plan", decoded.Title)
	assert.Equal(t, 46, decoded.Breakdown.TotalScore)
	assert.Equal(t, "critical", decoded.Breakdown.Status)
	assert.Len(t, decoded.Breakdown.Factors, 8)
	assert.Contains(t, decoded.Breakdown.Factors, "savingsRate")
	require.Len(t, decoded.Issues, 1)
	assert.Contains(t, string(out), "\"peerComparison\"")
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := CSVFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.Equal(t, []string{"Factor", "Weight", "Score", "Status", "Message"}, rows[0])
	assert.Equal(t, "savingsRate", rows[1][0])
	assert.Equal(t, "21.25", rows[1][2])
	assert.Equal(t, "debtManagement", rows[8][0])
	assert.Equal(t, []string{"total", "100", "46", "critical", ""}, rows[9])
}

func TestDetailedCSVFormatter_Format(t *testing.T) {
	out, err := DetailedCSVFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "savingsRate,good,savingsRate,17.50")
	assert.Contains(t, content, "emergencyFund,unknown,partialCredit,true")
	assert.Contains(t, content, "riskAlignment,no_data,score,0.00")
}

func TestHTMLFormatter_Format(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, "<title>Test Plan</title>")
	assert.Contains(t, content, "Retirement Readiness")
	assert.Contains(t, content, "Peer comparison")
	assert.Contains(t, content, "Key assumptions")
	assert.Contains(t, content, "width: 85%")
}

func TestPDFFormatter_Format(t *testing.T) {
	out, err := PDFFormatter{}.Format(buildTestReport())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"))
	assert.Greater(t, len(out), 1000)
}

func TestAvailableFormatterNames(t *testing.T) {
	names := AvailableFormatterNames()
	for _, want := range []string{"console", "console-lite", "json", "csv", "detailed-csv", "html", "pdf"} {
		assert.Contains(t, names, want)
	}
}

func TestGetFormatterByName(t *testing.T) {
	f := GetFormatterByName("console-lite")
	require.NotNil(t, f)
	assert.Equal(t, "console-lite", f.Name())

	f = GetFormatterByName("Verbose")
	require.NotNil(t, f)
	assert.Equal(t, "console", f.Name())

	assert.Nil(t, GetFormatterByName("non-existent"))
	assert.Contains(t, AvailableFormatAliases(), "metrics-csv")
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", FileExtension(PDFFormatter{}))
	assert.Equal(t, "csv", FileExtension(DetailedCSVFormatter{}))
	assert.Equal(t, "txt", FileExtension(ConsoleFormatter{}))
}

func TestFormatCurrency(t *testing.T) {
	tests := map[string]string{
		"0":           "0.00",
		"999.5":       "999.50",
		"1000":        "1,000.00",
		"1234567.891": "1,234,567.89",
		"-25000":      "-25,000.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCurrency(decimal.RequireFromString(in)), in)
	}
}

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "17.50%", FormatMetric("savingsRate", decimal.NewFromFloat(17.5)))
	assert.Equal(t, "0.35", FormatMetric("debtToIncome", decimal.NewFromFloat(0.35)))
	assert.Equal(t, "8,500.00", FormatMetric("monthlyExpenses", decimal.NewFromInt(8500)))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Emergency Fund", FactorLabel(domain.FactorEmergencyFund))
	assert.Equal(t, "custom", FactorLabel("custom"))
	assert.Equal(t, "missing income data", StatusLabel(domain.StatusMissingIncomeData))
	assert.Equal(t, "needs work", OverallLabel(domain.OverallNeedsWork))
}

func TestScoreBar(t *testing.T) {
	bar := scoreBar(decimal.NewFromInt(5), decimal.NewFromInt(10))
	assert.Equal(t, strings.Repeat("█", 10)+strings.Repeat("░", 10), bar)
	assert.Equal(t, strings.Repeat("░", 20), scoreBar(decimal.Zero, decimal.Zero))
}
