package compare

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

func testComparisonSet() *ComparisonSet {
	mc := NewMetricsCalculator()
	base := mc.CalculateMetrics("Base Plan", breakdown(48, domain.OverallCritical, map[domain.ScoreFactor]float64{
		domain.FactorEmergencyFund: 0,
		domain.FactorSavingsRate:   21.25,
	}))
	alt := mc.CalculateComparison(mc.CalculateMetrics("Base Plan_build_emergency_fund", breakdown(55, domain.OverallNeedsWork, map[domain.ScoreFactor]float64{
		domain.FactorEmergencyFund: 7,
		domain.FactorSavingsRate:   21.25,
	})), base)
	alt.Description = "Build the emergency fund to 6 months of expenses"
	worse := mc.CalculateComparison(mc.CalculateMetrics("Base Plan_remove", breakdown(45, domain.OverallCritical, map[domain.ScoreFactor]float64{
		domain.FactorEmergencyFund: 0,
		domain.FactorSavingsRate:   18,
	})), base)

	compSet := &ComparisonSet{
		BaseScenarioName:   "Base Plan",
		InputPath:          "/path/to/profile.yaml",
		BaseResult:         &base,
		AlternativeResults: []ComparisonResult{alt, worse},
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}

func TestTableFormatter_Format(t *testing.T) {
	formatter := &TableFormatter{}
	out := formatter.Format(testComparisonSet())

	expected := []string{
		"FINANCIAL HEALTH WHAT-IF COMPARISON",
		"Base: Base Plan",
		"Input: /path/to/profile.yaml",
		"Base Plan (base)",
		"48/100",
		"+7",
		"-3",
		"needs work",
		"COMPARISON TO BASE",
		"Build the emergency fund to 6 months of expenses",
		"Emergency Fund:",
		"+7.0 points",
		"-3.3 points",
		"RECOMMENDATIONS",
		"Best Overall",
	}
	for _, want := range expected {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	compSet := testComparisonSet()
	compSet.AlternativeResults = nil
	compSet.Recommendations = nil

	out := (&TableFormatter{}).Format(compSet)
	assert.Contains(t, out, "Base Plan (base)")
	assert.NotContains(t, out, "COMPARISON TO BASE")
	assert.NotContains(t, out, "RECOMMENDATIONS")
}

func TestTableFormatter_formatRow(t *testing.T) {
	tf := &TableFormatter{}
	compSet := testComparisonSet()

	row := tf.formatRow(&compSet.AlternativeResults[0], 36, 12, false)
	assert.Contains(t, row, "55/100")
	assert.Contains(t, row, "+7")

	long := ComparisonResult{ScenarioName: strings.Repeat("x", 50)}
	row = tf.formatRow(&long, 36, 12, true)
	assert.Contains(t, row, "...")
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	out := (&TableFormatter{}).FormatCompact(testComparisonSet())
	assert.Equal(t, "Base: Base Plan 48 | Base Plan_build_emergency_fund: +7 | Base Plan_remove: -3", out)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(testComparisonSet())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,Type,Total Score,Status,Total Diff from Base,savingsRate,savingsRate Diff"))
	assert.True(t, strings.HasPrefix(lines[1], "Base Plan,base,48,critical,0,21.25,0.00"))
	assert.True(t, strings.HasPrefix(lines[2], "Base Plan_build_emergency_fund,alternative,55,needsWork,7"))
	assert.Contains(t, lines[2], "7.00,7.00")
}

func TestJSONFormatter_Format(t *testing.T) {
	compSet := testComparisonSet()

	for _, pretty := range []bool{true, false} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(compSet)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "Base Plan", decoded["baseScenarioName"])
		alts, ok := decoded["alternativeResults"].([]any)
		require.True(t, ok)
		assert.Len(t, alts, 2)
		assert.Equal(t, pretty, strings.Contains(out, "\n  "))
	}
}
