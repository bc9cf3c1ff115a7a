package compare

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

// CSVFormatter formats comparison results as CSV, one row per scenario with
// a score and a delta column per factor
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{"Scenario", "Type", "Total Score", "Status", "Total Diff from Base"}
	for _, f := range domain.AllFactors {
		header = append(header, string(f), string(f)+" Diff")
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	row := []string{
		result.ScenarioName,
		scenarioType,
		strconv.Itoa(result.TotalScore),
		string(result.Status),
		strconv.Itoa(result.TotalDiffFromBase),
	}
	for _, f := range domain.AllFactors {
		row = append(row, result.FactorScores[f].StringFixed(2), result.FactorDiffs[f].StringFixed(2))
	}
	return row
}
