package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/output"
)

// ComparisonResult represents a single scored alternative with its deltas
type ComparisonResult struct {
	ScenarioName string                 `json:"scenarioName"`
	Description  string                 `json:"description"`
	Breakdown    *domain.ScoreBreakdown `json:"-"`

	// Key Metrics
	TotalScore      int                                        `json:"totalScore"`
	Status          domain.OverallStatus                       `json:"status"`
	FactorScores    map[domain.ScoreFactor]decimal.Decimal     `json:"factorScores"`
	FactorStatuses  map[domain.ScoreFactor]domain.FactorStatus `json:"factorStatuses"`
	SuggestionCount int                                        `json:"suggestionCount"`

	// Comparison to Base
	TotalDiffFromBase int                                    `json:"totalDiffFromBase"`
	FactorDiffs       map[domain.ScoreFactor]decimal.Decimal `json:"factorDiffs,omitempty"`
	StatusChanged     bool                                   `json:"statusChanged"`
}

// ComparisonSet represents a collection of alternatives scored against a base
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	InputPath          string             `json:"inputPath"`
}

// MetricsCalculator extracts comparison metrics from score breakdowns
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics of one breakdown
func (mc *MetricsCalculator) CalculateMetrics(name string, breakdown *domain.ScoreBreakdown) ComparisonResult {
	result := ComparisonResult{
		ScenarioName:    name,
		Breakdown:       breakdown,
		TotalScore:      breakdown.TotalScore,
		Status:          breakdown.Status,
		FactorScores:    make(map[domain.ScoreFactor]decimal.Decimal, len(breakdown.Factors)),
		FactorStatuses:  make(map[domain.ScoreFactor]domain.FactorStatus, len(breakdown.Factors)),
		SuggestionCount: len(breakdown.Suggestions),
	}
	for f, r := range breakdown.Factors {
		result.FactorScores[f] = r.Score
		result.FactorStatuses[f] = r.Details.Status
	}
	return result
}

// CalculateComparison computes the deltas between an alternative and the base.
// Only factors whose score moved are recorded.
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.TotalDiffFromBase = scenario.TotalScore - base.TotalScore
	scenario.StatusChanged = scenario.Status != base.Status

	scenario.FactorDiffs = make(map[domain.ScoreFactor]decimal.Decimal)
	for _, f := range domain.AllFactors {
		diff := scenario.FactorScores[f].Sub(base.FactorScores[f])
		if !diff.IsZero() {
			scenario.FactorDiffs[f] = diff
		}
	}
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 || compSet.BaseResult == nil {
		return recommendations
	}
	base := compSet.BaseResult

	// Best total score
	best := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalScore > best.TotalScore {
			best = alt
		}
	}

	if best == base {
		recommendations = append(recommendations,
			fmt.Sprintf("No alternative improves on the base score of %d", base.TotalScore))
		return recommendations
	}
	recommendations = append(recommendations,
		fmt.Sprintf("Best Overall: %s raises the score by %d points to %d", best.ScenarioName, best.TotalDiffFromBase, best.TotalScore))

	// Biggest single factor gain
	var gainScenario string
	var gainFactor domain.ScoreFactor
	gain := decimal.Zero
	for _, alt := range compSet.AlternativeResults {
		for _, f := range domain.AllFactors {
			if d, ok := alt.FactorDiffs[f]; ok && d.GreaterThan(gain) {
				gain, gainFactor, gainScenario = d, f, alt.ScenarioName
			}
		}
	}
	if gain.IsPositive() {
		recommendations = append(recommendations,
			fmt.Sprintf("Biggest Factor Gain: %s improves %s by %s points", gainScenario, output.FactorLabel(gainFactor), gain.StringFixed(1)))
	}

	// Status upgrades
	for _, alt := range compSet.AlternativeResults {
		if alt.StatusChanged && alt.TotalDiffFromBase > 0 {
			recommendations = append(recommendations,
				fmt.Sprintf("Status Upgrade: %s moves the plan from %s to %s", alt.ScenarioName, output.OverallLabel(base.Status), output.OverallLabel(alt.Status)))
		}
	}

	return recommendations
}
