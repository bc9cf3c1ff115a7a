package domain

import (
	"github.com/shopspring/decimal"
)

// ScoreFactor identifies one of the eight independently weighted scoring categories
type ScoreFactor string

const (
	FactorSavingsRate         ScoreFactor = "savingsRate"
	FactorRetirementReadiness ScoreFactor = "retirementReadiness"
	FactorTimeHorizon         ScoreFactor = "timeHorizon"
	FactorRiskAlignment       ScoreFactor = "riskAlignment"
	FactorDiversification     ScoreFactor = "diversification"
	FactorTaxEfficiency       ScoreFactor = "taxEfficiency"
	FactorEmergencyFund       ScoreFactor = "emergencyFund"
	FactorDebtManagement      ScoreFactor = "debtManagement"
)

// AllFactors lists the factors in their canonical evaluation order
var AllFactors = []ScoreFactor{
	FactorSavingsRate,
	FactorRetirementReadiness,
	FactorTimeHorizon,
	FactorRiskAlignment,
	FactorDiversification,
	FactorTaxEfficiency,
	FactorEmergencyFund,
	FactorDebtManagement,
}

// FactorStatus classifies a factor outcome. The five performance tiers are
// classifications, the remaining values describe missing data or failures.
type FactorStatus string

const (
	StatusCritical                FactorStatus = "critical"
	StatusPoor                    FactorStatus = "poor"
	StatusFair                    FactorStatus = "fair"
	StatusGood                    FactorStatus = "good"
	StatusExcellent               FactorStatus = "excellent"
	StatusMissingIncomeData       FactorStatus = "missing_income_data"
	StatusMissingContributionData FactorStatus = "missing_contribution_data"
	StatusNoData                  FactorStatus = "no_data"
	StatusUnknown                 FactorStatus = "unknown"
	StatusError                   FactorStatus = "error"
)

// IsTier reports whether the status is one of the five performance tiers
func (s FactorStatus) IsTier() bool {
	switch s {
	case StatusCritical, StatusPoor, StatusFair, StatusGood, StatusExcellent:
		return true
	}
	return false
}

// IsMissingData reports whether the status signals insufficient input
func (s FactorStatus) IsMissingData() bool {
	switch s {
	case StatusMissingIncomeData, StatusMissingContributionData, StatusNoData, StatusUnknown:
		return true
	}
	return false
}

// FactorDetails carries the status plus factor-specific diagnostics.
// Metrics hold numeric diagnostics (income, ratios, targets) keyed by name;
// Labels hold textual ones (sources, assumptions).
type FactorDetails struct {
	Status  FactorStatus               `json:"status" yaml:"status"`
	Message string                     `json:"message,omitempty" yaml:"message,omitempty"`
	Metrics map[string]decimal.Decimal `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Labels  map[string]string          `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Metric returns a named metric and whether it was recorded
func (d FactorDetails) Metric(name string) (decimal.Decimal, bool) {
	v, ok := d.Metrics[name]
	return v, ok
}

// HasMetrics reports whether every named metric was recorded
func (d FactorDetails) HasMetrics(names ...string) bool {
	for _, n := range names {
		if _, ok := d.Metrics[n]; !ok {
			return false
		}
	}
	return true
}

// FactorResult is the outcome of a single factor evaluation.
// Score is always within [0, Weight].
type FactorResult struct {
	Factor  ScoreFactor     `json:"factor" yaml:"factor"`
	Score   decimal.Decimal `json:"score" yaml:"score"`
	Weight  decimal.Decimal `json:"weight" yaml:"weight"`
	Details FactorDetails   `json:"details" yaml:"details"`
}

// OverallStatus is the composite classification of a ScoreBreakdown
type OverallStatus string

const (
	OverallExcellent OverallStatus = "excellent"
	OverallGood      OverallStatus = "good"
	OverallNeedsWork OverallStatus = "needsWork"
	OverallCritical  OverallStatus = "critical"
	OverallError     OverallStatus = "error"
)

// SuggestionPriority ranks improvement suggestions
type SuggestionPriority string

const (
	PriorityHigh   SuggestionPriority = "high"
	PriorityMedium SuggestionPriority = "medium"
)

// ImprovementSuggestion is a derived, actionable recommendation for a weak factor
type ImprovementSuggestion struct {
	Priority SuggestionPriority `json:"priority" yaml:"priority"`
	Category ScoreFactor        `json:"category" yaml:"category"`
	Issue    string             `json:"issue" yaml:"issue"`
	Action   string             `json:"action" yaml:"action"`
	Impact   string             `json:"impact" yaml:"impact"`
}

// PeerComparison places a score against a static age-band benchmark
type PeerComparison struct {
	AgeGroup    string `json:"ageGroup" yaml:"age_group"`
	YourScore   int    `json:"yourScore" yaml:"your_score"`
	PeerAverage int    `json:"peerAverage" yaml:"peer_average"`
	TopQuartile int    `json:"topQuartile" yaml:"top_quartile"`
	Percentile  int    `json:"percentile" yaml:"percentile"`
}

// ScoreBreakdown is the composite result of one scoring invocation
type ScoreBreakdown struct {
	TotalScore     int                          `json:"totalScore" yaml:"total_score"`
	Status         OverallStatus                `json:"status" yaml:"status"`
	Factors        map[ScoreFactor]FactorResult `json:"factors" yaml:"factors"`
	Suggestions    []ImprovementSuggestion      `json:"suggestions" yaml:"suggestions"`
	PeerComparison *PeerComparison              `json:"peerComparison" yaml:"peer_comparison"`
}

// OrderedFactors returns the factor results in canonical order, skipping
// factors absent from the breakdown
func (b *ScoreBreakdown) OrderedFactors() []FactorResult {
	out := make([]FactorResult, 0, len(b.Factors))
	for _, f := range AllFactors {
		if r, ok := b.Factors[f]; ok {
			out = append(out, r)
		}
	}
	return out
}
