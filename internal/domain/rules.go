package domain

import (
	"github.com/shopspring/decimal"
)

// ScoringRules contains every tunable table used by the scorer.
// Defaults ship embedded with the config package; an override file can
// replace any section.
type ScoringRules struct {
	Metadata                 RulesMetadata              `yaml:"metadata" json:"metadata"`
	Factors                  map[ScoreFactor]FactorRule `yaml:"factors" json:"factors"`
	TierFractions            TierFractions              `yaml:"tier_fractions" json:"tier_fractions"`
	OverallThresholds        OverallThresholds          `yaml:"overall_thresholds" json:"overall_thresholds"`
	DefaultRates             DefaultContributionRates   `yaml:"default_rates" json:"default_rates"`
	DefaultCountry           string                     `yaml:"default_country" json:"default_country"`
	OptimalTaxAdvantaged     map[string]decimal.Decimal `yaml:"optimal_tax_advantaged_rates" json:"optimal_tax_advantaged_rates"`
	FlatTaxRates             map[string]decimal.Decimal `yaml:"flat_tax_rates" json:"flat_tax_rates"`
	AdditionalIncomeTaxRates AdditionalIncomeTaxRates   `yaml:"additional_income_tax_rates" json:"additional_income_tax_rates"`
	RSUVestsPerYear          map[string]decimal.Decimal `yaml:"rsu_vests_per_year" json:"rsu_vests_per_year"`
	Risk                     RiskRules                  `yaml:"risk" json:"risk"`
	EmergencyFund            EmergencyFundRules         `yaml:"emergency_fund" json:"emergency_fund"`
	PeerBands                []PeerBand                 `yaml:"peer_bands" json:"peer_bands"`
	MaxSuggestions           int                        `yaml:"max_suggestions" json:"max_suggestions"`
	Retirement               RetirementRules            `yaml:"retirement" json:"retirement"`
}

// RulesMetadata describes where a rules set came from
type RulesMetadata struct {
	Version     string `yaml:"version" json:"version"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
}

// Benchmarks are four ascending thresholds: poor < fair < good < excellent.
// For inverted factors (lower is better) the thresholds are upper bounds and
// ascend in the opposite direction: excellent < good < fair < poor.
type Benchmarks struct {
	Excellent decimal.Decimal `yaml:"excellent" json:"excellent"`
	Good      decimal.Decimal `yaml:"good" json:"good"`
	Fair      decimal.Decimal `yaml:"fair" json:"fair"`
	Poor      decimal.Decimal `yaml:"poor" json:"poor"`
}

// FactorRule holds the weight and benchmark table for one factor
type FactorRule struct {
	Weight     decimal.Decimal `yaml:"weight" json:"weight"`
	Benchmarks Benchmarks      `yaml:"benchmarks" json:"benchmarks"`
	Inverted   bool            `yaml:"inverted,omitempty" json:"inverted,omitempty"`
}

// TierFractions are the share of a factor's weight awarded per tier
type TierFractions struct {
	Excellent decimal.Decimal `yaml:"excellent" json:"excellent"`
	Good      decimal.Decimal `yaml:"good" json:"good"`
	Fair      decimal.Decimal `yaml:"fair" json:"fair"`
	Poor      decimal.Decimal `yaml:"poor" json:"poor"`
}

// OverallThresholds map a total score onto the composite status
type OverallThresholds struct {
	Excellent int `yaml:"excellent" json:"excellent"`
	Good      int `yaml:"good" json:"good"`
	NeedsWork int `yaml:"needs_work" json:"needs_work"`
}

// DefaultContributionRates apply when a plan carries no contribution rates at all
type DefaultContributionRates struct {
	Pension      decimal.Decimal `yaml:"pension" json:"pension"`
	TrainingFund decimal.Decimal `yaml:"training_fund" json:"training_fund"`
}

// AdditionalIncomeTaxRates are the simplified flat percentages used when no
// additional-income tax calculator is wired
type AdditionalIncomeTaxRates struct {
	Bonus     decimal.Decimal `yaml:"bonus" json:"bonus"`
	RSU       decimal.Decimal `yaml:"rsu" json:"rsu"`
	Freelance decimal.Decimal `yaml:"freelance" json:"freelance"`
	Rental    decimal.Decimal `yaml:"rental" json:"rental"`
	Dividend  decimal.Decimal `yaml:"dividend" json:"dividend"`
}

// EmergencyFundRules control the dynamic months-of-expenses target
type EmergencyFundRules struct {
	BaseTargetMonths     decimal.Decimal `yaml:"base_target_months" json:"base_target_months"`
	ElevatedTargetMonths decimal.Decimal `yaml:"elevated_target_months" json:"elevated_target_months"`
	HighTargetMonths     decimal.Decimal `yaml:"high_target_months" json:"high_target_months"`
	ElevatedDebtRatio    decimal.Decimal `yaml:"elevated_debt_ratio" json:"elevated_debt_ratio"`
	HighDebtRatio        decimal.Decimal `yaml:"high_debt_ratio" json:"high_debt_ratio"`
	ExpenseIncomeShare   decimal.Decimal `yaml:"expense_income_share" json:"expense_income_share"`
	PartialCreditShare   decimal.Decimal `yaml:"partial_credit_share" json:"partial_credit_share"`
}

// RetirementRules hold age assumptions used by the readiness factors
type RetirementRules struct {
	DefaultRetirementAge int             `yaml:"default_retirement_age" json:"default_retirement_age"`
	MultiplierBaseAge    int             `yaml:"multiplier_base_age" json:"multiplier_base_age"`
	MultiplierDivisor    decimal.Decimal `yaml:"multiplier_divisor" json:"multiplier_divisor"`
	SavingsTargetRate    decimal.Decimal `yaml:"savings_target_rate" json:"savings_target_rate"`
	MinStockPercentage   decimal.Decimal `yaml:"min_stock_percentage" json:"min_stock_percentage"`
}

// RiskRules penalize allocations that contradict the stated risk tolerance
type RiskRules struct {
	ConservativeMaxStock decimal.Decimal `yaml:"conservative_max_stock" json:"conservative_max_stock"`
	AggressiveMinStock   decimal.Decimal `yaml:"aggressive_min_stock" json:"aggressive_min_stock"`
	MismatchPenalty      decimal.Decimal `yaml:"mismatch_penalty" json:"mismatch_penalty"`
	MismatchCost         decimal.Decimal `yaml:"mismatch_cost" json:"mismatch_cost"`
}

// PeerBand is one row of the static peer benchmark table. MaxAge of zero
// means the band is open-ended.
type PeerBand struct {
	Label        string `yaml:"label" json:"label"`
	MinAge       int    `yaml:"min_age" json:"min_age"`
	MaxAge       int    `yaml:"max_age" json:"max_age"`
	AverageScore int    `yaml:"average_score" json:"average_score"`
	TopQuartile  int    `yaml:"top_quartile" json:"top_quartile"`
}

// Contains reports whether age falls inside the band
func (b PeerBand) Contains(age int) bool {
	if age < b.MinAge {
		return false
	}
	return b.MaxAge == 0 || age <= b.MaxAge
}

// Weight returns the configured weight for a factor, or zero
func (r *ScoringRules) Weight(f ScoreFactor) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return r.Factors[f].Weight
}

// TotalWeight sums the weights of all known factors
func (r *ScoringRules) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, f := range AllFactors {
		total = total.Add(r.Weight(f))
	}
	return total
}
