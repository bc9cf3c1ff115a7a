package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// ErrInvalidRules is wrapped by every rules validation failure
var ErrInvalidRules = errors.New("invalid scoring rules")

// DefaultRules returns a fresh copy of the embedded scoring rules
func DefaultRules() *domain.ScoringRules {
	rules, err := ParseRules(defaultRulesYAML, nil)
	if err != nil {
		panic(fmt.Sprintf("embedded scoring rules are invalid: %v", err))
	}
	return rules
}

// ParseRules decodes YAML rules on top of base. Sections missing from data
// keep their base values. A nil base decodes onto an empty rules set.
func ParseRules(data []byte, base *domain.ScoringRules) (*domain.ScoringRules, error) {
	rules := &domain.ScoringRules{}
	if base != nil {
		rules = cloneRules(base)
	}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse scoring rules: %w", err)
	}
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// LoadRules reads an override file and merges it over the embedded defaults
func LoadRules(filename string) (*domain.ScoringRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}
	rules, err := ParseRules(data, DefaultRules())
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", filename, err)
	}
	return rules, nil
}

// LoadRulesOrDefault loads an override file, falling back to the defaults
// when filename is empty or the file cannot be used
func LoadRulesOrDefault(filename string, warn func(format string, args ...any)) *domain.ScoringRules {
	if filename == "" {
		return DefaultRules()
	}
	rules, err := LoadRules(filename)
	if err != nil {
		if warn != nil {
			warn("using default scoring rules: %v", err)
		}
		return DefaultRules()
	}
	return rules
}

// ValidateRules checks weights, benchmark ordering and the auxiliary tables
func ValidateRules(rules *domain.ScoringRules) error {
	if rules == nil {
		return fmt.Errorf("%w: rules are nil", ErrInvalidRules)
	}

	for _, f := range domain.AllFactors {
		rule, ok := rules.Factors[f]
		if !ok {
			return fmt.Errorf("%w: factor %s is not configured", ErrInvalidRules, f)
		}
		if rule.Weight.IsNegative() {
			return fmt.Errorf("%w: factor %s has negative weight", ErrInvalidRules, f)
		}
		if err := validateBenchmarks(rule); err != nil {
			return fmt.Errorf("%w: factor %s: %v", ErrInvalidRules, f, err)
		}
	}
	if total := rules.TotalWeight(); !total.Equal(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: factor weights sum to %s, expected 100", ErrInvalidRules, total)
	}

	tf := rules.TierFractions
	if !(tf.Poor.LessThan(tf.Fair) && tf.Fair.LessThan(tf.Good) && tf.Good.LessThanOrEqual(tf.Excellent)) {
		return fmt.Errorf("%w: tier fractions must ascend from poor to excellent", ErrInvalidRules)
	}
	if tf.Excellent.GreaterThan(decimal.NewFromInt(1)) || tf.Poor.IsNegative() {
		return fmt.Errorf("%w: tier fractions must lie within 0 and 1", ErrInvalidRules)
	}

	ot := rules.OverallThresholds
	if !(ot.NeedsWork < ot.Good && ot.Good < ot.Excellent && ot.Excellent <= 100) {
		return fmt.Errorf("%w: overall thresholds must ascend and stay within 100", ErrInvalidRules)
	}

	if len(rules.PeerBands) == 0 {
		return fmt.Errorf("%w: at least one peer band is required", ErrInvalidRules)
	}
	for _, b := range rules.PeerBands {
		if b.AverageScore > b.TopQuartile {
			return fmt.Errorf("%w: peer band %s average exceeds top quartile", ErrInvalidRules, b.Label)
		}
	}

	ef := rules.EmergencyFund
	if !ef.BaseTargetMonths.IsPositive() || ef.ElevatedTargetMonths.LessThan(ef.BaseTargetMonths) || ef.HighTargetMonths.LessThan(ef.ElevatedTargetMonths) {
		return fmt.Errorf("%w: emergency fund target months must be positive and non-decreasing", ErrInvalidRules)
	}

	if rules.MaxSuggestions < 0 {
		return fmt.Errorf("%w: max suggestions cannot be negative", ErrInvalidRules)
	}
	if rules.Retirement.MultiplierDivisor.IsZero() {
		return fmt.Errorf("%w: retirement multiplier divisor cannot be zero", ErrInvalidRules)
	}
	return nil
}

func validateBenchmarks(rule domain.FactorRule) error {
	b := rule.Benchmarks
	if rule.Inverted {
		if !(b.Excellent.LessThan(b.Good) && b.Good.LessThan(b.Fair) && b.Fair.LessThan(b.Poor)) {
			return fmt.Errorf("inverted benchmarks must ascend from excellent to poor")
		}
		return nil
	}
	if !(b.Poor.LessThan(b.Fair) && b.Fair.LessThan(b.Good) && b.Good.LessThan(b.Excellent)) {
		return fmt.Errorf("benchmarks must ascend from poor to excellent")
	}
	if !b.Poor.IsPositive() {
		return fmt.Errorf("poor benchmark must be positive")
	}
	return nil
}

// cloneRules deep-copies the map and slice sections so merges never touch base
func cloneRules(r *domain.ScoringRules) *domain.ScoringRules {
	out := *r
	out.Factors = make(map[domain.ScoreFactor]domain.FactorRule, len(r.Factors))
	for k, v := range r.Factors {
		out.Factors[k] = v
	}
	out.OptimalTaxAdvantaged = cloneDecimalMap(r.OptimalTaxAdvantaged)
	out.FlatTaxRates = cloneDecimalMap(r.FlatTaxRates)
	out.RSUVestsPerYear = cloneDecimalMap(r.RSUVestsPerYear)
	out.PeerBands = append([]domain.PeerBand(nil), r.PeerBands...)
	return &out
}

func cloneDecimalMap(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	if m == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
