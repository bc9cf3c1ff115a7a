package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// tierStatus classifies a value against a benchmark table
func tierStatus(value decimal.Decimal, rule domain.FactorRule) domain.FactorStatus {
	b := rule.Benchmarks
	if rule.Inverted {
		switch {
		case value.LessThanOrEqual(b.Excellent):
			return domain.StatusExcellent
		case value.LessThanOrEqual(b.Good):
			return domain.StatusGood
		case value.LessThanOrEqual(b.Fair):
			return domain.StatusFair
		case value.LessThanOrEqual(b.Poor):
			return domain.StatusPoor
		}
		return domain.StatusCritical
	}
	switch {
	case value.GreaterThanOrEqual(b.Excellent):
		return domain.StatusExcellent
	case value.GreaterThanOrEqual(b.Good):
		return domain.StatusGood
	case value.GreaterThanOrEqual(b.Fair):
		return domain.StatusFair
	case value.GreaterThanOrEqual(b.Poor):
		return domain.StatusPoor
	}
	return domain.StatusCritical
}

// tierScore awards a share of the factor weight by tier. Below the poor
// threshold the poor share is scaled down proportionally; inverted factors
// score nothing past poor.
func tierScore(value decimal.Decimal, rule domain.FactorRule, fractions domain.TierFractions) (decimal.Decimal, domain.FactorStatus) {
	status := tierStatus(value, rule)
	w := rule.Weight

	var score decimal.Decimal
	switch status {
	case domain.StatusExcellent:
		score = w.Mul(fractions.Excellent)
	case domain.StatusGood:
		score = w.Mul(fractions.Good)
	case domain.StatusFair:
		score = w.Mul(fractions.Fair)
	case domain.StatusPoor:
		score = w.Mul(fractions.Poor)
	default:
		if !rule.Inverted && rule.Benchmarks.Poor.IsPositive() && value.IsPositive() {
			score = w.Mul(fractions.Poor).Mul(value).Div(rule.Benchmarks.Poor)
		}
	}
	return clamp(score, zero, w), status
}

// percentScore maps a 0-100 efficiency onto the factor weight
func percentScore(percent decimal.Decimal, rule domain.FactorRule) (decimal.Decimal, domain.FactorStatus) {
	p := clamp(percent, zero, hundred)
	return rule.Weight.Mul(p).Div(hundred), tierStatus(p, rule)
}

// goodTierScore is the score a factor earns on reaching the good tier
func goodTierScore(f domain.ScoreFactor, rule domain.FactorRule, fractions domain.TierFractions) decimal.Decimal {
	switch f {
	case domain.FactorRiskAlignment, domain.FactorTaxEfficiency:
		return rule.Weight.Mul(rule.Benchmarks.Good).Div(hundred)
	}
	return rule.Weight.Mul(fractions.Good)
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// ratio divides a by b, reporting false instead of panicking on a zero divisor
func ratio(a, b decimal.Decimal) (decimal.Decimal, bool) {
	if b.IsZero() {
		return zero, false
	}
	return a.Div(b), true
}
