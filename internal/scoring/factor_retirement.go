package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

// retirementReadiness compares accumulated savings against an age-based
// multiple of annual income
func (s *Scorer) retirementReadiness(record domain.RawInputRecord) (domain.FactorResult, error) {
	rule := s.rule(domain.FactorRetirementReadiness)

	var monthly decimal.Decimal
	source := "employment"
	if pension, ok := s.resolver.Number(record, fields.Sum(), fields.PensionIncome); ok && pension.IsPositive() {
		monthly = pension
		source = "pension"
	} else {
		monthly = s.monthlyIncome(record).Total()
	}

	if !monthly.IsPositive() {
		return result(domain.StatusUnknown, zero,
			"Retirement readiness needs your income. Add your monthly salary in step 2 (income)."), nil
	}

	multiplier := one
	age, hasAge := s.age(record)
	if hasAge {
		rr := s.rules.Retirement
		byAge := decimal.NewFromInt(int64(age - rr.MultiplierBaseAge)).Div(rr.MultiplierDivisor)
		multiplier = decimal.Max(one, byAge)
	}

	annual := monthly.Mul(twelve)
	target := annual.Mul(multiplier)
	savings := s.totalSavings(record)
	savingsRatio, _ := ratio(savings, target)

	score, status := tierScore(savingsRatio, rule, s.rules.TierFractions)
	gap := target.Mul(rule.Benchmarks.Good).Sub(savings)
	if gap.IsNegative() {
		gap = zero
	}

	res := result(status, score, "")
	m := res.Details.Metrics
	m["monthlyIncome"] = monthly
	m["annualIncome"] = annual
	m["currentSavings"] = savings
	m["targetMultiplier"] = multiplier
	m["targetSavings"] = target
	m["savingsRatio"] = savingsRatio
	m["savingsGap"] = gap
	res.Details.Labels["incomeSource"] = source
	if source == "pension" {
		res.Details.Labels["retired"] = "true"
	}
	if !hasAge {
		res.Details.Labels["ageAssumed"] = "true"
	}
	return res, nil
}
