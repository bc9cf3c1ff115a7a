package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

// timeHorizon scores the years left until retirement
func (s *Scorer) timeHorizon(record domain.RawInputRecord) (domain.FactorResult, error) {
	rule := s.rule(domain.FactorTimeHorizon)

	age, ok := s.age(record)
	if !ok {
		return result(domain.StatusUnknown, zero, "Add your current age in step 1 to evaluate your time horizon."), nil
	}

	retireAge := s.rules.Retirement.DefaultRetirementAge
	assumed := true
	if v, ok := s.resolver.Number(record, fields.Options{}, fields.RetirementAge); ok && v.IsPositive() {
		retireAge = int(v.IntPart())
		assumed = false
	}

	years := retireAge - age
	if years < 0 {
		years = 0
	}
	score, status := tierScore(decimal.NewFromInt(int64(years)), rule, s.rules.TierFractions)

	res := result(status, score, "")
	m := res.Details.Metrics
	m["currentAge"] = decimal.NewFromInt(int64(age))
	m["retirementAge"] = decimal.NewFromInt(int64(retireAge))
	m["yearsToRetirement"] = decimal.NewFromInt(int64(years))
	if assumed {
		res.Details.Labels["retirementAgeAssumed"] = "true"
	}
	return res, nil
}
