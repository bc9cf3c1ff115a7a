package scoring

import (
	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

// savingsRate scores monthly contributions as a share of monthly income.
// Contributions are the pension and training fund rates applied to income
// plus any additional monthly savings. Each rate the record omits falls back
// to its default on its own.
func (s *Scorer) savingsRate(record domain.RawInputRecord) (domain.FactorResult, error) {
	rule := s.rule(domain.FactorSavingsRate)
	in := s.monthlyIncome(record)
	total := in.Total()

	if !total.IsPositive() {
		return result(domain.StatusMissingIncomeData, zero,
			"No income found. Add your monthly salary in step 2 (income) to calculate your savings rate."), nil
	}

	pension, training, pensionFound, trainingFound := s.contributionRates(record)
	if !pensionFound {
		pension = s.rules.DefaultRates.Pension
	}
	if !trainingFound {
		training = s.rules.DefaultRates.TrainingFund
	}
	additional, _ := s.resolver.Number(record, fields.Sum(), fields.AdditionalMonthlySavings)

	contributions := total.Mul(pension.Add(training)).Div(hundred).Add(additional)
	if !contributions.IsPositive() {
		res := result(domain.StatusMissingContributionData, zero,
			"No contributions found. Add pension and training fund rates in step 3 (savings).")
		res.Details.Metrics["monthlyIncome"] = total
		return res, nil
	}

	rate := clamp(contributions.Mul(hundred).Div(total), zero, hundred)
	score, status := tierScore(rate, rule, s.rules.TierFractions)

	target := s.rules.Retirement.SavingsTargetRate
	needed := total.Mul(target).Div(hundred).Sub(contributions)
	if needed.IsNegative() {
		needed = zero
	}

	res := result(status, score, "")
	m := res.Details.Metrics
	m["monthlyIncome"] = total
	m["salary"] = in.Salary
	m["rsuMonthly"] = in.RSU
	m["pensionRate"] = pension
	m["trainingFundRate"] = training
	m["additionalSavings"] = additional
	m["monthlyContributions"] = contributions
	m["savingsRate"] = rate
	m["targetRate"] = target
	m["requiredIncrease"] = needed
	switch {
	case !pensionFound && !trainingFound:
		res.Details.Labels["contributionRates"] = "assumed"
	case !pensionFound:
		res.Details.Labels["contributionRates"] = "pensionAssumed"
	case !trainingFound:
		res.Details.Labels["contributionRates"] = "trainingFundAssumed"
	}
	if in.RSUFrequency != "" {
		res.Details.Labels["rsuFrequency"] = in.RSUFrequency
	}
	return res, nil
}
