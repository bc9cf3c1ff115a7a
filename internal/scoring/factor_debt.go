package scoring

import (
	"github.com/rgehrsitz/finhealth/internal/domain"
)

// debtManagement scores the debt-to-income ratio; lower is better.
// Plans without income get the full score with status unknown.
func (s *Scorer) debtManagement(record domain.RawInputRecord) (domain.FactorResult, error) {
	rule := s.rule(domain.FactorDebtManagement)
	income := s.monthlyIncome(record).Total()
	debt, hasDebt := s.debtPayments(record)

	if !income.IsPositive() {
		res := result(domain.StatusUnknown, rule.Weight, "No income found; debt load cannot be compared with income.")
		res.Details.Labels["benefitOfDoubt"] = "true"
		if hasDebt {
			res.Details.Metrics["monthlyDebtPayments"] = debt
		}
		return res, nil
	}

	dti, _ := ratio(debt, income)
	score, status := tierScore(dti, rule, s.rules.TierFractions)

	target := income.Mul(rule.Benchmarks.Good)
	reduction := debt.Sub(target)
	if reduction.IsNegative() {
		reduction = zero
	}

	res := result(status, score, "")
	m := res.Details.Metrics
	m["monthlyDebtPayments"] = debt
	m["monthlyIncome"] = income
	m["debtToIncome"] = dti
	m["requiredReduction"] = reduction
	if !hasDebt {
		res.Details.Labels["debtRecorded"] = "false"
	}
	return res, nil
}
