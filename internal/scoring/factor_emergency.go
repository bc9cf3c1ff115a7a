package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

// emergencyFund scores months of expenses covered by the emergency fund.
// The good-tier target rises with the debt-to-income ratio.
func (s *Scorer) emergencyFund(record domain.RawInputRecord) (domain.FactorResult, error) {
	rule := s.rule(domain.FactorEmergencyFund)
	ef := s.rules.EmergencyFund

	fund, hasFund := s.resolver.Number(record, fields.Sum(), fields.EmergencyFund)
	in := s.monthlyIncome(record)
	expenses, source, hasExpenses := s.monthlyExpenses(record, in.Total())

	if !hasFund {
		res := result(domain.StatusUnknown, zero, "No emergency fund found. Add it in step 4 (savings).")
		if hasExpenses {
			res.Details.Metrics["monthlyExpenses"] = expenses
		}
		return res, nil
	}

	if !hasExpenses {
		if !fund.IsPositive() {
			return result(domain.StatusUnknown, zero, "Add your monthly expenses or income to evaluate your emergency fund."), nil
		}
		res := result(domain.StatusUnknown, rule.Weight.Mul(ef.PartialCreditShare),
			"Monthly expenses unknown; partial credit awarded for holding an emergency fund.")
		res.Details.Metrics["emergencyFund"] = fund
		res.Details.Labels["partialCredit"] = "true"
		return res, nil
	}

	target := ef.BaseTargetMonths
	debtRatio := zero
	if debt, ok := s.debtPayments(record); ok {
		if r, ok := ratio(debt, in.Total()); ok {
			debtRatio = r
		}
	}
	switch {
	case debtRatio.GreaterThan(ef.HighDebtRatio):
		target = ef.HighTargetMonths
	case debtRatio.GreaterThan(ef.ElevatedDebtRatio):
		target = ef.ElevatedTargetMonths
	}

	months := zero
	if r, ok := ratio(fund, expenses); ok {
		months = r
	}

	dynamic := rule
	dynamic.Benchmarks.Good = target
	if dynamic.Benchmarks.Excellent.LessThan(target) {
		dynamic.Benchmarks.Excellent = target
	}
	score, status := tierScore(months, dynamic, s.rules.TierFractions)

	gap := target.Mul(expenses).Sub(fund)
	if gap.IsNegative() {
		gap = zero
	}

	res := result(status, score, "")
	m := res.Details.Metrics
	m["emergencyFund"] = fund
	m["monthlyExpenses"] = expenses
	m["monthsCovered"] = months
	m["targetMonths"] = target
	m["debtToIncome"] = debtRatio
	m["fundGap"] = gap
	res.Details.Labels["expenseSource"] = source
	return res, nil
}

// monthlyExpenses prefers the expenses object, then a flat expense field,
// then an estimate from income
func (s *Scorer) monthlyExpenses(record domain.RawInputRecord, monthlyIncome decimal.Decimal) (decimal.Decimal, string, bool) {
	if v, ok := fields.ExpenseTotal(record); ok && v.IsPositive() {
		return v, "expenses", true
	}
	if v, ok := s.resolver.Number(record, fields.Sum(), fields.MonthlyExpenses); ok && v.IsPositive() {
		return v, "field", true
	}
	if monthlyIncome.IsPositive() {
		return monthlyIncome.Mul(s.rules.EmergencyFund.ExpenseIncomeShare), "estimated", true
	}
	return zero, "", false
}
