package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/calculation"
	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

// taxEfficiency compares the tax-advantaged contribution rate with the
// country's optimal rate. Additional income dilutes the effective rate since
// contributions only apply to salary.
func (s *Scorer) taxEfficiency(record domain.RawInputRecord) (domain.FactorResult, error) {
	rule := s.rule(domain.FactorTaxEfficiency)

	salary, ok := s.resolver.Number(record, fields.Sum(), fields.Salary)
	if !ok || !salary.IsPositive() {
		return result(domain.StatusMissingIncomeData, zero,
			"Tax efficiency needs your salary. Add it in step 2 (income)."), nil
	}

	pension, training, _, _ := s.contributionRates(record)
	current := pension.Add(training)
	if !current.IsPositive() {
		res := result(domain.StatusMissingContributionData, zero,
			"No tax-advantaged contributions found. Add pension and training fund rates in step 3 (savings).")
		res.Details.Metrics["salary"] = salary
		return res, nil
	}

	country := s.resolver.Country(record)
	optimal, ok := s.rules.OptimalTaxAdvantaged[country]
	if !ok {
		optimal = s.rules.OptimalTaxAdvantaged[s.rules.DefaultCountry]
	}

	res := result("", zero, "")
	m := res.Details.Metrics

	effective := current
	in := s.monthlyIncome(record)
	if additional := in.Additional(); additional.IsPositive() {
		effective = salary.Mul(current).Div(salary.Add(additional))
		tax, source := s.additionalIncomeTax(in, salary, country)
		m["additionalIncome"] = tax.GrossMonthly
		m["additionalIncomeTax"] = tax.TaxMonthly
		m["additionalIncomeNet"] = tax.NetMonthly
		m["additionalTaxRate"] = tax.EffectiveRate.Mul(hundred)
		res.Details.Labels["additionalTaxSource"] = source
	}

	if s.netSalary != nil {
		if net, err := s.netSalary.NetSalary(salary, country); err == nil {
			m["salaryTaxRate"] = net.TaxRate.Mul(hundred)
			m["netSalary"] = net.NetSalary
		} else {
			s.logger.Debugf("scoring: no salary tax rate for %s: %v", country, err)
		}
	}

	efficiency := zero
	if optimal.IsPositive() {
		efficiency = decimal.Min(hundred, effective.Div(optimal).Mul(hundred))
	}
	score, status := percentScore(efficiency, rule)

	res.Score = score
	res.Details.Status = status
	m["salary"] = salary
	m["pensionRate"] = pension
	m["trainingFundRate"] = training
	m["contributionRate"] = current
	m["effectiveRate"] = effective
	m["optimalRate"] = optimal
	m["efficiencyScore"] = efficiency
	res.Details.Labels["country"] = country
	return res, nil
}

// additionalIncomeTax asks the collaborator for the after-tax view of
// additional income and falls back to flat percentages from the rules
func (s *Scorer) additionalIncomeTax(in income, salary decimal.Decimal, country string) (calculation.AdditionalIncomeTax, string) {
	sources := calculation.AdditionalIncome{
		BaseMonthlySalary: salary,
		Bonus:             in.Bonus,
		RSU:               in.RSU,
		Freelance:         in.Freelance,
		Rental:            in.Rental,
		Dividend:          in.Dividend,
	}
	if s.additionalTax != nil {
		tax, err := s.additionalTax.AdditionalIncomeTax(sources, country)
		if err == nil {
			return tax, "calculator"
		}
		s.logger.Debugf("scoring: additional income tax for %s unavailable, using flat rates: %v", country, err)
	}

	rates := s.rules.AdditionalIncomeTaxRates
	bySource := map[string]decimal.Decimal{
		"bonus":     sources.Bonus.Mul(rates.Bonus),
		"rsu":       sources.RSU.Mul(rates.RSU),
		"freelance": sources.Freelance.Mul(rates.Freelance),
		"rental":    sources.Rental.Mul(rates.Rental),
		"dividend":  sources.Dividend.Mul(rates.Dividend),
	}
	total := zero
	for _, v := range bySource {
		total = total.Add(v)
	}
	gross := sources.Total()
	tax := calculation.AdditionalIncomeTax{
		GrossMonthly: gross,
		TaxMonthly:   total,
		NetMonthly:   gross.Sub(total),
		BySource:     bySource,
	}
	if r, ok := ratio(total, gross); ok {
		tax.EffectiveRate = r
	}
	return tax, "flat"
}
