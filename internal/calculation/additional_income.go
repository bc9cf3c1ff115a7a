package calculation

import (
	"github.com/shopspring/decimal"
)

// AdditionalIncome groups non-salary income sources, all as MONTHLY amounts
type AdditionalIncome struct {
	BaseMonthlySalary decimal.Decimal `json:"baseMonthlySalary"`
	Bonus             decimal.Decimal `json:"bonus"`
	RSU               decimal.Decimal `json:"rsu"`
	Freelance         decimal.Decimal `json:"freelance"`
	Rental            decimal.Decimal `json:"rental"`
	Dividend          decimal.Decimal `json:"dividend"`
}

// Total returns the gross monthly sum of all additional sources
func (ai AdditionalIncome) Total() decimal.Decimal {
	return ai.Bonus.Add(ai.RSU).Add(ai.Freelance).Add(ai.Rental).Add(ai.Dividend)
}

// AdditionalIncomeTax is the after-tax view of additional income
type AdditionalIncomeTax struct {
	GrossMonthly  decimal.Decimal            `json:"grossMonthly"`
	TaxMonthly    decimal.Decimal            `json:"taxMonthly"`
	NetMonthly    decimal.Decimal            `json:"netMonthly"`
	EffectiveRate decimal.Decimal            `json:"effectiveRate"`
	BySource      map[string]decimal.Decimal `json:"bySource"`
}

// AdditionalIncomeTaxCalculator computes tax on bonus, RSU, freelance, rental and dividend income
type AdditionalIncomeTaxCalculator interface {
	AdditionalIncomeTax(income AdditionalIncome, country string) (AdditionalIncomeTax, error)
}

// capital gains and passive income rates by country
var passiveRates = map[string]struct{ capitalGains, rental, dividend decimal.Decimal }{
	"israel": {decimal.NewFromFloat(0.25), decimal.NewFromFloat(0.10), decimal.NewFromFloat(0.25)},
	"uk":     {decimal.NewFromFloat(0.20), decimal.NewFromFloat(0.20), decimal.NewFromFloat(0.0875)},
	"us":     {decimal.NewFromFloat(0.15), decimal.NewFromFloat(0.22), decimal.NewFromFloat(0.15)},
}

// AdditionalIncomeTax taxes bonus and freelance income at the salary's marginal
// rate, RSUs at the capital gains rate, and rental/dividends at flat rates
func (btc *BracketTaxCalculator) AdditionalIncomeTax(income AdditionalIncome, country string) (AdditionalIncomeTax, error) {
	c := NormalizeCountry(country)
	marginal, err := btc.MarginalRate(income.BaseMonthlySalary.Add(income.Bonus), c)
	if err != nil {
		return AdditionalIncomeTax{}, err
	}
	passive := passiveRates[c]

	bySource := map[string]decimal.Decimal{
		"bonus":     income.Bonus.Mul(marginal),
		"rsu":       income.RSU.Mul(passive.capitalGains),
		"freelance": income.Freelance.Mul(marginal),
		"rental":    income.Rental.Mul(passive.rental),
		"dividend":  income.Dividend.Mul(passive.dividend),
	}

	tax := decimal.Zero
	for _, v := range bySource {
		tax = tax.Add(v)
	}
	gross := income.Total()

	result := AdditionalIncomeTax{
		GrossMonthly: gross,
		TaxMonthly:   tax,
		NetMonthly:   gross.Sub(tax),
		BySource:     bySource,
	}
	if gross.IsPositive() {
		result.EffectiveRate = tax.Div(gross)
	}
	return result, nil
}
