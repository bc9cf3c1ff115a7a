package calculation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. All amounts are MONTHLY gross figures in local currency.
// 2. Brackets are 2024 levels held constant, single filer, no credits beyond
//    the Israeli resident credit points and the UK personal allowance.
// 3. Social contributions are folded in as an additional flat schedule
//    (Israeli national insurance + health tax, UK class 1 NI, US FICA).
// 4. These tables exist to give the scorer a realistic net/gross relationship;
//    they are not a payroll engine.

// ErrUnsupportedCountry is returned for countries without a bracket table
var ErrUnsupportedCountry = errors.New("unsupported country")

// TaxBracket represents a monthly marginal tax bracket.
// A zero Max means the bracket has no upper bound.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// NetSalaryResult is the outcome of a gross-to-net calculation.
// TaxRate is the effective combined rate as a fraction of gross.
type NetSalaryResult struct {
	Gross     decimal.Decimal `json:"gross"`
	NetSalary decimal.Decimal `json:"netSalary"`
	Tax       decimal.Decimal `json:"tax"`
	TaxRate   decimal.Decimal `json:"taxRate"`
}

// NetSalaryCalculator converts a monthly gross salary into net pay
type NetSalaryCalculator interface {
	NetSalary(gross decimal.Decimal, country string) (NetSalaryResult, error)
}

// CountryTaxTable holds income tax and social contribution schedules for one country
type CountryTaxTable struct {
	Country       string
	Brackets      []TaxBracket
	Social        []TaxBracket
	MonthlyCredit decimal.Decimal
}

// BracketTaxCalculator implements NetSalaryCalculator with per-country bracket walks
type BracketTaxCalculator struct {
	Tables map[string]CountryTaxTable
}

// NewBracketTaxCalculator creates a calculator with the built-in israel, uk and us tables
func NewBracketTaxCalculator() *BracketTaxCalculator {
	return &BracketTaxCalculator{
		Tables: map[string]CountryTaxTable{
			"israel": israelTable(),
			"uk":     ukTable(),
			"us":     usTable(),
		},
	}
}

// NormalizeCountry maps the aliases used by the wizard onto a canonical country code.
// Unknown values are returned lower-cased and trimmed.
func NormalizeCountry(country string) string {
	c := strings.ToLower(strings.TrimSpace(country))
	switch c {
	case "israel", "isr", "il":
		return "israel"
	case "uk", "gbr", "gb", "united kingdom", "england":
		return "uk"
	case "us", "usa", "united states", "america":
		return "us"
	case "eu", "eur", "europe":
		return "eu"
	}
	return c
}

// NetSalary calculates monthly net pay for a gross monthly salary
func (btc *BracketTaxCalculator) NetSalary(gross decimal.Decimal, country string) (NetSalaryResult, error) {
	table, ok := btc.Tables[NormalizeCountry(country)]
	if !ok {
		return NetSalaryResult{}, fmt.Errorf("net salary for %q: %w", country, ErrUnsupportedCountry)
	}
	if gross.LessThanOrEqual(decimal.Zero) {
		return NetSalaryResult{Gross: gross, NetSalary: gross}, nil
	}

	incomeTax := CalculateBracketTax(gross, table.Brackets).Sub(table.MonthlyCredit)
	if incomeTax.IsNegative() {
		incomeTax = decimal.Zero
	}
	social := CalculateBracketTax(gross, table.Social)
	total := incomeTax.Add(social)

	return NetSalaryResult{
		Gross:     gross,
		NetSalary: gross.Sub(total),
		Tax:       total,
		TaxRate:   total.Div(gross),
	}, nil
}

// MarginalRate returns the income tax rate of the bracket containing gross
func (btc *BracketTaxCalculator) MarginalRate(gross decimal.Decimal, country string) (decimal.Decimal, error) {
	table, ok := btc.Tables[NormalizeCountry(country)]
	if !ok {
		return decimal.Zero, fmt.Errorf("marginal rate for %q: %w", country, ErrUnsupportedCountry)
	}
	rate := decimal.Zero
	for _, b := range table.Brackets {
		if gross.GreaterThan(b.Min) {
			rate = b.Rate
		}
	}
	return rate, nil
}

// CalculateBracketTax walks the brackets and sums the tax owed on income
func CalculateBracketTax(income decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var total decimal.Decimal
	for _, bracket := range brackets {
		if income.LessThanOrEqual(bracket.Min) {
			break
		}
		upper := income
		if bracket.Max.IsPositive() {
			upper = decimal.Min(income, bracket.Max)
		}
		inBracket := upper.Sub(bracket.Min)
		if inBracket.GreaterThan(decimal.Zero) {
			total = total.Add(inBracket.Mul(bracket.Rate))
		}
	}
	return total
}

func bracket(min, max, rate float64) TaxBracket {
	b := TaxBracket{Min: decimal.NewFromFloat(min), Rate: decimal.NewFromFloat(rate)}
	if max > 0 {
		b.Max = decimal.NewFromFloat(max)
	}
	return b
}

// israelTable: 2024 monthly brackets, 2.25 credit points at 242 ILS
func israelTable() CountryTaxTable {
	return CountryTaxTable{
		Country: "israel",
		Brackets: []TaxBracket{
			bracket(0, 7010, 0.10),
			bracket(7010, 10060, 0.14),
			bracket(10060, 16150, 0.20),
			bracket(16150, 22440, 0.31),
			bracket(22440, 46690, 0.35),
			bracket(46690, 60130, 0.47),
			bracket(60130, 0, 0.50),
		},
		Social: []TaxBracket{
			bracket(0, 7522, 0.035),
			bracket(7522, 49030, 0.12),
		},
		MonthlyCredit: decimal.NewFromFloat(544.5),
	}
}

// ukTable: 2024/25 bands divided by twelve
func ukTable() CountryTaxTable {
	return CountryTaxTable{
		Country: "uk",
		Brackets: []TaxBracket{
			bracket(0, 1047.5, 0),
			bracket(1047.5, 4189.17, 0.20),
			bracket(4189.17, 10428.33, 0.40),
			bracket(10428.33, 0, 0.45),
		},
		Social: []TaxBracket{
			bracket(1048, 4189, 0.08),
			bracket(4189, 0, 0.02),
		},
	}
}

// usTable: 2024 single filer, standard deduction folded into a zero bracket
func usTable() CountryTaxTable {
	return CountryTaxTable{
		Country: "us",
		Brackets: []TaxBracket{
			bracket(0, 1216.67, 0),
			bracket(1216.67, 2183.34, 0.10),
			bracket(2183.34, 5145.84, 0.12),
			bracket(5145.84, 9593.75, 0.22),
			bracket(9593.75, 17212.5, 0.24),
			bracket(17212.5, 21527.09, 0.32),
			bracket(21527.09, 51995.84, 0.35),
			bracket(51995.84, 0, 0.37),
		},
		Social: []TaxBracket{
			bracket(0, 14050, 0.0765),
			bracket(14050, 0, 0.0145),
		},
	}
}
