package fields

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/calculation"
)

const (
	grossSearchIterations = 25
	grossSearchCeiling    = 2.5
)

var (
	monthlyPlausibilityLimit = decimal.NewFromInt(50000)
	monthsPerYear            = decimal.NewFromInt(12)
	centTolerance            = decimal.NewFromFloat(0.01)
	defaultFlatTaxRate       = decimal.NewFromFloat(0.25)
	two                      = decimal.NewFromInt(2)
)

// DefaultFlatTaxRates are the average combined rates used when the net
// salary calculator cannot invert a net figure
func DefaultFlatTaxRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"israel": decimal.NewFromFloat(0.25),
		"uk":     decimal.NewFromFloat(0.28),
		"us":     decimal.NewFromFloat(0.24),
		"eu":     decimal.NewFromFloat(0.30),
	}
}

// adjustMonthly divides implausibly large monthly figures by twelve unless
// the key says the figure is annual
func adjustMonthly(value decimal.Decimal, key string, def *FieldDef) decimal.Decimal {
	k := strings.ToLower(key)
	monthly := (def != nil && def.Monthly) || strings.Contains(k, "monthly") || strings.Contains(k, "salary")
	if !monthly || !value.GreaterThan(monthlyPlausibilityLimit) {
		return value
	}
	if strings.Contains(k, "annual") || strings.Contains(k, "yearly") {
		return value
	}
	return value.Div(monthsPerYear)
}

// isNetIncomeKey reports whether a matched key holds a net salary figure
func isNetIncomeKey(key string) bool {
	k := strings.ToLower(key)
	if !strings.Contains(k, "net") || strings.Contains(k, "gross") {
		return false
	}
	return strings.Contains(k, "salary") || strings.Contains(k, "income")
}

// GrossFromNet inverts a monthly net salary into its gross equivalent.
// It binary-searches [net, 2.5*net] against the net salary calculator and
// falls back to a flat country rate when no calculator is available.
func (r *Resolver) GrossFromNet(net decimal.Decimal, country string) decimal.Decimal {
	if !net.IsPositive() {
		return net
	}
	if r.netSalary != nil {
		gross, err := r.searchGross(net, country)
		if err == nil {
			return gross
		}
		r.logger.Debugf("fields: net salary inversion for %q failed, using flat rate: %v", country, err)
	}
	return r.flatGross(net, country)
}

func (r *Resolver) searchGross(net decimal.Decimal, country string) (decimal.Decimal, error) {
	low := net
	high := net.Mul(decimal.NewFromFloat(grossSearchCeiling))
	mid := low
	for i := 0; i < grossSearchIterations; i++ {
		mid = low.Add(high).Div(two)
		result, err := r.netSalary.NetSalary(mid, country)
		if err != nil {
			return decimal.Zero, err
		}
		diff := result.NetSalary.Sub(net)
		if diff.Abs().LessThan(centTolerance) {
			return mid, nil
		}
		if diff.IsNegative() {
			low = mid
		} else {
			high = mid
		}
	}
	return mid, nil
}

func (r *Resolver) flatGross(net decimal.Decimal, country string) decimal.Decimal {
	rate, ok := r.flatTaxRates[calculation.NormalizeCountry(country)]
	if !ok {
		rate = defaultFlatTaxRate
	}
	keep := decimal.NewFromInt(1).Sub(rate)
	if !keep.IsPositive() {
		return net
	}
	return net.Div(keep)
}
