package scoring

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

var (
	conservativeProfiles = []string{"conservative", "very_conservative", "low"}
	aggressiveProfiles   = []string{"aggressive", "very_aggressive", "high"}
)

// riskAlignment compares the stock allocation with an age-based
// recommendation and penalizes allocations that contradict the stated risk
// tolerance
func (s *Scorer) riskAlignment(record domain.RawInputRecord) (domain.FactorResult, error) {
	rule := s.rule(domain.FactorRiskAlignment)
	age, hasAge := s.age(record)

	stock, source, ok := s.stockPercentage(record, age, hasAge)
	if !ok {
		return result(domain.StatusNoData, zero,
			"No portfolio allocation found. Add your investments in step 4 to evaluate risk alignment."), nil
	}
	if !hasAge {
		res := result(domain.StatusUnknown, zero, "Add your current age in step 1 to compare your allocation with a recommendation.")
		res.Details.Metrics["stockPercentage"] = stock
		res.Details.Labels["allocationSource"] = source
		return res, nil
	}

	recommended := s.recommendedStock(age)
	deviation := stock.Sub(recommended).Abs()
	alignment := decimal.Max(zero, hundred.Sub(s.rules.Risk.MismatchCost.Mul(deviation)))

	risk := s.riskTolerance(record)
	penalized := false
	switch {
	case containsString(conservativeProfiles, risk) && stock.GreaterThan(s.rules.Risk.ConservativeMaxStock):
		penalized = true
	case containsString(aggressiveProfiles, risk) && stock.LessThan(s.rules.Risk.AggressiveMinStock):
		penalized = true
	}
	if penalized {
		alignment = alignment.Mul(s.rules.Risk.MismatchPenalty)
	}

	score, status := percentScore(alignment, rule)

	res := result(status, score, "")
	m := res.Details.Metrics
	m["stockPercentage"] = stock
	m["recommendedPercentage"] = recommended
	m["deviation"] = deviation
	m["alignmentScore"] = alignment
	res.Details.Labels["allocationSource"] = source
	if risk != "" {
		res.Details.Labels["riskTolerance"] = risk
	}
	if penalized {
		res.Details.Labels["toleranceMismatch"] = "true"
	}
	return res, nil
}

// stockPercentage looks for the allocation list, then a direct field, then
// an age-based default for plans that hold investable balances
func (s *Scorer) stockPercentage(record domain.RawInputRecord, age int, hasAge bool) (decimal.Decimal, string, bool) {
	if v, ok := fields.EquityAllocation(record); ok {
		return clamp(v, zero, hundred), "allocation", true
	}
	if v, ok := s.resolver.Number(record, fields.Options{}, fields.StockPercentage); ok {
		return clamp(v, zero, hundred), "field", true
	}
	if hasAge && s.hasInvestableBalance(record) {
		return s.recommendedStock(age), "ageDefault", true
	}
	return zero, "", false
}

func (s *Scorer) recommendedStock(age int) decimal.Decimal {
	return decimal.Max(s.rules.Retirement.MinStockPercentage, decimal.NewFromInt(int64(100-age)))
}

func (s *Scorer) riskTolerance(record domain.RawInputRecord) string {
	v, ok := s.resolver.Text(record, fields.RiskTolerance)
	if !ok {
		return ""
	}
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(v)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
