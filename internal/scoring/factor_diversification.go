package scoring

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

type assetClass struct {
	name   string
	fields []string
}

var assetClasses = []assetClass{
	{"pension", []string{fields.CurrentPensionSavings}},
	{"portfolio", []string{fields.CurrentPersonalPortfolio}},
	{"realEstate", []string{fields.CurrentRealEstate}},
	{"crypto", []string{fields.CurrentCrypto}},
	{"cash", []string{fields.CurrentBankSavings}},
	{"emergencyFund", []string{fields.EmergencyFund}},
	{"trainingFund", []string{fields.CurrentTrainingFund}},
	{"usRetirement", []string{fields.US401kBalance, fields.IRABalance}},
}

// diversification counts the distinct asset classes holding a balance
func (s *Scorer) diversification(record domain.RawInputRecord) (domain.FactorResult, error) {
	rule := s.rule(domain.FactorDiversification)

	var held []string
	for _, class := range assetClasses {
		for _, name := range class.fields {
			if v, ok := s.resolver.Number(record, fields.Sum(), name); ok && v.IsPositive() {
				held = append(held, class.name)
				break
			}
		}
	}

	if len(held) == 0 {
		res := result(domain.StatusNoData, zero, "No assets found. Add your savings and investments in step 4.")
		res.Details.Metrics["assetClasses"] = zero
		return res, nil
	}

	count := decimal.NewFromInt(int64(len(held)))
	score, status := tierScore(count, rule, s.rules.TierFractions)

	res := result(status, score, "")
	res.Details.Metrics["assetClasses"] = count
	res.Details.Metrics["targetClasses"] = rule.Benchmarks.Good
	res.Details.Labels["classes"] = strings.Join(held, ",")
	return res, nil
}
