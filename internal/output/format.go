package output

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

// FormatCurrency formats an amount with thousands separators and two decimals.
// Amounts are in the plan's own currency, so no symbol is added.
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatPercentage formats a 0-100 value as a percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatScore formats a factor score with one decimal
func FormatScore(score decimal.Decimal) string {
	return score.StringFixed(1)
}

var factorLabels = map[domain.ScoreFactor]string{
	domain.FactorSavingsRate:         "Savings Rate",
	domain.FactorRetirementReadiness: "Retirement Readiness",
	domain.FactorTimeHorizon:         "Time Horizon",
	domain.FactorRiskAlignment:       "Risk Alignment",
	domain.FactorDiversification:     "Diversification",
	domain.FactorTaxEfficiency:       "Tax Efficiency",
	domain.FactorEmergencyFund:       "Emergency Fund",
	domain.FactorDebtManagement:      "Debt Management",
}

// FactorLabel returns the display name of a factor
func FactorLabel(f domain.ScoreFactor) string {
	if l, ok := factorLabels[f]; ok {
		return l
	}
	return string(f)
}

// StatusLabel returns the display form of a factor status
func StatusLabel(s domain.FactorStatus) string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// OverallLabel returns the display form of the composite status
func OverallLabel(s domain.OverallStatus) string {
	if s == domain.OverallNeedsWork {
		return "needs work"
	}
	return string(s)
}

// metrics recorded as 0-100 percentages
var percentMetrics = map[string]bool{
	"savingsRate":           true,
	"targetRate":            true,
	"pensionRate":           true,
	"trainingFundRate":      true,
	"contributionRate":      true,
	"effectiveRate":         true,
	"optimalRate":           true,
	"efficiencyScore":       true,
	"salaryTaxRate":         true,
	"additionalTaxRate":     true,
	"stockPercentage":       true,
	"recommendedPercentage": true,
	"alignmentScore":        true,
}

// metrics that are plain counts, ratios or years
var plainMetrics = map[string]bool{
	"assetClasses":      true,
	"targetClasses":     true,
	"currentAge":        true,
	"retirementAge":     true,
	"yearsToRetirement": true,
	"targetMultiplier":  true,
	"savingsRatio":      true,
	"monthsCovered":     true,
	"targetMonths":      true,
	"debtToIncome":      true,
	"deviation":         true,
}

// FormatMetric renders a factor metric by its kind
func FormatMetric(name string, v decimal.Decimal) string {
	switch {
	case percentMetrics[name]:
		return FormatPercentage(v)
	case plainMetrics[name]:
		return v.Round(2).String()
	}
	return FormatCurrency(v)
}

// sortedKeys returns map keys in lexical order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
