package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

// Assumptions lists the scoring assumptions rendered in detailed outputs,
// taken from the rules the score was computed with
func Assumptions(rules *domain.ScoringRules) []string {
	if rules == nil {
		return nil
	}

	countries := make([]string, 0, len(rules.OptimalTaxAdvantaged))
	for c, rate := range rules.OptimalTaxAdvantaged {
		countries = append(countries, fmt.Sprintf("%s %s%%", c, rate.String()))
	}
	sort.Strings(countries)

	ef := rules.EmergencyFund
	return []string{
		fmt.Sprintf("Contribution rate when one is not given: pension %s%%, training fund %s%%",
			rules.DefaultRates.Pension.String(), rules.DefaultRates.TrainingFund.String()),
		fmt.Sprintf("Retirement age when none is given: %d", rules.Retirement.DefaultRetirementAge),
		fmt.Sprintf("Retirement savings target: annual income x max(1, (age - %d) / %s)",
			rules.Retirement.MultiplierBaseAge, rules.Retirement.MultiplierDivisor.String()),
		fmt.Sprintf("Emergency fund target: %s months, %s above %s debt-to-income, %s above %s",
			ef.BaseTargetMonths.String(), ef.ElevatedTargetMonths.String(), ef.ElevatedDebtRatio.String(),
			ef.HighTargetMonths.String(), ef.HighDebtRatio.String()),
		fmt.Sprintf("Monthly expenses estimated at %s%% of income when not given", ef.ExpenseIncomeShare.Shift(2).String()),
		"Optimal tax-advantaged contribution rates: " + strings.Join(countries, ", "),
		fmt.Sprintf("Default country: %s", rules.DefaultCountry),
	}
}
