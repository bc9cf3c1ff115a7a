package scoring

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

// suggestionTemplate builds the issue and action text for a weak factor.
// requires lists the metrics the template reads.
type suggestionTemplate struct {
	requires []string
	build    func(m map[string]decimal.Decimal) (issue, action string)
}

var suggestionTemplates = map[domain.ScoreFactor]suggestionTemplate{
	domain.FactorSavingsRate: {
		requires: []string{"savingsRate", "targetRate", "requiredIncrease"},
		build: func(m map[string]decimal.Decimal) (string, string) {
			return fmt.Sprintf("Savings rate is %s%% of income", pct(m["savingsRate"])),
				fmt.Sprintf("Increase monthly savings by %s to reach the %s%% target", amount(m["requiredIncrease"]), pct(m["targetRate"]))
		},
	},
	domain.FactorRetirementReadiness: {
		requires: []string{"currentSavings", "targetSavings", "savingsGap"},
		build: func(m map[string]decimal.Decimal) (string, string) {
			return fmt.Sprintf("Retirement savings of %s are below the age-based target of %s", amount(m["currentSavings"]), amount(m["targetSavings"])),
				fmt.Sprintf("Build retirement savings by %s, starting with higher pension contributions", amount(m["savingsGap"]))
		},
	},
	domain.FactorTimeHorizon: {
		requires: []string{"yearsToRetirement"},
		build: func(m map[string]decimal.Decimal) (string, string) {
			return fmt.Sprintf("Only %s years remain until retirement", m["yearsToRetirement"].String()),
				"Consider delaying retirement or front-loading contributions while you are still working"
		},
	},
	domain.FactorRiskAlignment: {
		requires: []string{"stockPercentage", "recommendedPercentage"},
		build: func(m map[string]decimal.Decimal) (string, string) {
			return fmt.Sprintf("Stock allocation of %s%% does not fit your age and risk profile", pct(m["stockPercentage"])),
				fmt.Sprintf("Rebalance toward roughly %s%% stocks", pct(m["recommendedPercentage"]))
		},
	},
	domain.FactorDiversification: {
		requires: []string{"assetClasses", "targetClasses"},
		build: func(m map[string]decimal.Decimal) (string, string) {
			missing := m["targetClasses"].Sub(m["assetClasses"])
			return fmt.Sprintf("Savings are spread across only %s asset classes", m["assetClasses"].String()),
				fmt.Sprintf("Add %s more asset classes such as a personal portfolio or training fund", missing.String())
		},
	},
	domain.FactorTaxEfficiency: {
		requires: []string{"effectiveRate", "optimalRate"},
		build: func(m map[string]decimal.Decimal) (string, string) {
			return fmt.Sprintf("Tax-advantaged contributions of %s%% are below the optimal %s%%", pct(m["effectiveRate"]), pct(m["optimalRate"])),
				"Raise pension and training fund contributions toward the tax-advantaged ceiling"
		},
	},
	domain.FactorEmergencyFund: {
		requires: []string{"monthsCovered", "targetMonths", "fundGap"},
		build: func(m map[string]decimal.Decimal) (string, string) {
			return fmt.Sprintf("Emergency fund covers %s months of expenses", m["monthsCovered"].StringFixed(1)),
				fmt.Sprintf("Add %s to reach %s months of expenses", amount(m["fundGap"]), m["targetMonths"].String())
		},
	},
	domain.FactorDebtManagement: {
		requires: []string{"debtToIncome", "requiredReduction"},
		build: func(m map[string]decimal.Decimal) (string, string) {
			return fmt.Sprintf("Debt payments take %s%% of income", pct(m["debtToIncome"].Mul(hundred))),
				fmt.Sprintf("Reduce monthly debt payments by %s", amount(m["requiredReduction"]))
		},
	},
}

// suggestions emits one suggestion per critical or poor factor whose
// diagnostics carry what its template needs, high priority first, then by
// ascending score
func (s *Scorer) suggestions(factors map[domain.ScoreFactor]domain.FactorResult) []domain.ImprovementSuggestion {
	type ranked struct {
		suggestion domain.ImprovementSuggestion
		score      decimal.Decimal
	}

	var candidates []ranked
	for _, r := range sortedFactors(factors) {
		var priority domain.SuggestionPriority
		switch r.Details.Status {
		case domain.StatusCritical:
			priority = domain.PriorityHigh
		case domain.StatusPoor:
			priority = domain.PriorityMedium
		default:
			continue
		}
		tmpl, ok := suggestionTemplates[r.Factor]
		if !ok || !r.Details.HasMetrics(tmpl.requires...) {
			continue
		}

		issue, action := tmpl.build(r.Details.Metrics)
		gap := goodTierScore(r.Factor, s.rule(r.Factor), s.rules.TierFractions).Sub(r.Score)
		if gap.IsNegative() {
			gap = zero
		}
		candidates = append(candidates, ranked{
			suggestion: domain.ImprovementSuggestion{
				Priority: priority,
				Category: r.Factor,
				Issue:    issue,
				Action:   action,
				Impact:   fmt.Sprintf("+%s points", gap.StringFixed(1)),
			},
			score: r.Score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := candidates[i].suggestion.Priority, candidates[j].suggestion.Priority
		if pi != pj {
			return pi == domain.PriorityHigh
		}
		return candidates[i].score.LessThan(candidates[j].score)
	})

	out := make([]domain.ImprovementSuggestion, 0, len(candidates))
	for _, c := range candidates {
		if s.rules.MaxSuggestions > 0 && len(out) >= s.rules.MaxSuggestions {
			break
		}
		out = append(out, c.suggestion)
	}
	return out
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(0)
}

func pct(d decimal.Decimal) string {
	return d.Round(1).String()
}
