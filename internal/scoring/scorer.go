package scoring

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/calculation"
	"github.com/rgehrsitz/finhealth/internal/config"
	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

type evaluator func(record domain.RawInputRecord) (domain.FactorResult, error)

// Scorer evaluates the eight weighted factors of a financial health score.
// A Scorer is immutable after construction and safe for concurrent use.
type Scorer struct {
	rules         *domain.ScoringRules
	resolver      *fields.Resolver
	netSalary     calculation.NetSalaryCalculator
	additionalTax calculation.AdditionalIncomeTaxCalculator
	logger        calculation.Logger
	evaluators    map[domain.ScoreFactor]evaluator
}

// Option configures a Scorer
type Option func(*Scorer)

// WithRules replaces the embedded default rules
func WithRules(rules *domain.ScoringRules) Option {
	return func(s *Scorer) {
		if rules != nil {
			s.rules = rules
		}
	}
}

// WithNetSalaryCalculator sets the net salary collaborator; nil disables it
func WithNetSalaryCalculator(c calculation.NetSalaryCalculator) Option {
	return func(s *Scorer) { s.netSalary = c }
}

// WithAdditionalIncomeTaxCalculator sets the additional income collaborator;
// nil selects the flat-rate fallback
func WithAdditionalIncomeTaxCalculator(c calculation.AdditionalIncomeTaxCalculator) Option {
	return func(s *Scorer) { s.additionalTax = c }
}

// WithLogger sets the diagnostic logger shared with the field resolver
func WithLogger(l calculation.Logger) Option {
	return func(s *Scorer) { s.logger = calculation.OrNop(l) }
}

// NewScorer creates a scorer. Without options it uses the embedded rules and
// the built-in bracket tax tables for both collaborators.
func NewScorer(opts ...Option) *Scorer {
	taxes := calculation.NewBracketTaxCalculator()
	s := &Scorer{
		netSalary:     taxes,
		additionalTax: taxes,
		logger:        calculation.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rules == nil {
		s.rules = config.DefaultRules()
	}
	s.resolver = fields.NewResolver(
		fields.WithLogger(s.logger),
		fields.WithNetSalaryCalculator(s.netSalary),
		fields.WithFlatTaxRates(s.rules.FlatTaxRates),
		fields.WithDefaultCountry(s.rules.DefaultCountry),
	)
	s.evaluators = map[domain.ScoreFactor]evaluator{
		domain.FactorSavingsRate:         s.savingsRate,
		domain.FactorRetirementReadiness: s.retirementReadiness,
		domain.FactorTimeHorizon:         s.timeHorizon,
		domain.FactorRiskAlignment:       s.riskAlignment,
		domain.FactorDiversification:     s.diversification,
		domain.FactorTaxEfficiency:       s.taxEfficiency,
		domain.FactorEmergencyFund:       s.emergencyFund,
		domain.FactorDebtManagement:      s.debtManagement,
	}
	return s
}

// Rules returns the rules the scorer was built with
func (s *Scorer) Rules() *domain.ScoringRules { return s.rules }

// Resolver returns the field resolver the scorer uses
func (s *Scorer) Resolver() *fields.Resolver { return s.resolver }

// Score evaluates every factor and aggregates the composite result.
// It never panics: a failing factor scores zero with status error, and a
// failure outside the factors yields an empty breakdown with status error.
func (s *Scorer) Score(record domain.RawInputRecord) (breakdown domain.ScoreBreakdown) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Errorf("scoring: aggregation failed: %v", p)
			breakdown = errorBreakdown()
		}
	}()

	factors := make(map[domain.ScoreFactor]domain.FactorResult, len(domain.AllFactors))
	for _, f := range domain.AllFactors {
		factors[f] = s.Evaluate(f, record)
	}

	total := zero
	for _, r := range factors {
		total = total.Add(r.Score)
	}
	totalScore := int(clamp(total.Round(0), zero, hundred).IntPart())

	breakdown = domain.ScoreBreakdown{
		TotalScore: totalScore,
		Status:     s.overallStatus(totalScore),
		Factors:    factors,
	}
	breakdown.Suggestions = s.suggestions(factors)
	breakdown.PeerComparison = s.peerComparison(record, totalScore)

	s.logger.Debugf("scoring: total %d (%s)", breakdown.TotalScore, breakdown.Status)
	return breakdown
}

// Evaluate runs a single factor. Errors and panics inside the factor are
// converted into a zero-score result with status error.
func (s *Scorer) Evaluate(f domain.ScoreFactor, record domain.RawInputRecord) (result domain.FactorResult) {
	weight := s.rules.Weight(f)
	defer func() {
		if p := recover(); p != nil {
			err := &CalculationError{Factor: f, Operation: "evaluate", Message: fmt.Sprint(p)}
			s.logger.Errorf("scoring: %v", err)
			result = errorResult(f, weight, err)
		}
	}()

	eval, ok := s.evaluators[f]
	if !ok {
		return errorResult(f, weight, &CalculationError{Factor: f, Operation: "lookup", Message: "no evaluator registered"})
	}
	if _, ok := s.rules.Factors[f]; !ok {
		return errorResult(f, weight, &CalculationError{Factor: f, Operation: "rules", Message: "factor is not configured"})
	}

	res, err := eval(record)
	if err != nil {
		s.logger.Warnf("scoring: %v", err)
		return errorResult(f, weight, err)
	}
	res.Factor = f
	res.Weight = weight
	res.Score = clamp(res.Score, zero, weight)
	return res
}

func (s *Scorer) overallStatus(total int) domain.OverallStatus {
	t := s.rules.OverallThresholds
	switch {
	case total >= t.Excellent:
		return domain.OverallExcellent
	case total >= t.Good:
		return domain.OverallGood
	case total >= t.NeedsWork:
		return domain.OverallNeedsWork
	}
	return domain.OverallCritical
}

func (s *Scorer) rule(f domain.ScoreFactor) domain.FactorRule {
	return s.rules.Factors[f]
}

func errorResult(f domain.ScoreFactor, weight decimal.Decimal, err error) domain.FactorResult {
	return domain.FactorResult{
		Factor: f,
		Score:  zero,
		Weight: weight,
		Details: domain.FactorDetails{
			Status:  domain.StatusError,
			Message: err.Error(),
		},
	}
}

func errorBreakdown() domain.ScoreBreakdown {
	return domain.ScoreBreakdown{
		TotalScore:  0,
		Status:      domain.OverallError,
		Factors:     map[domain.ScoreFactor]domain.FactorResult{},
		Suggestions: []domain.ImprovementSuggestion{},
	}
}

// result starts a factor result with empty diagnostics
func result(status domain.FactorStatus, score decimal.Decimal, message string) domain.FactorResult {
	return domain.FactorResult{
		Score: score,
		Details: domain.FactorDetails{
			Status:  status,
			Message: message,
			Metrics: map[string]decimal.Decimal{},
			Labels:  map[string]string{},
		},
	}
}

// sortedFactors orders results by ascending score, canonical order on ties
func sortedFactors(factors map[domain.ScoreFactor]domain.FactorResult) []domain.FactorResult {
	order := make(map[domain.ScoreFactor]int, len(domain.AllFactors))
	for i, f := range domain.AllFactors {
		order[f] = i
	}
	out := make([]domain.FactorResult, 0, len(factors))
	for _, r := range factors {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Score.Cmp(out[j].Score); c != 0 {
			return c < 0
		}
		return order[out[i].Factor] < order[out[j].Factor]
	})
	return out
}
