package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/scoring"
	"github.com/rgehrsitz/finhealth/internal/transform"
)

// CompareEngine orchestrates what-if comparison
type CompareEngine struct {
	Scorer            *scoring.Scorer
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine. Templates are built from
// the scorer's rules so that targets match what is being scored.
func NewCompareEngine(scorer *scoring.Scorer) *CompareEngine {
	return &CompareEngine{
		Scorer:            scorer,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(scorer.Rules()),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Display name of the base record
	Templates        []string // List of template names to apply
	Transforms       []string // Transform specs, each scored as its own alternative
}

// Compare scores the base record and each alternative derived from it
func (ce *CompareEngine) Compare(
	ctx context.Context,
	record domain.RawInputRecord,
	options CompareOptions,
) (*ComparisonSet, error) {
	if record == nil {
		return nil, fmt.Errorf("base record cannot be nil")
	}
	baseName := options.BaseScenarioName
	if baseName == "" {
		baseName = "base"
	}

	baseBreakdown := ce.Scorer.Score(record)
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseName, &baseBreakdown)

	alternatives := []ComparisonResult{}

	for _, templateName := range options.Templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(record, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}

		alternatives = append(alternatives, ce.scoreAlternative(baseName+"_"+template.Name, template.Description, modified, baseResult))
	}

	for _, spec := range options.Transforms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t, err := ce.TransformRegistry.ParseTransformSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
		}

		modified, err := transform.ApplyTransforms(record, []transform.RecordTransform{t})
		if err != nil {
			return nil, fmt.Errorf("failed to apply transform %q: %w", spec, err)
		}

		alternatives = append(alternatives, ce.scoreAlternative(baseName+"_"+t.Name(), t.Description(), modified, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) scoreAlternative(name, description string, record domain.RawInputRecord, base ComparisonResult) ComparisonResult {
	breakdown := ce.Scorer.Score(record)
	result := ce.MetricsCalculator.CalculateMetrics(name, &breakdown)
	result.Description = description
	return ce.MetricsCalculator.CalculateComparison(result, base)
}
