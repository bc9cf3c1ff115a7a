package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/config"
	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []RecordTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates the common improvement scenarios. Targets
// that depend on scoring assumptions are taken from rules; nil means the
// built-in rules.
func CreateBuiltInTemplates(rules *domain.ScoringRules) *TemplateRegistry {
	if rules == nil {
		rules = config.DefaultRules()
	}
	registry := NewTemplateRegistry()

	retirementAge := decimal.NewFromInt(int64(rules.Retirement.DefaultRetirementAge))
	months := rules.EmergencyFund.BaseTargetMonths
	if !months.IsPositive() {
		months = decimal.NewFromInt(6)
	}

	raisePension := &AdjustField{Field: fields.PensionEmployeeRate, Delta: decimal.NewFromInt(2)}
	buildFund := &FundEmergency{Months: months}
	delayRetirement := &AdjustField{Field: fields.RetirementAge, Delta: decimal.NewFromInt(2), Default: &retirementAge}
	payDownDebt := &ReduceDebt{Factor: decimal.NewFromFloat(0.5)}
	boostSavings := &SaveIncomeShare{Percent: decimal.NewFromInt(5)}

	registry.Register(Template{
		Name:        "raise_pension_rate",
		Description: "Raise the employee pension contribution by 2 percentage points",
		Transforms:  []RecordTransform{raisePension},
	})

	registry.Register(Template{
		Name:        "build_emergency_fund",
		Description: fmt.Sprintf("Build the emergency fund to %s months of expenses", months.String()),
		Transforms:  []RecordTransform{buildFund},
	})

	registry.Register(Template{
		Name:        "delay_retirement_2yr",
		Description: "Retire 2 years later",
		Transforms:  []RecordTransform{delayRetirement},
	})

	registry.Register(Template{
		Name:        "pay_down_debt",
		Description: "Halve monthly debt payments",
		Transforms:  []RecordTransform{payDownDebt},
	})

	registry.Register(Template{
		Name:        "boost_savings",
		Description: "Save an extra 5% of salary every month",
		Transforms:  []RecordTransform{boostSavings},
	})

	// Combination
	registry.Register(Template{
		Name:        "full_checkup",
		Description: "Raise pension contributions, save 5% more and build the emergency fund",
		Transforms:  []RecordTransform{raisePension, boostSavings, buildFund},
	})

	return registry
}

// ApplyTemplate applies a template to a base record
func ApplyTemplate(base domain.RawInputRecord, template Template) (domain.RawInputRecord, error) {
	if len(template.Transforms) == 0 {
		if base == nil {
			return nil, fmt.Errorf("base record cannot be nil")
		}
		return base.Clone(), nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{}
	order := []string{"Contributions", "Safety Net", "Retirement Timing", "Combination Strategies"}
	for _, name := range registry.List() {
		t := registry.templates[name]
		var category string
		switch t.Name {
		case "raise_pension_rate", "boost_savings":
			category = "Contributions"
		case "build_emergency_fund", "pay_down_debt":
			category = "Safety Net"
		case "delay_retirement_2yr":
			category = "Retirement Timing"
		default:
			category = "Combination Strategies"
		}
		categories[category] = append(categories[category], t)
	}

	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-30s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  finhealth compare profile.yaml --with raise_pension_rate,boost_savings\n")
	sb.WriteString("  finhealth compare profile.yaml --transform scale:field=salary,factor=1.1\n")

	return sb.String()
}
