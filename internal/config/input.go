package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/finhealth/internal/calculation"
	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

// ErrInvalidRecord is wrapped when a record carries error-severity issues
var ErrInvalidRecord = errors.New("invalid input record")

// InputParser handles parsing and validation of raw input records
type InputParser struct {
	resolver *fields.Resolver
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	// validation looks at values as entered, so net figures are not inverted
	return &InputParser{resolver: fields.NewResolver(fields.WithNetSalaryCalculator(nil))}
}

// LoadFromFile loads a record from a YAML or JSON file and validates it.
// Warnings are not fatal; any error-severity issue is.
func (ip *InputParser) LoadFromFile(filename string) (domain.RawInputRecord, error) {
	record, err := ip.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if issues := ip.ValidateRecord(record); domain.HasErrors(issues) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRecord, joinErrors(issues))
	}
	return record, nil
}

// ReadFile loads a record without validating it
func (ip *InputParser) ReadFile(filename string) (domain.RawInputRecord, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	record, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return record, nil
}

// Parse decodes a YAML or JSON document into a record
func (ip *InputParser) Parse(data []byte) (domain.RawInputRecord, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	if raw == nil {
		return domain.RawInputRecord{}, nil
	}
	return domain.RawInputRecord(raw), nil
}

var (
	minAge     = decimal.NewFromInt(16)
	maxAge     = decimal.NewFromInt(100)
	hundred    = decimal.NewFromInt(100)
	knownPlans = []string{"individual", "single", "couple", "joint", "married"}
	knownRisk  = []string{
		"conservative", "very_conservative", "moderate", "balanced", "aggressive", "very_aggressive", "low", "medium", "high",
	}
	knownFrequencies = []string{"monthly", "quarterly", "semiannual", "yearly", "annual", "annually"}
	taxedCountries   = []string{"israel", "uk", "us"}
	optimalCountries = []string{"israel", "uk", "us", "eu"}
)

// ValidateRecord checks a record for out-of-range and inconsistent values.
// It never fails: problems are reported as issues.
func (ip *InputParser) ValidateRecord(record domain.RawInputRecord) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	add := func(field string, sev domain.IssueSeverity, format string, args ...any) {
		issues = append(issues, domain.ValidationIssue{Field: field, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	if len(record) == 0 {
		add("record", domain.SeverityWarning, "record is empty; every factor will report missing data")
		return issues
	}

	values := map[string]fields.Value{}
	for _, def := range fields.Definitions() {
		v := ip.resolver.Resolve(record, []string{def.Name}, fields.Options{})
		if !v.Found() {
			continue
		}
		values[def.Name] = v
		if v.Kind != fields.Number {
			continue
		}
		n := v.Number
		switch def.Kind {
		case fields.KindAge:
			if n.LessThan(minAge) || n.GreaterThan(maxAge) {
				add(v.Key, domain.SeverityError, "%s must be between %s and %s, got %s", def.Name, minAge, maxAge, n)
			}
		case fields.KindRate:
			if n.IsNegative() || n.GreaterThan(hundred) {
				add(v.Key, domain.SeverityError, "%s must be a percentage between 0 and 100, got %s", def.Name, n)
			}
		case fields.KindAmount:
			if n.IsNegative() {
				add(v.Key, domain.SeverityError, "%s cannot be negative, got %s", def.Name, n)
			}
		}
	}

	age, hasAge := values[fields.CurrentAge]
	retire, hasRetire := values[fields.RetirementAge]
	if hasAge && hasRetire && age.Kind == fields.Number && retire.Kind == fields.Number && !retire.Number.GreaterThan(age.Number) {
		add(retire.Key, domain.SeverityError, "retirement age %s must be greater than current age %s", retire.Number, age.Number)
	}
	if !hasAge {
		add(fields.CurrentAge, domain.SeverityWarning, "current age is missing; time horizon and peer comparison use defaults")
	}

	checkText(values, fields.PlanningType, knownPlans, add)
	checkText(values, fields.RiskTolerance, knownRisk, add)
	checkText(values, fields.RSUFrequency, knownFrequencies, add)

	if c, ok := values[fields.Country]; ok {
		country := calculation.NormalizeCountry(c.Text)
		if !contains(optimalCountries, country) {
			add(c.Key, domain.SeverityWarning, "country %q is not recognized; israel rates will be assumed", c.Text)
		} else if !contains(taxedCountries, country) {
			add(c.Key, domain.SeverityWarning, "country %q has no tax table; net salaries use a flat rate", c.Text)
		}
	}

	if _, ok := values[fields.Salary]; !ok && !hasPartnerKey(record, "partner1") {
		add(fields.Salary, domain.SeverityWarning, "no salary found; add income in step 2 to score savings and readiness")
	}

	if record.Mode() == domain.PlanningCouple && !hasPartnerKey(record, "partner2") {
		add(fields.PlanningType, domain.SeverityWarning, "couple plan has no partner2 values; only one income will be combined")
	}

	if stock, ok := fields.EquityAllocation(record); ok && (stock.IsNegative() || stock.GreaterThan(hundred)) {
		add("portfolioAllocations", domain.SeverityError, "equity allocation must be between 0 and 100, got %s", stock)
	}

	return issues
}

func checkText(values map[string]fields.Value, name string, known []string, add func(string, domain.IssueSeverity, string, ...any)) {
	v, ok := values[name]
	if !ok {
		return
	}
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v.Text)), "-", "_")
	norm = strings.ReplaceAll(norm, " ", "_")
	if !contains(known, norm) {
		add(v.Key, domain.SeverityWarning, "unrecognized %s %q (expected one of %s)", name, v.Text, strings.Join(known, ", "))
	}
}

func hasPartnerKey(record domain.RawInputRecord, prefix string) bool {
	for k := range record {
		if strings.HasPrefix(strings.ToLower(k), prefix) {
			return true
		}
	}
	for n := 1; n <= fields.MaxStep; n++ {
		step, ok := record.Step(n)
		if !ok {
			continue
		}
		for k := range step {
			if strings.HasPrefix(strings.ToLower(k), prefix) {
				return true
			}
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func joinErrors(issues []domain.ValidationIssue) string {
	var parts []string
	for _, i := range issues {
		if i.Severity == domain.SeverityError {
			parts = append(parts, i.Field+": "+i.Message)
		}
	}
	return strings.Join(parts, "; ")
}
