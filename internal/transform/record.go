package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

// SetField writes a value to every key holding a field, or to the canonical
// key when the record does not carry the field yet.
type SetField struct {
	Field string
	Value any
}

func (sf *SetField) Name() string { return "set" }

func (sf *SetField) Description() string {
	return fmt.Sprintf("Set %s to %v", sf.Field, sf.Value)
}

func (sf *SetField) Validate(base domain.RawInputRecord) error {
	if sf.Field == "" {
		return NewTransformError(sf.Name(), "validate", "field cannot be empty", nil)
	}
	if base == nil {
		return NewTransformError(sf.Name(), "validate", "base record cannot be nil", nil)
	}
	return nil
}

func (sf *SetField) Apply(base domain.RawInputRecord) (domain.RawInputRecord, error) {
	modified := base.Clone()
	locs := locate(modified, sf.Field)
	if len(locs) == 0 {
		modified[canonicalKey(sf.Field)] = sf.Value
		return modified, nil
	}
	for _, l := range locs {
		l.set(sf.Value)
	}
	return modified, nil
}

// ScaleField multiplies every numeric value of a field by a factor.
// A salary raise of 10% is ScaleField{Field: "salary", Factor: 1.1}.
type ScaleField struct {
	Field  string
	Factor decimal.Decimal
}

func (s *ScaleField) Name() string { return "scale" }

func (s *ScaleField) Description() string {
	return fmt.Sprintf("Scale %s by %s", s.Field, s.Factor.String())
}

func (s *ScaleField) Validate(base domain.RawInputRecord) error {
	if s.Field == "" {
		return NewTransformError(s.Name(), "validate", "field cannot be empty", nil)
	}
	if s.Factor.IsNegative() {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("factor must be non-negative, got %s", s.Factor.String()), nil)
	}
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base record cannot be nil", nil)
	}
	if len(numericLocations(base, s.Field)) == 0 {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("field %s not found in record", s.Field), nil)
	}
	return nil
}

func (s *ScaleField) Apply(base domain.RawInputRecord) (domain.RawInputRecord, error) {
	modified := base.Clone()
	for _, l := range numericLocations(modified, s.Field) {
		v, _ := l.num()
		l.set(recordValue(v.Mul(s.Factor)))
	}
	return modified, nil
}

// AdjustField adds a delta to every numeric value of a field. When the record
// does not carry the field, Default (if set) plus the delta is written.
type AdjustField struct {
	Field   string
	Delta   decimal.Decimal
	Default *decimal.Decimal
}

func (a *AdjustField) Name() string { return "adjust" }

func (a *AdjustField) Description() string {
	sign := ""
	if a.Delta.IsPositive() {
		sign = "+"
	}
	return fmt.Sprintf("Adjust %s by %s%s", a.Field, sign, a.Delta.String())
}

func (a *AdjustField) Validate(base domain.RawInputRecord) error {
	if a.Field == "" {
		return NewTransformError(a.Name(), "validate", "field cannot be empty", nil)
	}
	if base == nil {
		return NewTransformError(a.Name(), "validate", "base record cannot be nil", nil)
	}
	if a.Default == nil && len(numericLocations(base, a.Field)) == 0 {
		return NewTransformError(a.Name(), "validate", fmt.Sprintf("field %s not found in record and no default given", a.Field), nil)
	}
	return nil
}

func (a *AdjustField) Apply(base domain.RawInputRecord) (domain.RawInputRecord, error) {
	modified := base.Clone()
	locs := numericLocations(modified, a.Field)
	if len(locs) == 0 {
		modified[canonicalKey(a.Field)] = recordValue(a.Default.Add(a.Delta))
		return modified, nil
	}
	for _, l := range locs {
		v, _ := l.num()
		l.set(recordValue(v.Add(a.Delta)))
	}
	return modified, nil
}

// RemoveField deletes every key holding a field. Removing an absent field is
// not an error.
type RemoveField struct {
	Field string
}

func (r *RemoveField) Name() string { return "remove" }

func (r *RemoveField) Description() string {
	return fmt.Sprintf("Remove %s", r.Field)
}

func (r *RemoveField) Validate(base domain.RawInputRecord) error {
	if r.Field == "" {
		return NewTransformError(r.Name(), "validate", "field cannot be empty", nil)
	}
	if base == nil {
		return NewTransformError(r.Name(), "validate", "base record cannot be nil", nil)
	}
	return nil
}

func (r *RemoveField) Apply(base domain.RawInputRecord) (domain.RawInputRecord, error) {
	modified := base.Clone()
	for _, l := range locate(modified, r.Field) {
		l.remove()
	}
	return modified, nil
}

// FundEmergency raises the emergency fund to a number of months of expenses.
// A fund already above the target is left alone.
type FundEmergency struct {
	Months decimal.Decimal
}

func (fe *FundEmergency) Name() string { return "fund_emergency" }

func (fe *FundEmergency) Description() string {
	return fmt.Sprintf("Build the emergency fund to %s months of expenses", fe.Months.String())
}

func (fe *FundEmergency) Validate(base domain.RawInputRecord) error {
	if !fe.Months.IsPositive() {
		return NewTransformError(fe.Name(), "validate", fmt.Sprintf("months must be positive, got %s", fe.Months.String()), nil)
	}
	if base == nil {
		return NewTransformError(fe.Name(), "validate", "base record cannot be nil", nil)
	}
	if _, ok := monthlyExpenses(base); !ok {
		return NewTransformError(fe.Name(), "validate", "record has no monthly expenses", nil)
	}
	return nil
}

func (fe *FundEmergency) Apply(base domain.RawInputRecord) (domain.RawInputRecord, error) {
	expenses, ok := monthlyExpenses(base)
	if !ok {
		return nil, NewTransformError(fe.Name(), "apply", "record has no monthly expenses", nil)
	}
	target := expenses.Mul(fe.Months)

	modified := base.Clone()
	current := decimal.Zero
	for _, l := range locate(modified, fields.EmergencyFund) {
		if v, ok := l.num(); ok {
			current = current.Add(v)
		}
		l.remove()
	}
	modified[fields.EmergencyFund] = recordValue(decimal.Max(current, target))
	return modified, nil
}

func monthlyExpenses(record domain.RawInputRecord) (decimal.Decimal, bool) {
	if v, ok := fields.ExpenseTotal(record); ok && v.IsPositive() {
		return v, true
	}
	v, ok := resolver.Number(record, fields.Sum(), fields.MonthlyExpenses)
	return v, ok && v.IsPositive()
}

// ReduceDebt scales every debt payment, both the debt categories of the
// expenses object and flat debt payment fields
type ReduceDebt struct {
	Factor decimal.Decimal
}

var debtCategories = []string{"mortgage", "carLoan", "creditCard", "otherDebt"}

func (rd *ReduceDebt) Name() string { return "reduce_debt" }

func (rd *ReduceDebt) Description() string {
	return fmt.Sprintf("Reduce debt payments to %s%% of today", rd.Factor.Shift(2).String())
}

func (rd *ReduceDebt) Validate(base domain.RawInputRecord) error {
	if rd.Factor.IsNegative() || rd.Factor.GreaterThan(decimal.NewFromInt(1)) {
		return NewTransformError(rd.Name(), "validate", fmt.Sprintf("factor must be between 0 and 1, got %s", rd.Factor.String()), nil)
	}
	if base == nil {
		return NewTransformError(rd.Name(), "validate", "base record cannot be nil", nil)
	}
	if _, ok := fields.DebtPayments(base); !ok && len(numericLocations(base, fields.MonthlyDebtPayments)) == 0 {
		return NewTransformError(rd.Name(), "validate", "record has no debt payments", nil)
	}
	return nil
}

func (rd *ReduceDebt) Apply(base domain.RawInputRecord) (domain.RawInputRecord, error) {
	modified := base.Clone()
	if expenses, ok := modified["expenses"].(map[string]any); ok {
		for _, c := range debtCategories {
			if v, ok := fields.ParseNumber(expenses[c]); ok {
				expenses[c] = recordValue(v.Mul(rd.Factor))
			}
		}
	}
	for _, l := range numericLocations(modified, fields.MonthlyDebtPayments) {
		v, _ := l.num()
		l.set(recordValue(v.Mul(rd.Factor)))
	}
	return modified, nil
}

// SaveIncomeShare adds a share of monthly salary to additional monthly savings
type SaveIncomeShare struct {
	Percent decimal.Decimal
}

func (s *SaveIncomeShare) Name() string { return "save_income_share" }

func (s *SaveIncomeShare) Description() string {
	return fmt.Sprintf("Save an extra %s%% of salary every month", s.Percent.String())
}

func (s *SaveIncomeShare) Validate(base domain.RawInputRecord) error {
	if !s.Percent.IsPositive() || s.Percent.GreaterThan(decimal.NewFromInt(100)) {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("percent must be in (0, 100], got %s", s.Percent.String()), nil)
	}
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base record cannot be nil", nil)
	}
	if salary, ok := resolver.Number(base, fields.Sum(), fields.Salary); !ok || !salary.IsPositive() {
		return NewTransformError(s.Name(), "validate", "record has no salary", nil)
	}
	return nil
}

func (s *SaveIncomeShare) Apply(base domain.RawInputRecord) (domain.RawInputRecord, error) {
	salary, _ := resolver.Number(base, fields.Sum(), fields.Salary)
	extra := salary.Mul(s.Percent).Div(decimal.NewFromInt(100)).Round(2)
	zero := decimal.Zero
	adjust := &AdjustField{Field: fields.AdditionalMonthlySavings, Delta: extra, Default: &zero}
	return adjust.Apply(base)
}

var resolver = fields.NewResolver()
