package transform

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

func createTestRecord() domain.RawInputRecord {
	return domain.RawInputRecord{
		"planningType":         "individual",
		"currentAge":           40,
		"currentMonthlySalary": 10000,
		"pensionEmployeeRate":  6,
		"expenses": map[string]any{
			"rent":     3000,
			"food":     2000,
			"mortgage": 1000,
		},
		"step3": map[string]any{
			"emergencyFund": 12000,
		},
	}
}

func number(t *testing.T, v any) float64 {
	t.Helper()
	f, ok := v.(float64)
	if !ok {
		n, isInt := v.(int)
		if !isInt {
			t.Fatalf("expected a number, got %T (%v)", v, v)
		}
		return float64(n)
	}
	return f
}

func TestApplyTransforms_NilBase(t *testing.T) {
	_, err := ApplyTransforms(nil, nil)
	if err == nil {
		t.Error("expected error for nil base record")
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestRecord(), []RecordTransform{nil})
	if err == nil {
		t.Error("expected error for nil transform")
	}
}

func TestApplyTransforms_DoesNotModifyBase(t *testing.T) {
	base := createTestRecord()
	transforms := []RecordTransform{
		&ScaleField{Field: "salary", Factor: decimal.NewFromFloat(1.5)},
		&FundEmergency{Months: decimal.NewFromInt(6)},
		&ReduceDebt{Factor: decimal.Zero},
	}

	modified, err := ApplyTransforms(base, transforms)
	require.NoError(t, err)

	assert.Equal(t, 10000, base["currentMonthlySalary"])
	assert.Equal(t, 1000, base["expenses"].(map[string]any)["mortgage"])
	step, _ := base.Step(3)
	assert.Equal(t, 12000, step["emergencyFund"])

	assert.Equal(t, 15000.0, number(t, modified["currentMonthlySalary"]))
	assert.Equal(t, 0.0, number(t, modified["expenses"].(map[string]any)["mortgage"]))
}

func TestApplyTransforms_Chained(t *testing.T) {
	transforms := []RecordTransform{
		&AdjustField{Field: "pensionEmployeeRate", Delta: decimal.NewFromInt(1)},
		&AdjustField{Field: "pensionEmployeeRate", Delta: decimal.NewFromInt(1)},
	}
	modified, err := ApplyTransforms(createTestRecord(), transforms)
	require.NoError(t, err)
	assert.Equal(t, 8.0, number(t, modified["pensionEmployeeRate"]))
}

func TestApplyTransforms_ValidationErrorIsWrapped(t *testing.T) {
	transforms := []RecordTransform{&ScaleField{Field: "rsuUnits", Factor: decimal.NewFromInt(2)}}
	_, err := ApplyTransforms(createTestRecord(), transforms)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transform scale validation failed")

	var terr *TransformError
	assert.True(t, errors.As(err, &terr))
}

func TestSetField(t *testing.T) {
	base := domain.RawInputRecord{"step1": map[string]any{"monthlySalary": 8000}}

	modified, err := (&SetField{Field: "salary", Value: 9000.0}).Apply(base)
	require.NoError(t, err)
	step, _ := modified.Step(1)
	assert.Equal(t, 9000.0, step["monthlySalary"])
	_, topLevel := modified["salary"]
	assert.False(t, topLevel, "existing nested key should be updated in place")

	modified, err = (&SetField{Field: "riskTolerance", Value: "aggressive"}).Apply(base)
	require.NoError(t, err)
	assert.Equal(t, "aggressive", modified["riskTolerance"])
}

func TestSetField_Validate(t *testing.T) {
	if err := (&SetField{}).Validate(createTestRecord()); err == nil {
		t.Error("expected error for empty field")
	}
}

func TestScaleField(t *testing.T) {
	base := createTestRecord()
	base["partner1Salary"] = 4000

	st := &ScaleField{Field: "salary", Factor: decimal.NewFromFloat(1.1)}
	require.NoError(t, st.Validate(base))
	modified, err := st.Apply(base)
	require.NoError(t, err)

	assert.Equal(t, 11000.0, number(t, modified["currentMonthlySalary"]))
	assert.Equal(t, 4400.0, number(t, modified["partner1Salary"]))
	assert.Equal(t, "Scale salary by 1.1", st.Description())
}

func TestScaleField_Validate(t *testing.T) {
	tests := []struct {
		name      string
		transform *ScaleField
	}{
		{"empty field", &ScaleField{Factor: decimal.NewFromInt(1)}},
		{"negative factor", &ScaleField{Field: "salary", Factor: decimal.NewFromInt(-1)}},
		{"missing field", &ScaleField{Field: "annualBonus", Factor: decimal.NewFromInt(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.transform.Validate(createTestRecord()); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestAdjustField(t *testing.T) {
	base := createTestRecord()

	modified, err := (&AdjustField{Field: "pensionEmployeeRate", Delta: decimal.NewFromInt(2)}).Apply(base)
	require.NoError(t, err)
	assert.Equal(t, 8.0, number(t, modified["pensionEmployeeRate"]))

	def := decimal.NewFromInt(67)
	at := &AdjustField{Field: "retirementAge", Delta: decimal.NewFromInt(2), Default: &def}
	require.NoError(t, at.Validate(base))
	modified, err = at.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, 69.0, number(t, modified["retirementAge"]))
	assert.Equal(t, "Adjust retirementAge by +2", at.Description())
}

func TestAdjustField_MissingWithoutDefault(t *testing.T) {
	at := &AdjustField{Field: "retirementAge", Delta: decimal.NewFromInt(2)}
	if err := at.Validate(createTestRecord()); err == nil {
		t.Error("expected error when field is missing and no default is given")
	}
}

func TestRemoveField(t *testing.T) {
	base := createTestRecord()
	base["emergencySavings"] = 500

	modified, err := (&RemoveField{Field: "emergencyFund"}).Apply(base)
	require.NoError(t, err)

	_, ok := modified["emergencySavings"]
	assert.False(t, ok)
	step, _ := modified.Step(3)
	_, ok = step["emergencyFund"]
	assert.False(t, ok)

	// absent field is a no-op
	_, err = ApplyTransforms(base, []RecordTransform{&RemoveField{Field: "annualBonus"}})
	assert.NoError(t, err)
}

func TestFundEmergency(t *testing.T) {
	base := createTestRecord()

	fe := &FundEmergency{Months: decimal.NewFromInt(6)}
	require.NoError(t, fe.Validate(base))
	modified, err := fe.Apply(base)
	require.NoError(t, err)

	// expenses total 6000, so the target is 36000
	assert.Equal(t, 36000.0, number(t, modified["emergencyFund"]))
	step, _ := modified.Step(3)
	_, ok := step["emergencyFund"]
	assert.False(t, ok, "nested fund should be consolidated")
}

func TestFundEmergency_KeepsLargerFund(t *testing.T) {
	base := createTestRecord()
	base["emergencyFund"] = 50000

	modified, err := (&FundEmergency{Months: decimal.NewFromInt(3)}).Apply(base)
	require.NoError(t, err)
	assert.Equal(t, 62000.0, number(t, modified["emergencyFund"]))
}

func TestFundEmergency_UsesMonthlyExpenses(t *testing.T) {
	base := domain.RawInputRecord{"monthlyExpenses": 4000}
	modified, err := ApplyTransforms(base, []RecordTransform{&FundEmergency{Months: decimal.NewFromInt(3)}})
	require.NoError(t, err)
	assert.Equal(t, 12000.0, number(t, modified["emergencyFund"]))
}

func TestFundEmergency_Validate(t *testing.T) {
	if err := (&FundEmergency{Months: decimal.NewFromInt(6)}).Validate(domain.RawInputRecord{}); err == nil {
		t.Error("expected error without expenses")
	}
	if err := (&FundEmergency{Months: decimal.Zero}).Validate(createTestRecord()); err == nil {
		t.Error("expected error for zero months")
	}
}

func TestReduceDebt(t *testing.T) {
	base := createTestRecord()
	base["step2"] = map[string]any{"monthlyDebtPayments": 800}

	rd := &ReduceDebt{Factor: decimal.NewFromFloat(0.5)}
	require.NoError(t, rd.Validate(base))
	modified, err := rd.Apply(base)
	require.NoError(t, err)

	expenses := modified["expenses"].(map[string]any)
	assert.Equal(t, 500.0, number(t, expenses["mortgage"]))
	assert.Equal(t, 3000, expenses["rent"], "living expenses are untouched")
	step, _ := modified.Step(2)
	assert.Equal(t, 400.0, number(t, step["monthlyDebtPayments"]))
	assert.Equal(t, "Reduce debt payments to 50% of today", rd.Description())
}

func TestReduceDebt_Validate(t *testing.T) {
	if err := (&ReduceDebt{Factor: decimal.NewFromFloat(1.5)}).Validate(createTestRecord()); err == nil {
		t.Error("expected error for factor above 1")
	}
	if err := (&ReduceDebt{Factor: decimal.NewFromFloat(0.5)}).Validate(domain.RawInputRecord{"salary": 1000}); err == nil {
		t.Error("expected error without debt")
	}
}

func TestSaveIncomeShare(t *testing.T) {
	base := createTestRecord()

	modified, err := ApplyTransforms(base, []RecordTransform{&SaveIncomeShare{Percent: decimal.NewFromInt(5)}})
	require.NoError(t, err)
	assert.Equal(t, 500.0, number(t, modified["additionalMonthlySavings"]))

	base["monthlySavings"] = 300
	modified, err = ApplyTransforms(base, []RecordTransform{&SaveIncomeShare{Percent: decimal.NewFromInt(5)}})
	require.NoError(t, err)
	assert.Equal(t, 800.0, number(t, modified["monthlySavings"]))
	_, added := modified["additionalMonthlySavings"]
	assert.False(t, added)
}

func TestSaveIncomeShare_Validate(t *testing.T) {
	if err := (&SaveIncomeShare{Percent: decimal.NewFromInt(5)}).Validate(domain.RawInputRecord{}); err == nil {
		t.Error("expected error without salary")
	}
	if err := (&SaveIncomeShare{Percent: decimal.NewFromInt(150)}).Validate(createTestRecord()); err == nil {
		t.Error("expected error for percent above 100")
	}
}

func TestTransformError(t *testing.T) {
	cause := errors.New("underlying")
	err := NewTransformError("scale", "validate", "bad factor", cause)
	assert.Equal(t, "transform scale (validate): bad factor: underlying", err.Error())
	assert.ErrorIs(t, err, cause)

	err = NewTransformError("scale", "validate", "bad factor", nil)
	assert.Equal(t, "transform scale (validate): bad factor", err.Error())
}

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec     string
		wantName string
		wantErr  bool
	}{
		{"scale:field=salary,factor=1.1", "scale", false},
		{"adjust:field=retirementAge,delta=2,default=67", "adjust", false},
		{"set:field=country,value=USA", "set", false},
		{"remove:field=annualBonus", "remove", false},
		{"fund_emergency:months=6", "fund_emergency", false},
		{"reduce_debt:factor=0.5", "reduce_debt", false},
		{"save_income_share:percent=5", "save_income_share", false},
		{"scale", "", true},
		{"unknown:field=x", "", true},
		{"scale:field=salary,factor=abc", "", true},
		{"scale:field=salary,factor=1e200000000", "", true},
		{"scale:field=salary,factor", "", true},
		{"adjust:delta=2", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.Name() != tt.wantName {
				t.Errorf("expected %s, got %s", tt.wantName, tr.Name())
			}
		})
	}
}

func TestTransformRegistry_ParsedValues(t *testing.T) {
	registry := NewTransformRegistry()

	tr, err := registry.ParseTransformSpec("adjust:field=retirementAge,delta=2,default=67")
	require.NoError(t, err)
	adjust := tr.(*AdjustField)
	require.NotNil(t, adjust.Default)
	assert.True(t, adjust.Default.Equal(decimal.NewFromInt(67)))

	tr, err = registry.ParseTransformSpec("set:field=country,value=USA")
	require.NoError(t, err)
	assert.Equal(t, "USA", tr.(*SetField).Value)

	tr, err = registry.ParseTransformSpec("set:field=currentAge,value=45")
	require.NoError(t, err)
	assert.Equal(t, 45.0, tr.(*SetField).Value)
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	assert.Equal(t, []string{"adjust", "fund_emergency", "reduce_debt", "remove", "save_income_share", "scale", "set"}, names)
}
