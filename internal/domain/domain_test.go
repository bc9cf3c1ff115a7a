package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawInputRecord_Mode(t *testing.T) {
	tests := []struct {
		name     string
		record   RawInputRecord
		expected PlanningMode
	}{
		{"empty", RawInputRecord{}, PlanningIndividual},
		{"couple", RawInputRecord{"planningType": "couple"}, PlanningCouple},
		{"married alias", RawInputRecord{"planType": " Married "}, PlanningCouple},
		{"individual", RawInputRecord{"planning_type": "individual"}, PlanningIndividual},
		{"non-string", RawInputRecord{"planningType": 2}, PlanningIndividual},
		{"nested in step", RawInputRecord{"step1": map[string]any{"planningType": "couple"}}, PlanningCouple},
		{"top level wins over step", RawInputRecord{"planningType": "individual", "step1": map[string]any{"planningType": "couple"}}, PlanningIndividual},
		{"later step", RawInputRecord{"step1": map[string]any{"other": 1}, "step3": map[string]any{"planType": "joint"}}, PlanningCouple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Mode(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestRawInputRecord_Step(t *testing.T) {
	record := RawInputRecord{
		"step2": map[string]any{"salary": 15000},
		"step3": "flat",
	}

	step, ok := record.Step(2)
	require.True(t, ok)
	assert.Equal(t, 15000, step["salary"])

	_, ok = record.Step(3)
	assert.False(t, ok)
	_, ok = record.Step(4)
	assert.False(t, ok)
}

func TestRawInputRecord_CloneIsDeep(t *testing.T) {
	original := RawInputRecord{
		"salary":   10000,
		"step2":    map[string]any{"pensionEmployeeRate": 6},
		"accounts": []any{map[string]any{"balance": 100}},
	}

	clone := original.Clone()
	clone["salary"] = 1
	clone["step2"].(map[string]any)["pensionEmployeeRate"] = 9
	clone["accounts"].([]any)[0].(map[string]any)["balance"] = 0

	assert.Equal(t, 10000, original["salary"])
	assert.Equal(t, 6, original["step2"].(map[string]any)["pensionEmployeeRate"])
	assert.Equal(t, 100, original["accounts"].([]any)[0].(map[string]any)["balance"])

	var nilRecord RawInputRecord
	assert.NotNil(t, nilRecord.Clone())
}

func TestFactorStatus(t *testing.T) {
	assert.True(t, StatusFair.IsTier())
	assert.False(t, StatusUnknown.IsTier())
	assert.True(t, StatusNoData.IsMissingData())
	assert.False(t, StatusError.IsMissingData())
	assert.False(t, StatusError.IsTier())
}

func TestFactorDetails_HasMetrics(t *testing.T) {
	d := FactorDetails{Metrics: map[string]decimal.Decimal{"a": decimal.Zero, "b": decimal.NewFromInt(1)}}
	assert.True(t, d.HasMetrics("a", "b"))
	assert.False(t, d.HasMetrics("a", "c"))

	v, ok := d.Metric("b")
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(1)))
}

func TestScoreBreakdown_OrderedFactors(t *testing.T) {
	b := &ScoreBreakdown{Factors: map[ScoreFactor]FactorResult{
		FactorDebtManagement: {Factor: FactorDebtManagement},
		FactorSavingsRate:    {Factor: FactorSavingsRate},
	}}

	ordered := b.OrderedFactors()
	require.Len(t, ordered, 2)
	assert.Equal(t, FactorSavingsRate, ordered[0].Factor)
	assert.Equal(t, FactorDebtManagement, ordered[1].Factor)
}

func TestPeerBand_Contains(t *testing.T) {
	band := PeerBand{MinAge: 30, MaxAge: 39}
	assert.True(t, band.Contains(30))
	assert.True(t, band.Contains(39))
	assert.False(t, band.Contains(40))
	assert.False(t, band.Contains(29))

	open := PeerBand{MinAge: 60}
	assert.True(t, open.Contains(95))
}

func TestScoringRules_Weight(t *testing.T) {
	var nilRules *ScoringRules
	assert.True(t, nilRules.Weight(FactorSavingsRate).IsZero())
	assert.True(t, nilRules.TotalWeight().IsZero())
}

func TestValidationIssues(t *testing.T) {
	issues := []ValidationIssue{
		{Field: "currentAge", Severity: SeverityWarning, Message: "unusual"},
	}
	assert.False(t, HasErrors(issues))
	assert.Equal(t, "[warning] currentAge: unusual", issues[0].String())

	issues = append(issues, ValidationIssue{Field: "salary", Severity: SeverityError, Message: "negative"})
	assert.True(t, HasErrors(issues))
}
