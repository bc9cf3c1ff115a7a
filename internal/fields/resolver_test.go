package fields

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/finhealth/internal/calculation"
	"github.com/rgehrsitz/finhealth/internal/domain"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Debugf(format string, args ...any) { l.add(format, args...) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.add(format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.add(format, args...) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.add(format, args...) }

func (l *recordingLogger) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestResolve_AliasEquivalence(t *testing.T) {
	r := NewResolver(WithNetSalaryCalculator(nil))

	for _, def := range Definitions() {
		if def.Kind == KindText {
			continue
		}
		var first decimal.Decimal
		for i, variant := range def.Variants {
			record := domain.RawInputRecord{variant: 1500}
			v := r.Resolve(record, []string{def.Name}, Options{})
			require.Equal(t, Number, v.Kind, "%s via %s", def.Name, variant)
			if i == 0 {
				first = v.Number
				continue
			}
			assert.True(t, first.Equal(v.Number), "%s via %s: got %s want %s", def.Name, variant, v.Number, first)
		}
	}
}

func TestResolve_SalaryVariantsResolveIdentically(t *testing.T) {
	r := NewResolver()
	a := r.Resolve(domain.RawInputRecord{"currentMonthlySalary": 15000}, []string{Salary}, Options{})
	b := r.Resolve(domain.RawInputRecord{"monthlySalary": 15000}, []string{Salary}, Options{})
	assert.Equal(t, StrategyMapped, a.Strategy)
	assert.True(t, a.Number.Equal(b.Number))
	assert.True(t, a.Number.Equal(dec(15000)))
}

func TestResolve_TextFields(t *testing.T) {
	r := NewResolver()
	record := domain.RawInputRecord{"riskProfile": "  Aggressive ", "country": "ISR"}

	v := r.Resolve(record, []string{RiskTolerance}, Options{})
	assert.Equal(t, Text, v.Kind)
	assert.Equal(t, "Aggressive", v.Text)

	s, ok := r.Text(record, Country)
	assert.True(t, ok)
	assert.Equal(t, "ISR", s)
	assert.Equal(t, "israel", r.Country(record))
	assert.Equal(t, "israel", r.Country(domain.RawInputRecord{}))
}

func TestResolve_ParsingTreatsGarbageAsAbsent(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name  string
		raw   any
		found bool
		want  float64
	}{
		{"formatted string", "12,500", true, 12500},
		{"percent string", "12.5%", true, 12.5},
		{"currency string", "$1,000", true, 1000},
		{"empty string", "", false, 0},
		{"text", "lots", false, 0},
		{"bool", true, false, 0},
		{"nil", nil, false, 0},
		{"nested", map[string]any{"a": 1}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := r.Resolve(domain.RawInputRecord{"pensionEmployeeRate": tt.raw}, []string{PensionEmployeeRate}, Options{})
			assert.Equal(t, tt.found, v.Found())
			if tt.found {
				assert.True(t, v.Number.Equal(dec(tt.want)), "got %s", v.Number)
			}
		})
	}
}

func TestResolve_MissingAndAllowZero(t *testing.T) {
	r := NewResolver()

	v := r.Resolve(domain.RawInputRecord{}, []string{Salary}, Options{})
	assert.False(t, v.Found())

	v = r.Resolve(domain.RawInputRecord{"unrelated": 3}, []string{Salary}, Options{AllowZero: true})
	assert.Equal(t, Number, v.Kind)
	assert.True(t, v.Number.IsZero())
	assert.Equal(t, StrategyDefaultZero, v.Strategy)

	v = r.Resolve(nil, []string{Salary}, Options{})
	assert.False(t, v.Found())
}

func TestResolve_StrategyOrder(t *testing.T) {
	r := NewResolver()

	t.Run("direct key for unknown names", func(t *testing.T) {
		v := r.Resolve(domain.RawInputRecord{"customMetric": 42}, []string{"customMetric"}, Options{})
		assert.Equal(t, StrategyDirectKey, v.Strategy)
		assert.True(t, v.Number.Equal(dec(42)))
	})

	t.Run("nested step", func(t *testing.T) {
		record := domain.RawInputRecord{"step3": map[string]any{"pensionRate": 6}}
		v := r.Resolve(record, []string{PensionEmployeeRate}, Options{})
		assert.Equal(t, StrategyNestedStep, v.Strategy)
		assert.True(t, v.Number.Equal(dec(6)))
	})

	t.Run("heuristic fallback", func(t *testing.T) {
		record := domain.RawInputRecord{"bitcoin": 30000}
		v := r.Resolve(record, []string{CurrentCrypto}, Options{})
		assert.Equal(t, StrategyHeuristic, v.Strategy)
		assert.True(t, v.Number.Equal(dec(30000)))
	})

	t.Run("dictionary beats heuristic", func(t *testing.T) {
		record := domain.RawInputRecord{"bitcoin": 30000, "cryptoBalance": 100}
		v := r.Resolve(record, []string{CurrentCrypto}, Options{})
		assert.Equal(t, StrategyDictionary, v.Strategy)
		assert.True(t, v.Number.Equal(dec(100)))
	})

	t.Run("normalized candidate", func(t *testing.T) {
		record := domain.RawInputRecord{"trainingFund": 50000}
		v := r.Resolve(record, []string{"Current_Training-Fund"}, Options{})
		assert.Equal(t, StrategyDictionary, v.Strategy)
		assert.True(t, v.Number.Equal(dec(50000)))
	})
}

func TestResolve_Structural(t *testing.T) {
	r := NewResolver()
	record := domain.RawInputRecord{
		"expenses": map[string]any{
			"housing":    4000,
			"food":       2000,
			"mortgage":   3000,
			"carLoan":    "1,000",
			"creditCard": 500,
		},
		"portfolioAllocations": []any{
			map[string]any{"name": "Bonds", "percentage": 40},
			map[string]any{"name": "Global Equities", "percentage": 60},
		},
	}

	debt := r.Resolve(record, []string{MonthlyDebtPayments}, Options{})
	assert.Equal(t, StrategyStructural, debt.Strategy)
	assert.True(t, debt.Number.Equal(dec(4500)), "got %s", debt.Number)

	expenses := r.Resolve(record, []string{MonthlyExpenses}, Options{})
	assert.True(t, expenses.Number.Equal(dec(10500)), "got %s", expenses.Number)

	stock := r.Resolve(record, []string{StockPercentage}, Options{})
	assert.True(t, stock.Number.Equal(dec(60)))
}

func TestResolve_PartnerCombination(t *testing.T) {
	r := NewResolver()

	t.Run("salaries are summed", func(t *testing.T) {
		record := domain.RawInputRecord{"planningType": "couple", "partner1Salary": 10000, "partner2Salary": 8000}
		v := r.Resolve(record, []string{Salary}, Sum())
		require.Equal(t, Number, v.Kind)
		assert.Equal(t, StrategyPartnerSum, v.Strategy)
		assert.True(t, v.Number.Equal(dec(18000)), "got %s", v.Number)
	})

	t.Run("rates are averaged", func(t *testing.T) {
		record := domain.RawInputRecord{"planningType": "couple", "partner1Rate": 10, "partner2Rate": 20}
		v := r.Resolve(record, []string{"rate"}, Average())
		assert.Equal(t, StrategyPartnerAverage, v.Strategy)
		assert.True(t, v.Number.Equal(dec(15)), "got %s", v.Number)
	})

	t.Run("pension rates from nested steps", func(t *testing.T) {
		record := domain.RawInputRecord{
			"planningType": "couple",
			"step2":        map[string]any{"partner1PensionEmployeeRate": 6, "partner2PensionEmployeeRate": 7},
		}
		v := r.Resolve(record, []string{PensionEmployeeRate}, Average())
		assert.True(t, v.Number.Equal(dec(6.5)), "got %s", v.Number)
	})

	t.Run("single side averages over what was found", func(t *testing.T) {
		record := domain.RawInputRecord{"planningType": "couple", "partner2TrainingFundRate": 5}
		v := r.Resolve(record, []string{TrainingFundEmployeeRate}, Average())
		assert.True(t, v.Number.Equal(dec(5)))
	})

	t.Run("individual plans take partner1 alias only", func(t *testing.T) {
		record := domain.RawInputRecord{"partner1Salary": 10000, "partner2Salary": 8000}
		v := r.Resolve(record, []string{Salary}, Sum())
		assert.Equal(t, StrategyDictionary, v.Strategy)
		assert.True(t, v.Number.Equal(dec(10000)))
	})

	t.Run("couple without combine keeps first alias", func(t *testing.T) {
		record := domain.RawInputRecord{"planningType": "couple", "partner1Salary": 10000, "partner2Salary": 8000}
		v := r.Resolve(record, []string{Salary}, Options{})
		assert.True(t, v.Number.Equal(dec(10000)))
	})
}

func TestResolve_MonthlyPlausibility(t *testing.T) {
	r := NewResolver()

	v := r.Resolve(domain.RawInputRecord{"monthlySalary": 240000}, []string{Salary}, Options{})
	assert.True(t, v.Number.Equal(dec(20000)), "got %s", v.Number)

	v = r.Resolve(domain.RawInputRecord{"currentPensionSavings": 240000}, []string{CurrentPensionSavings}, Options{})
	assert.True(t, v.Number.Equal(dec(240000)))
}

func TestResolve_NetToGross(t *testing.T) {
	t.Run("bracket inversion", func(t *testing.T) {
		calc := calculation.NewBracketTaxCalculator()
		r := NewResolver(WithNetSalaryCalculator(calc))

		v := r.Resolve(domain.RawInputRecord{"netSalary": 10000, "country": "israel"}, []string{Salary}, Options{})
		require.Equal(t, Number, v.Kind)
		assert.Equal(t, StrategyHeuristic, v.Strategy)
		assert.True(t, v.Number.GreaterThan(dec(10000)))

		check, err := calc.NetSalary(v.Number, "israel")
		require.NoError(t, err)
		assert.True(t, check.NetSalary.Sub(dec(10000)).Abs().LessThan(dec(0.05)), "net of %s is %s", v.Number, check.NetSalary)
	})

	t.Run("flat fallback without calculator", func(t *testing.T) {
		r := NewResolver(WithNetSalaryCalculator(nil))
		v := r.Resolve(domain.RawInputRecord{"netSalary": 7600, "country": "usa"}, []string{Salary}, Options{})
		assert.True(t, v.Number.Equal(dec(10000)), "got %s", v.Number)
	})

	t.Run("flat fallback for unsupported country", func(t *testing.T) {
		r := NewResolver()
		v := r.Resolve(domain.RawInputRecord{"netSalary": 7500, "country": "france"}, []string{Salary}, Options{})
		assert.True(t, v.Number.Equal(dec(10000)), "got %s", v.Number)
	})

	t.Run("net salary requested directly stays net", func(t *testing.T) {
		r := NewResolver()
		v := r.Resolve(domain.RawInputRecord{"netSalary": 7500}, []string{NetSalary}, Options{})
		assert.True(t, v.Number.Equal(dec(7500)))
	})
}

func TestResolve_TracesMissesWithNearestAlias(t *testing.T) {
	logger := &recordingLogger{}
	r := NewResolver(WithLogger(logger))

	r.Resolve(domain.RawInputRecord{"x": 1}, []string{"monthlySalery"}, Options{})
	require.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], `"monthlySalary"`)
}

func TestResolve_DoesNotMutateRecord(t *testing.T) {
	r := NewResolver()
	record := domain.RawInputRecord{
		"planningType": "couple",
		"netSalary":    "9,000",
		"expenses":     map[string]any{"mortgage": 1000},
	}
	before := record.Clone()
	r.Resolve(record, []string{Salary}, Sum())
	r.Resolve(record, []string{MonthlyDebtPayments}, Options{})
	assert.Equal(t, before, record)
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("salary", "salary"))
	assert.Equal(t, 1, editDistance("salary", "salery"))
	assert.Equal(t, 3, editDistance("kitten", "sitting"))
	assert.Equal(t, 4, editDistance("", "abcd"))
}

func TestIsStringField(t *testing.T) {
	assert.True(t, IsStringField("riskTolerance"))
	assert.True(t, IsStringField("partner1_country"))
	assert.True(t, IsStringField("rsuVestingFrequency"))
	assert.False(t, IsStringField("cryptocurrency"))
	assert.False(t, IsStringField("salary"))
}

func TestOptionsFor(t *testing.T) {
	assert.Equal(t, Sum(), OptionsFor(Salary))
	assert.Equal(t, Average(), OptionsFor("pensionRate"))
	assert.True(t, OptionsFor(Country).ExpectString)
	assert.Equal(t, Options{}, OptionsFor(CurrentAge))
	assert.Equal(t, Sum(), OptionsFor("somethingUnknown"))
}

func TestResolve_NestedPartnerAliases(t *testing.T) {
	r := NewResolver()

	t.Run("individual plan finds nested partner1 alias", func(t *testing.T) {
		flat := r.Resolve(domain.RawInputRecord{"partner1Salary": 10000}, []string{Salary}, Sum())
		nested := r.Resolve(domain.RawInputRecord{"step2": map[string]any{"partner1Salary": 10000}}, []string{Salary}, Sum())
		require.True(t, nested.Found())
		assert.Equal(t, StrategyNestedStep, nested.Strategy)
		assert.True(t, flat.Number.Equal(nested.Number), "flat %s nested %s", flat.Number, nested.Number)
	})

	t.Run("couple declared in a step sums nested partners", func(t *testing.T) {
		record := domain.RawInputRecord{
			"step1": map[string]any{"planningType": "couple"},
			"step2": map[string]any{"partner1Salary": 10000, "partner2Salary": 8000},
		}
		v := r.Resolve(record, []string{Salary}, Sum())
		require.Equal(t, Number, v.Kind)
		assert.Equal(t, StrategyPartnerSum, v.Strategy)
		assert.True(t, v.Number.Equal(dec(18000)), "got %s", v.Number)
	})
}

func TestParseNumber_Magnitude(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		found bool
		want  float64
	}{
		{"huge exponent string", "1e200000000", false, 0},
		{"tiny exponent string", "1e-200000000", false, 0},
		{"long digit string", "1" + fmt.Sprintf("%080d", 0), false, 0},
		{"exponent within range", "1.5e4", true, 15000},
		{"huge float", 1e300, false, 0},
		{"huge decimal", decimal.New(1, 500000), false, 0},
		{"max uint64", uint64(18446744073709551615), false, 0},
		{"small uint64", uint64(15000), true, 15000},
		{"uint", uint(42), true, 42},
		{"negative in range", -2500, true, -2500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ParseNumber(tt.raw)
			if ok != tt.found {
				t.Fatalf("expected found=%v, got %v (%s)", tt.found, ok, d)
			}
			if tt.found && !d.Equal(dec(tt.want)) {
				t.Errorf("expected %v, got %s", tt.want, d)
			}
		})
	}

	v := NewResolver().Resolve(domain.RawInputRecord{"currentMonthlySalary": "1e200000000"}, []string{Salary}, Options{})
	assert.False(t, v.Found())
}
