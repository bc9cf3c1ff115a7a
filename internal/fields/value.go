package fields

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ValueKind tags what a resolution produced
type ValueKind int

const (
	Missing ValueKind = iota
	Number
	Text
)

// Value is the outcome of a resolution: nothing, a number, or a string.
// Key and Strategy record where the value was found.
type Value struct {
	Kind     ValueKind
	Number   decimal.Decimal
	Text     string
	Key      string
	Strategy StrategyKind
}

// Found reports whether the resolution produced a value
func (v Value) Found() bool { return v.Kind != Missing }

// Decimal returns the numeric value, or zero when missing or textual
func (v Value) Decimal() decimal.Decimal {
	if v.Kind == Number {
		return v.Number
	}
	return decimal.Zero
}

// String returns the textual value, or the formatted number
func (v Value) String() string {
	switch v.Kind {
	case Text:
		return v.Text
	case Number:
		return v.Number.String()
	default:
		return ""
	}
}

func numberValue(d decimal.Decimal, key string, strategy StrategyKind) Value {
	return Value{Kind: Number, Number: d, Key: key, Strategy: strategy}
}

func textValue(s, key string, strategy StrategyKind) Value {
	return Value{Kind: Text, Text: s, Key: key, Strategy: strategy}
}

var numberCleaner = strings.NewReplacer(",", "", " ", "", "%", "", "$", "", "₪", "", "£", "", "€", "")

// Numbers outside these bounds are treated as absent.
const maxExponent = 30

var maxMagnitude = decimal.New(1, 18)

// ParseNumber converts a raw record value to a decimal. Booleans, empty
// strings, NaN, infinities, unparseable text and magnitudes of 1e18 or more
// are reported as absent.
func ParseNumber(raw any) (decimal.Decimal, bool) {
	d, ok := parseNumber(raw)
	if !ok || !inRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

func inRange(d decimal.Decimal) bool {
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return false
	}
	return d.Abs().LessThan(maxMagnitude)
}

func parseNumber(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case int32:
		return decimal.NewFromInt32(v), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(v)), 0), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0), true
	case string:
		s := numberCleaner.Replace(strings.TrimSpace(v))
		if s == "" || len(s) > maxNumberLength {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case fmt.Stringer:
		return parseNumber(v.String())
	default:
		return decimal.Zero, false
	}
}

// maxNumberLength bounds the text handed to the decimal parser
const maxNumberLength = 64

// ParseText converts a raw record value to a trimmed string. Nested
// structures and empty strings are reported as absent.
func ParseText(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case bool:
		return fmt.Sprintf("%t", v), true
	case map[string]any, []any:
		return "", false
	default:
		if d, ok := ParseNumber(v); ok {
			return d.String(), true
		}
		return "", false
	}
}

// isPresent reports whether a raw value counts as supplied
func isPresent(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	}
	return true
}
