package transform

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
)

// location is one concrete key holding a logical field
type location struct {
	container map[string]any
	key       string
	path      string
}

func (l location) get() any                     { return l.container[l.key] }
func (l location) set(v any)                    { l.container[l.key] = v }
func (l location) remove()                      { delete(l.container, l.key) }
func (l location) num() (decimal.Decimal, bool) { return fields.ParseNumber(l.get()) }

// candidateKeys lists the concrete keys a logical field may be stored under,
// partner-scoped variants included
func candidateKeys(field string) []string {
	seen := map[string]bool{}
	var keys []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	add(field)
	def, ok := fields.Lookup(field)
	if !ok {
		return keys
	}
	add(def.Name)
	for _, v := range def.Variants {
		add(v)
		if !strings.HasPrefix(strings.ToLower(v), "partner") {
			upper := strings.ToUpper(v[:1]) + v[1:]
			add("partner1" + upper)
			add("partner2" + upper)
		}
	}
	return keys
}

// canonicalKey is where a field is written when the record does not carry it
func canonicalKey(field string) string {
	if def, ok := fields.Lookup(field); ok {
		return def.Name
	}
	return field
}

// locate finds every key holding the field, top level first, then step1..step10
func locate(record domain.RawInputRecord, field string) []location {
	keys := candidateKeys(field)
	var out []location
	visit := func(container map[string]any, prefix string) {
		for _, k := range keys {
			if _, ok := container[k]; ok {
				out = append(out, location{container: container, key: k, path: prefix + k})
			}
		}
	}

	visit(record, "")
	for n := 1; n <= fields.MaxStep; n++ {
		if step, ok := record.Step(n); ok {
			visit(step, fmt.Sprintf("step%d.", n))
		}
	}
	return out
}

// numericLocations keeps the locations whose value parses as a number
func numericLocations(record domain.RawInputRecord, field string) []location {
	var out []location
	for _, l := range locate(record, field) {
		if _, ok := l.num(); ok {
			out = append(out, l)
		}
	}
	return out
}

// recordValue converts a decimal into the plain number type records carry
func recordValue(d decimal.Decimal) any {
	return d.InexactFloat64()
}

// parseValue types a value from a transform string: numbers become float64, anything else stays text
func parseValue(s string) any {
	if d, ok := fields.ParseNumber(strings.TrimSpace(s)); ok {
		return recordValue(d)
	}
	return s
}
