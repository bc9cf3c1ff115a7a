package domain

import (
	"strconv"
	"strings"
)

// RawInputRecord is the flatly keyed input produced by the planning wizard.
// Keys are not normalized: the same quantity can appear under many aliases,
// nested under step1..step10, or inside structured values such as the
// "expenses" map and the "portfolioAllocations" list.
//
// The scoring core treats a record as read-only. Anything that needs a
// modified record must work on Clone().
type RawInputRecord map[string]any

// PlanningMode determines whether partner-scoped values are combined
type PlanningMode string

const (
	PlanningIndividual PlanningMode = "individual"
	PlanningCouple     PlanningMode = "couple"
)

// Mode returns the planning mode declared by the record, at the top level
// or in the first stepN map that declares one. Anything other than an
// explicit couple plan is treated as individual.
func (r RawInputRecord) Mode() PlanningMode {
	if v, ok := planningType(r); ok {
		return modeOf(v)
	}
	for n := 1; n <= MaxStep; n++ {
		if step, ok := r.Step(n); ok {
			if v, ok := planningType(step); ok {
				return modeOf(v)
			}
		}
	}
	return PlanningIndividual
}

// MaxStep is the highest stepN map the wizard produces
const MaxStep = 10

func planningType(m map[string]any) (string, bool) {
	for _, key := range []string{"planningType", "planning_type", "planType"} {
		if v, ok := m[key].(string); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

func modeOf(v string) PlanningMode {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "couple", "joint", "married":
		return PlanningCouple
	}
	return PlanningIndividual
}

// Step returns the nested step map (step1..step10) if present
func (r RawInputRecord) Step(n int) (map[string]any, bool) {
	v, ok := r[stepKey(n)]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// Clone returns a deep copy of the record. Nested maps and slices are copied
// so that transforms never alias the caller's data.
func (r RawInputRecord) Clone() RawInputRecord {
	if r == nil {
		return RawInputRecord{}
	}
	out := make(RawInputRecord, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case RawInputRecord:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}

func stepKey(n int) string {
	return "step" + strconv.Itoa(n)
}
