package fields

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/calculation"
	"github.com/rgehrsitz/finhealth/internal/domain"
)

// Resolver locates logical quantities in a raw input record.
// A Resolver holds no per-call state and is safe for concurrent use.
type Resolver struct {
	logger         calculation.Logger
	netSalary      calculation.NetSalaryCalculator
	flatTaxRates   map[string]decimal.Decimal
	defaultCountry string
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the diagnostic logger; nil means no logging
func WithLogger(l calculation.Logger) Option {
	return func(r *Resolver) { r.logger = calculation.OrNop(l) }
}

// WithNetSalaryCalculator sets the collaborator used to invert net salaries.
// A nil calculator forces the flat-rate fallback.
func WithNetSalaryCalculator(c calculation.NetSalaryCalculator) Option {
	return func(r *Resolver) { r.netSalary = c }
}

// WithFlatTaxRates replaces the fallback rates used for net to gross conversion
func WithFlatTaxRates(rates map[string]decimal.Decimal) Option {
	return func(r *Resolver) {
		if len(rates) > 0 {
			r.flatTaxRates = rates
		}
	}
}

// WithDefaultCountry sets the country assumed when the record names none
func WithDefaultCountry(country string) Option {
	return func(r *Resolver) {
		if country != "" {
			r.defaultCountry = calculation.NormalizeCountry(country)
		}
	}
}

// NewResolver creates a resolver backed by the built-in bracket tax tables
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		logger:         calculation.NopLogger{},
		netSalary:      calculation.NewBracketTaxCalculator(),
		flatTaxRates:   DefaultFlatTaxRates(),
		defaultCountry: "israel",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the best value for the candidate names. Strategies are tried
// in a fixed order and the first success wins: mapped keys, dictionary
// aliases, direct keys, nested steps, partner combination, heuristic
// fallback keys and structural lookups. Resolve never panics on malformed
// records; anything unusable counts as absent.
func (r *Resolver) Resolve(record domain.RawInputRecord, names []string, opts Options) Value {
	if v, ok := r.resolve(record, names, opts); ok {
		return v
	}
	r.traceMiss(record, names)
	if opts.AllowZero && !r.isText(names, opts) {
		return numberValue(decimal.Zero, "", StrategyDefaultZero)
	}
	return Value{}
}

// Number resolves a numeric quantity
func (r *Resolver) Number(record domain.RawInputRecord, opts Options, names ...string) (decimal.Decimal, bool) {
	v := r.Resolve(record, names, opts)
	if v.Kind != Number {
		return decimal.Zero, false
	}
	return v.Number, true
}

// Text resolves a string quantity
func (r *Resolver) Text(record domain.RawInputRecord, names ...string) (string, bool) {
	v := r.Resolve(record, names, Options{ExpectString: true})
	if v.Kind != Text {
		return "", false
	}
	return v.Text, true
}

// Country returns the record's normalized country, or the default country
func (r *Resolver) Country(record domain.RawInputRecord) string {
	def := byName[Country]
	for _, key := range def.Variants {
		if s, ok := r.probeText(record, key); ok {
			return calculation.NormalizeCountry(s)
		}
	}
	return r.defaultCountry
}

func (r *Resolver) resolve(record domain.RawInputRecord, names []string, opts Options) (Value, bool) {
	if len(record) == 0 || len(names) == 0 {
		return Value{}, false
	}
	text := r.isText(names, opts)
	couple := opts.CombinePartners && record.Mode() == domain.PlanningCouple
	primary := definitionFor(names)

	for _, name := range names {
		def, ok := Lookup(name)
		if !ok {
			continue
		}
		for _, key := range mappedKeys[def.Name] {
			if v, ok := r.valueAt(record, record[key], key, def, text, StrategyMapped); ok {
				return v, true
			}
		}
	}

	for _, name := range names {
		def, ok := Lookup(name)
		if !ok {
			continue
		}
		for _, key := range def.Variants {
			if couple && isPartnerScoped(key) {
				continue
			}
			if v, ok := r.valueAt(record, record[key], key, def, text, StrategyDictionary); ok {
				return v, true
			}
		}
	}

	if !couple {
		for _, name := range names {
			if v, ok := r.valueAt(record, record[name], name, primary, text, StrategyDirectKey); ok {
				return v, true
			}
		}

		candidates := expandCandidates(names)
		for n := 1; n <= MaxStep; n++ {
			step, ok := record.Step(n)
			if !ok {
				continue
			}
			for _, key := range candidates {
				if v, ok := r.valueAt(record, step[key], key, primary, text, StrategyNestedStep); ok {
					return v, true
				}
			}
		}
	}

	if couple {
		if v, ok := r.combinePartners(record, names, primary, text, opts.method()); ok {
			return v, true
		}
	}

	for _, key := range fallbackKeys(names) {
		if v, ok := r.valueAt(record, record[key], key, primary, text, StrategyHeuristic); ok {
			return v, true
		}
	}

	if !text {
		if d, key, ok := structural(record, names); ok {
			return numberValue(d, key, StrategyStructural), true
		}
	}
	return Value{}, false
}

func (r *Resolver) combinePartners(record domain.RawInputRecord, names []string, def *FieldDef, text bool, method CombineMethod) (Value, bool) {
	for _, p := range partnerPairs(names) {
		var found []Value
		for _, key := range []string{p.first, p.second} {
			if v, ok := r.partnerSide(record, key, def, text); ok {
				found = append(found, v)
			}
		}
		if len(found) == 0 {
			continue
		}
		if text {
			return found[0], true
		}

		total := decimal.Zero
		for _, v := range found {
			total = total.Add(v.Number)
		}
		key := p.first + "+" + p.second
		if method == CombineAverage {
			return numberValue(total.Div(decimal.NewFromInt(int64(len(found)))), key, StrategyPartnerAverage), true
		}
		return numberValue(total, key, StrategyPartnerSum), true
	}
	return Value{}, false
}

// partnerSide looks for one partner key in the nested steps, then flat
func (r *Resolver) partnerSide(record domain.RawInputRecord, key string, def *FieldDef, text bool) (Value, bool) {
	for n := 1; n <= MaxStep; n++ {
		if step, ok := record.Step(n); ok {
			if v, ok := r.valueAt(record, step[key], key, def, text, StrategyNestedStep); ok {
				return v, true
			}
		}
	}
	return r.valueAt(record, record[key], key, def, text, StrategyDirectKey)
}

// valueAt types a raw value and applies salary post-processing
func (r *Resolver) valueAt(record domain.RawInputRecord, raw any, key string, def *FieldDef, text bool, strategy StrategyKind) (Value, bool) {
	if !isPresent(raw) {
		return Value{}, false
	}
	if text {
		s, ok := ParseText(raw)
		if !ok {
			return Value{}, false
		}
		return textValue(s, key, strategy), true
	}

	d, ok := ParseNumber(raw)
	if !ok {
		return Value{}, false
	}
	d = adjustMonthly(d, key, def)
	if isNetIncomeKey(key) && (def == nil || def.Name != NetSalary) {
		d = r.GrossFromNet(d, r.Country(record))
	}
	return numberValue(d, key, strategy), true
}

func (r *Resolver) probeText(record domain.RawInputRecord, key string) (string, bool) {
	if s, ok := record[key].(string); ok && s != "" {
		return s, true
	}
	for n := 1; n <= MaxStep; n++ {
		if step, ok := record.Step(n); ok {
			if s, ok := step[key].(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func (r *Resolver) isText(names []string, opts Options) bool {
	if opts.ExpectString {
		return true
	}
	for _, name := range names {
		if IsStringField(name) {
			return true
		}
	}
	return false
}

func (r *Resolver) traceMiss(record domain.RawInputRecord, names []string) {
	if _, nop := r.logger.(calculation.NopLogger); nop || len(names) == 0 {
		return
	}
	nearest, dist := NearestKnown(names[0])
	r.logger.Debugf("fields: no value for %v in record with %d keys (nearest known alias %q, distance %d)",
		names, len(record), nearest, dist)
}

// definitionFor returns the canonical definition of the first known candidate
func definitionFor(names []string) *FieldDef {
	for _, name := range names {
		if def, ok := Lookup(name); ok {
			return def
		}
	}
	return nil
}

// expandCandidates adds every alias of each candidate's canonical field,
// partner-scoped ones included
func expandCandidates(names []string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, name := range names {
		add(name)
		if def, ok := Lookup(name); ok {
			for _, v := range def.Variants {
				add(v)
			}
		}
	}
	return out
}
