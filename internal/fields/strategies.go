package fields

import "github.com/rgehrsitz/finhealth/internal/domain"

// StrategyKind tags the resolution strategy that produced a value
type StrategyKind string

const (
	StrategyNone           StrategyKind = ""
	StrategyMapped         StrategyKind = "mapped"
	StrategyDictionary     StrategyKind = "dictionary"
	StrategyDirectKey      StrategyKind = "direct_key"
	StrategyNestedStep     StrategyKind = "nested_step"
	StrategyPartnerSum     StrategyKind = "partner_sum"
	StrategyPartnerAverage StrategyKind = "partner_average"
	StrategyHeuristic      StrategyKind = "heuristic_fallback"
	StrategyStructural     StrategyKind = "structural"
	StrategyDefaultZero    StrategyKind = "default_zero"
)

// CombineMethod selects how partner-scoped values are merged
type CombineMethod string

const (
	CombineSum     CombineMethod = "sum"
	CombineAverage CombineMethod = "average"
)

// MaxStep is the highest nested stepN sub-map probed
const MaxStep = domain.MaxStep

// Options control a single resolution
type Options struct {
	// CombinePartners merges partner1/partner2 values in couple plans
	CombinePartners bool
	// AllowZero returns 0 instead of Missing when nothing resolves
	AllowZero bool
	// ExpectString forces text typing
	ExpectString bool
	// CombineMethod defaults to CombineSum
	CombineMethod CombineMethod
}

// Sum returns options for a partner-summed amount
func Sum() Options {
	return Options{CombinePartners: true, CombineMethod: CombineSum}
}

// Average returns options for a partner-averaged rate
func Average() Options {
	return Options{CombinePartners: true, CombineMethod: CombineAverage}
}

func (o Options) method() CombineMethod {
	if o.CombineMethod == CombineAverage {
		return CombineAverage
	}
	return CombineSum
}

// OptionsFor returns the usual options for resolving a canonical field on its
// own: partner amounts are summed, rates averaged, ages and text taken as is
func OptionsFor(name string) Options {
	def, ok := Lookup(name)
	if !ok {
		return Sum()
	}
	switch def.Kind {
	case KindAmount:
		return Sum()
	case KindRate:
		return Average()
	case KindText:
		return Options{ExpectString: true}
	default:
		return Options{}
	}
}
