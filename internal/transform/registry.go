package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/fields"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (RecordTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	// Field edits
	registry.Register("set", createSetField)
	registry.Register("scale", createScaleField)
	registry.Register("adjust", createAdjustField)
	registry.Register("remove", createRemoveField)

	// Behavioral changes
	registry.Register("fund_emergency", createFundEmergency)
	registry.Register("reduce_debt", createReduceDebt)
	registry.Register("save_income_share", createSaveIncomeShare)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (RecordTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "scale:field=salary,factor=1.1"
func (r *TransformRegistry) ParseTransformSpec(spec string) (RecordTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func requireParam(transform string, params map[string]string, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return v, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	s, err := requireParam(transform, params, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, ok := fields.ParseNumber(s)
	if !ok {
		return decimal.Zero, fmt.Errorf("invalid %s value: %q", key, s)
	}
	return d, nil
}

func createSetField(params map[string]string) (RecordTransform, error) {
	field, err := requireParam("set", params, "field")
	if err != nil {
		return nil, err
	}
	value, ok := params["value"]
	if !ok {
		return nil, fmt.Errorf("set requires 'value' parameter")
	}
	return &SetField{Field: field, Value: parseValue(value)}, nil
}

func createScaleField(params map[string]string) (RecordTransform, error) {
	field, err := requireParam("scale", params, "field")
	if err != nil {
		return nil, err
	}
	factor, err := decimalParam("scale", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleField{Field: field, Factor: factor}, nil
}

func createAdjustField(params map[string]string) (RecordTransform, error) {
	field, err := requireParam("adjust", params, "field")
	if err != nil {
		return nil, err
	}
	delta, err := decimalParam("adjust", params, "delta")
	if err != nil {
		return nil, err
	}

	adjust := &AdjustField{Field: field, Delta: delta}
	if _, ok := params["default"]; ok {
		def, err := decimalParam("adjust", params, "default")
		if err != nil {
			return nil, err
		}
		adjust.Default = &def
	}
	return adjust, nil
}

func createRemoveField(params map[string]string) (RecordTransform, error) {
	field, err := requireParam("remove", params, "field")
	if err != nil {
		return nil, err
	}
	return &RemoveField{Field: field}, nil
}

func createFundEmergency(params map[string]string) (RecordTransform, error) {
	months, err := decimalParam("fund_emergency", params, "months")
	if err != nil {
		return nil, err
	}
	return &FundEmergency{Months: months}, nil
}

func createReduceDebt(params map[string]string) (RecordTransform, error) {
	factor, err := decimalParam("reduce_debt", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ReduceDebt{Factor: factor}, nil
}

func createSaveIncomeShare(params map[string]string) (RecordTransform, error) {
	percent, err := decimalParam("save_income_share", params, "percent")
	if err != nil {
		return nil, err
	}
	return &SaveIncomeShare{Percent: percent}, nil
}
