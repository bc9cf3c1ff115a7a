package transform

import (
	"fmt"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

// RecordTransform defines the interface for all what-if record transformations.
// Transforms are composable operations that modify a record in predictable
// ways, enabling score comparison between a plan and its alternatives.
type RecordTransform interface {
	// Apply transforms a base record and returns a new modified record.
	// The base record is never modified.
	Apply(base domain.RawInputRecord) (domain.RawInputRecord, error)

	// Name returns a short identifier for this transform (e.g., "scale").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks if the transform can be applied without applying it.
	Validate(base domain.RawInputRecord) error
}

// ApplyTransforms applies a sequence of transforms to a base record.
// Transforms are applied in order, with each transform receiving the output of the previous one.
func ApplyTransforms(base domain.RawInputRecord, transforms []RecordTransform) (domain.RawInputRecord, error) {
	if base == nil {
		return nil, fmt.Errorf("base record cannot be nil")
	}

	current := base.Clone()
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
