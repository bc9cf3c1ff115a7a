package scoring

import (
	"github.com/rgehrsitz/finhealth/internal/domain"
)

// CalculationError records a factor evaluation that failed
type CalculationError struct {
	Factor    domain.ScoreFactor
	Operation string
	Message   string
	Cause     error
}

func (e *CalculationError) Error() string {
	prefix := string(e.Factor) + ": " + e.Operation
	if e.Cause != nil {
		return prefix + ": " + e.Message + ": " + e.Cause.Error()
	}
	return prefix + ": " + e.Message
}

func (e *CalculationError) Unwrap() error {
	return e.Cause
}
