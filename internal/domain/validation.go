package domain

import "fmt"

// IssueSeverity classifies a validation finding
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ValidationIssue describes one problem found in a raw input record
type ValidationIssue struct {
	Field    string        `json:"field" yaml:"field"`
	Severity IssueSeverity `json:"severity" yaml:"severity"`
	Message  string        `json:"message" yaml:"message"`
}

func (vi ValidationIssue) String() string {
	return fmt.Sprintf("[%s] %s: %s", vi.Severity, vi.Field, vi.Message)
}

// HasErrors reports whether any issue is an error
func HasErrors(issues []ValidationIssue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
