package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

// Report is everything a formatter renders for one scored record
type Report struct {
	Title       string                   `json:"title"`
	Breakdown   domain.ScoreBreakdown    `json:"breakdown"`
	Issues      []domain.ValidationIssue `json:"issues,omitempty"`
	Assumptions []string                 `json:"assumptions,omitempty"`
}

const defaultTitle = "Financial Health Score"

// NewReport wraps a breakdown for rendering
func NewReport(title string, breakdown domain.ScoreBreakdown) *Report {
	if title == "" {
		title = defaultTitle
	}
	return &Report{Title: title, Breakdown: breakdown}
}

// WithIssues attaches validation findings
func (r *Report) WithIssues(issues []domain.ValidationIssue) *Report {
	r.Issues = issues
	return r
}

// WithAssumptions attaches the rendered rule assumptions
func (r *Report) WithAssumptions(assumptions []string) *Report {
	r.Assumptions = assumptions
	return r
}

func (r *Report) title() string {
	if r.Title == "" {
		return defaultTitle
	}
	return r.Title
}

// Formatter renders a report in one output format
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a function into a Formatter
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

var formatters = []Formatter{
	ConsoleFormatter{},
	ConsoleLiteFormatter{},
	JSONFormatter{},
	CSVFormatter{},
	DetailedCSVFormatter{},
	HTMLFormatter{},
	PDFFormatter{},
}

var formatAliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"text":            "console-lite",
	"lite":            "console-lite",
	"metrics-csv":     "detailed-csv",
}

// GetFormatterByName returns the formatter registered under name or alias,
// or nil
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	for _, f := range formatters {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// AvailableFormatterNames lists the registered formatter names
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	return names
}

// AvailableFormatAliases lists the accepted aliases
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for a := range formatAliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

// FileExtension returns the file extension for a formatter's output
func FileExtension(f Formatter) string {
	switch f.Name() {
	case "json", "html", "pdf":
		return f.Name()
	case "csv", "detailed-csv":
		return "csv"
	}
	return "txt"
}

// WriteFormatted renders the report and writes it to a timestamped file in
// the working directory, returning the file name
func WriteFormatted(f Formatter, report *Report, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("finhealth_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return filename, nil
}
