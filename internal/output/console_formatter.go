package output

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

// ConsoleFormatter renders the detailed, styled terminal report
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	b := report.Breakdown

	fmt.Fprintln(&buf, titleStyle.Render(report.title()))
	overall := lipgloss.NewStyle().Bold(true).Foreground(overallColor(b.Status)).Render(OverallLabel(b.Status))
	fmt.Fprintln(&buf, scoreBoxStyle.Render(fmt.Sprintf("Score %d / 100   %s", b.TotalScore, overall)))

	fmt.Fprintln(&buf, sectionStyle.Render("FACTORS"))
	for _, r := range b.OrderedFactors() {
		fmt.Fprintf(&buf, "%s %5s / %-3s %s  %s\n",
			labelStyle.Render(FactorLabel(r.Factor)),
			FormatScore(r.Score), r.Weight.String(),
			scoreBar(r.Score, r.Weight),
			statusStyle(r.Details.Status).Render(StatusLabel(r.Details.Status)))
		if r.Details.Message != "" {
			fmt.Fprintf(&buf, "    %s\n", mutedStyle.Render(r.Details.Message))
		}
		for _, name := range sortedKeys(r.Details.Metrics) {
			fmt.Fprintf(&buf, "    %-24s %s\n", name+":", FormatMetric(name, r.Details.Metrics[name]))
		}
		for _, name := range sortedKeys(r.Details.Labels) {
			fmt.Fprintf(&buf, "    %-24s %s\n", name+":", r.Details.Labels[name])
		}
	}

	if len(b.Suggestions) > 0 {
		fmt.Fprintln(&buf, sectionStyle.Render("SUGGESTIONS"))
		for i, s := range b.Suggestions {
			fmt.Fprintf(&buf, "%d. [%s] %s (%s)\n", i+1, s.Priority, FactorLabel(s.Category), s.Impact)
			fmt.Fprintf(&buf, "   %s\n", s.Issue)
			fmt.Fprintf(&buf, "   → %s\n", s.Action)
		}
	}

	if pc := b.PeerComparison; pc != nil {
		fmt.Fprintln(&buf, sectionStyle.Render("PEER COMPARISON"))
		fmt.Fprintf(&buf, "Age group %s: your score %d, average %d, top quartile %d\n",
			pc.AgeGroup, pc.YourScore, pc.PeerAverage, pc.TopQuartile)
		fmt.Fprintf(&buf, "You score better than about %d%% of your peers\n", pc.Percentile)
	}

	writeIssues(&buf, report.Issues, sectionStyle.Render("INPUT ISSUES"))

	if len(report.Assumptions) > 0 {
		fmt.Fprintln(&buf, sectionStyle.Render("KEY ASSUMPTIONS"))
		for _, a := range report.Assumptions {
			fmt.Fprintf(&buf, "• %s\n", mutedStyle.Render(a))
		}
	}
	return buf.Bytes(), nil
}

// ConsoleLiteFormatter renders a compact plain-text summary
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	b := report.Breakdown

	fmt.Fprintln(&buf, "FINANCIAL HEALTH SCORE SUMMARY")
	fmt.Fprintf(&buf, "Total: %d/100 (%s)\n", b.TotalScore, OverallLabel(b.Status))
	for _, r := range b.OrderedFactors() {
		fmt.Fprintf(&buf, "- %-22s %5s/%-3s %s\n", FactorLabel(r.Factor), FormatScore(r.Score), r.Weight.String(), StatusLabel(r.Details.Status))
	}
	if len(b.Suggestions) > 0 {
		top := b.Suggestions[0]
		fmt.Fprintf(&buf, "Top suggestion: %s (%s)\n", top.Action, top.Impact)
	}
	if pc := b.PeerComparison; pc != nil {
		fmt.Fprintf(&buf, "Peers %s: percentile %d\n", pc.AgeGroup, pc.Percentile)
	}
	writeIssues(&buf, report.Issues, "Input issues:")
	return buf.Bytes(), nil
}

func writeIssues(buf *bytes.Buffer, issues []domain.ValidationIssue, header string) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(buf, header)
	for _, i := range issues {
		fmt.Fprintf(buf, "  %s\n", i.String())
	}
}
