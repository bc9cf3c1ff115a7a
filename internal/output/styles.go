package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

var (
	colorPrimary = lipgloss.Color("#5A56E0")
	colorSuccess = lipgloss.Color("#2E9E5B")
	colorWarning = lipgloss.Color("#D99A1E")
	colorDanger  = lipgloss.Color("#D64545")
	colorMuted   = lipgloss.Color("#8A8F98")
	colorBorder  = lipgloss.Color("#3C3F58")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)

	scoreBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().Width(22)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// statusColor maps factor statuses onto the palette
func statusColor(s domain.FactorStatus) lipgloss.Color {
	switch s {
	case domain.StatusExcellent, domain.StatusGood:
		return colorSuccess
	case domain.StatusFair:
		return colorWarning
	case domain.StatusPoor, domain.StatusCritical, domain.StatusError:
		return colorDanger
	}
	return colorMuted
}

func overallColor(s domain.OverallStatus) lipgloss.Color {
	switch s {
	case domain.OverallExcellent, domain.OverallGood:
		return colorSuccess
	case domain.OverallNeedsWork:
		return colorWarning
	}
	return colorDanger
}

func statusStyle(s domain.FactorStatus) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColor(s))
}

const barWidth = 20

// scoreBar renders score/weight as a fixed-width bar
func scoreBar(score, weight decimal.Decimal) string {
	filled := 0
	if weight.IsPositive() {
		filled = int(score.Div(weight).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	}
	filled = max(0, min(barWidth, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
