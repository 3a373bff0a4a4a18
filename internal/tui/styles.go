package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mlvnd/banner/internal/present"
)

// Severity color palette (adaptive light/dark variants).
var (
	lowColor = lipgloss.AdaptiveColor{Light: "#3b82f6", Dark: "#7aa2f7"}

	normalColor = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#9ece6a"}

	criticalColor = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f7768e"}

	summaryStyle = lipgloss.NewStyle().Bold(true)

	bodyStyle = lipgloss.NewStyle().Faint(true)
)

// severityColor returns the accent color for a severity level.
func severityColor(severity int) lipgloss.AdaptiveColor {
	switch severity {
	case present.SeverityLow:
		return lowColor
	case present.SeverityCritical:
		return criticalColor
	default:
		return normalColor
	}
}

// bannerWidth clamps the rendered width to the config's MaxWidth and
// the container, leaving room for the border.
func bannerWidth(cfg *present.Config, containerWidth int) int {
	width := cfg.MaxWidth
	if width <= 0 {
		width = 60
	}
	if containerWidth > 0 && width > containerWidth-2 {
		width = containerWidth - 2
	}
	if width < 10 {
		width = 10
	}
	return width
}

// renderView renders a view as a bordered, severity-colored box. A
// pre-rendered Content replaces the default summary/body composition.
func renderView(view *present.View, cfg *present.Config, containerWidth int) string {
	color := severityColor(view.Severity)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(bannerWidth(cfg, containerWidth))

	if view.Content != "" {
		return box.Render(view.Content)
	}

	content := summaryStyle.Foreground(color).Render(view.Summary)
	if view.Body != "" {
		content += "\n" + bodyStyle.Render(view.Body)
	}
	return box.Render(content)
}
