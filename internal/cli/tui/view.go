package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderTitleBar())

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.status != nil {
		sections = append(sections, m.renderStatus())
	}

	if len(m.settings) > 0 {
		sections = append(sections, m.renderSettings())
	}

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar() string {
	title := titleStyle.Render("GOBLIN")

	refreshInfo := fmt.Sprintf("↻ %s", m.config.RefreshInterval)
	if m.loading {
		refreshInfo = "↻ loading..."
	}

	help := helpStyle.Render("q:quit r:refresh ↑↓:scroll")

	rightPart := fmt.Sprintf("%s | %s", refreshInfo, help)
	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(rightPart) - 2
	if spacing < 1 {
		spacing = 1
	}

	return fmt.Sprintf("%s%s%s", title, strings.Repeat(" ", spacing), helpStyle.Render(rightPart))
}

func (m Model) renderStatus() string {
	anomalyBar := m.renderProgressBar("Anomaly", m.status.Anomaly.Recent*50, 20)
	cpuBar := m.renderProgressBar("CPU", m.status.CPUPercent, 20)
	memBar := m.renderProgressBar("Memory", m.status.MemPercent, 20)

	ticks := fmt.Sprintf("  Ticks: %d", m.status.TickCount)

	return fmt.Sprintf("  %s    %s    %s\n%s", anomalyBar, cpuBar, memBar, helpStyle.Render(ticks))
}

func (m Model) renderProgressBar(label string, percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	color := getProgressColor(percent)
	filledBar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyBar := progressBarEmptyStyle.Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("%s [%s%s] %5.1f%%", labelStyle.Render(label), filledBar, emptyBar, percent)
}

func (m Model) renderSettings() string {
	var lines []string
	lines = append(lines, sectionHeaderStyle.Render("  Settings"))

	header := fmt.Sprintf("  %-28s │ %6s │ %s", "Setting", "Choice", "Options")
	lines = append(lines, tableHeaderStyle.Render(header))

	maxVisible := 8
	start := m.tableOffset
	end := start + maxVisible
	if end > len(m.settings) {
		end = len(m.settings)
	}
	if start >= len(m.settings) {
		start = 0
		end = maxVisible
		if end > len(m.settings) {
			end = len(m.settings)
		}
	}

	for _, s := range m.settings[start:end] {
		id := s.ID
		if len(id) > 28 {
			id = id[:25] + "..."
		}

		choice := "-"
		if s.Choice != nil {
			choice = fmt.Sprintf("%d", *s.Choice)
		}

		row := fmt.Sprintf("  %-28s │ %6s │ %v", id, choice, s.Options)
		lines = append(lines, tableCellStyle.Render(row))
	}

	if len(m.settings) > maxVisible {
		scrollInfo := fmt.Sprintf("  [%d-%d of %d settings]", start+1, end, len(m.settings))
		lines = append(lines, helpStyle.Render(scrollInfo))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	if m.status == nil {
		return ""
	}

	updated := m.lastUpdated.Format("15:04:05")

	return helpStyle.Render(fmt.Sprintf("  Anomaly latest: %.3f │ Updated: %s", m.status.Anomaly.Latest, updated))
}
