package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/codemap/internal/index"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// outcomeStyle picks a color for one update outcome.
func outcomeStyle(outcome index.UpdateOutcome) lipgloss.Style {
	switch outcome {
	case index.OutcomeSkipped:
		return warnStyle
	case index.OutcomeRemoved:
		return errorStyle
	default:
		return okStyle
	}
}
