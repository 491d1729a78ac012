package cmd

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#54A0FF"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#696969"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FECA57"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FECA57")).Padding(0, 1)
	headerStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#54A0FF")).
			Padding(0, 1)
)
