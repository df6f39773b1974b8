package tui

import (
	"moderation-console/internal/core/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder(), false, false, true, false)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	flashStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	urgentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(14)
)

var statusColors = map[domain.AdStatus]lipgloss.Color{
	domain.StatusPending:  lipgloss.Color("214"),
	domain.StatusApproved: lipgloss.Color("42"),
	domain.StatusRejected: lipgloss.Color("196"),
	domain.StatusDraft:    lipgloss.Color("244"),
}

func statusBadge(s domain.AdStatus) string {
	return lipgloss.NewStyle().Foreground(statusColors[s]).Render(s.Label())
}
