package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	switch m.screen {
	case screenDetail:
		b.WriteString(m.viewDetail())
	case screenStats:
		b.WriteString(m.viewStats())
	default:
		b.WriteString(m.viewList())
	}

	b.WriteString("\n\n")
	if m.flash != "" {
		if m.flashErr {
			b.WriteString(errorStyle.Render(m.flash))
		} else {
			b.WriteString(flashStyle.Render(m.flash))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(m.bindings()))
	return b.String()
}

func (m Model) viewHeader() string {
	line := titleStyle.Render("Модерация объявлений")
	if m.moderator != nil {
		line += mutedStyle.Render(" · " + m.moderator.Name)
	}
	if m.screen == screenList {
		if addr := m.deps.List.Snapshot().Address; addr != "" {
			line += mutedStyle.Render("  ?" + addr)
		}
	}
	return headerStyle.Render(line)
}

func (m Model) bindings() []key.Binding {
	if m.prompt != nil {
		return nil
	}
	switch m.screen {
	case screenDetail:
		return m.detailBindings()
	case screenStats:
		return []key.Binding{keys.Period, keys.Refresh, keys.Back, keys.Quit}
	}
	if m.search.Focused() || m.price.Focused() {
		return nil
	}
	return []key.Binding{
		keys.Open, keys.Search, keys.ToggleStatus, keys.Category, keys.Price, keys.Sort, keys.Order,
		keys.NextPage, keys.PrevPage, keys.Reset, keys.HistBack, keys.HistFwd, keys.Stats, keys.Quit,
	}
}
