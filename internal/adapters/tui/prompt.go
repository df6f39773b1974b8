package tui

import (
	"fmt"
	"strings"

	"moderation-console/internal/core/domain"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// decisionPrompt - окно выбора причины для отклонения или доработки.
// Причина выбрана всегда, по умолчанию "Другое".
type decisionPrompt struct {
	action    domain.DecisionAction
	reasonIdx int
	comment   textinput.Model
}

func newDecisionPrompt(action domain.DecisionAction) *decisionPrompt {
	comment := textinput.New()
	comment.Prompt = "Комментарий: "
	comment.Placeholder = "необязательно"
	comment.CharLimit = 500
	comment.Cursor.SetMode(cursor.CursorStatic)

	idx := 0
	for i, r := range domain.RejectionReasons {
		if r == domain.ReasonOther {
			idx = i
		}
	}
	return &decisionPrompt{action: action, reasonIdx: idx, comment: comment}
}

func (p *decisionPrompt) reason() domain.RejectionReason {
	return domain.RejectionReasons[p.reasonIdx]
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.prompt

	switch msg.Type {
	case tea.KeyEsc:
		m.prompt = nil
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		if p.comment.Focused() {
			p.comment.Blur()
			return m, nil
		}
		return m, p.comment.Focus()
	case tea.KeyEnter:
		d := domain.Decision{
			Action:  p.action,
			Reason:  p.reason(),
			Comment: strings.TrimSpace(p.comment.Value()),
		}
		m.prompt = nil
		return m, m.decideCmd(m.currentID, d)
	}

	if p.comment.Focused() {
		var cmd tea.Cmd
		p.comment, cmd = p.comment.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if p.reasonIdx > 0 {
			p.reasonIdx--
		}
	case "down", "j":
		if p.reasonIdx < len(domain.RejectionReasons)-1 {
			p.reasonIdx++
		}
	}
	return m, nil
}

func (p *decisionPrompt) view() string {
	var b strings.Builder
	title := "Отклонение объявления"
	if p.action == domain.ActionRequestChanges {
		title = "Возврат на доработку"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	for i, r := range domain.RejectionReasons {
		line := fmt.Sprintf("( ) %s", r)
		if i == p.reasonIdx {
			line = fmt.Sprintf("(•) %s", r)
			if !p.comment.Focused() {
				line = selectedStyle.Render(line)
			}
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + p.comment.View() + "\n\n")
	b.WriteString(mutedStyle.Render("↑/↓ причина · tab комментарий · enter подтвердить · esc отмена"))
	return boxStyle.Render(b.String())
}
