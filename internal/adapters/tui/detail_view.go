package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/moderation"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Back):
		m.deps.Engine.Forget(m.currentID)
		m.currentID = 0
		m.screen = screenList
		return m, m.refetchCmd()
	case key.Matches(msg, keys.RequestChanges):
		if !m.deps.Engine.CanRequestChanges(m.currentID) {
			m.setFlash("Возврат на доработку недоступен", true)
			return m, nil
		}
		m.prompt = newDecisionPrompt(domain.ActionRequestChanges)
	case key.Matches(msg, keys.Refresh):
		return m, m.loadItemCmd(m.currentID)
	case key.Matches(msg, keys.Stats):
		m.screen = screenStats
		return m, m.loadStatsCmd(m.statsPeriod)
	}
	return m, nil
}

func (m Model) viewDetail() string {
	snap := m.deps.Engine.Snapshot(m.currentID)

	switch {
	case snap.View == moderation.ItemNotFound:
		return errorStyle.Render(fmt.Sprintf("Объявление #%d не найдено", m.currentID)) +
			"\n\n" + mutedStyle.Render("esc - вернуться к списку")
	case snap.Ad == nil && snap.View == moderation.ItemFailed:
		return errorStyle.Render(snap.Err) + "\n\n" + mutedStyle.Render("r - повторить · esc - к списку")
	case snap.Ad == nil:
		return m.spinner.View() + " Загрузка объявления..."
	}

	ad := snap.Ad
	var b strings.Builder

	title := titleStyle.Render(fmt.Sprintf("#%d %s", ad.ID, ad.Title))
	if ad.Priority == domain.PriorityUrgent {
		title += " " + urgentStyle.Render("срочно")
	}
	b.WriteString(title + "\n\n")

	field := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}
	field("Статус", statusBadge(ad.Status))
	field("Цена", formatPrice(ad.Price))
	field("Категория", ad.Category)
	field("Создано", ad.CreatedAt.Local().Format("02.01.2006 15:04"))
	field("Продавец", fmt.Sprintf("%s · рейтинг %.1f · объявлений %d · с %s",
		ad.Seller.Name, ad.Seller.Rating, ad.Seller.TotalAds, ad.Seller.RegisteredAt.Local().Format("01.2006")))
	field("Фото", fmt.Sprintf("%d шт.", len(ad.Images)))

	if ad.Description != "" {
		b.WriteString("\n" + ad.Description + "\n")
	}

	if len(ad.Characteristics) > 0 {
		b.WriteString("\n" + titleStyle.Render("Характеристики") + "\n")
		names := make([]string, 0, len(ad.Characteristics))
		for k := range ad.Characteristics {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			field(k, ad.Characteristics[k])
		}
	}

	b.WriteString("\n" + titleStyle.Render("История модерации") + "\n")
	if len(ad.ModerationHistory) == 0 {
		b.WriteString(mutedStyle.Render("Решений еще не было") + "\n")
	}
	for _, h := range ad.ModerationHistory {
		b.WriteString(historyLine(h) + "\n")
	}

	b.WriteString("\n")
	switch {
	case snap.Submitting:
		b.WriteString(m.spinner.View() + " Отправка решения...")
	case snap.Err != "":
		b.WriteString(errorStyle.Render(snap.Err))
	}

	if m.prompt != nil {
		b.WriteString("\n" + m.prompt.view())
	}
	return b.String()
}

func historyLine(h domain.ModerationHistoryEntry) string {
	line := fmt.Sprintf("%s  %s  %s", h.Timestamp.Local().Format(time.DateTime), historyLabel(h.Action), h.ModeratorName)
	if h.Reason != nil {
		line += " · " + *h.Reason
	}
	if h.Comment != nil && *h.Comment != "" {
		line += mutedStyle.Render(" · " + *h.Comment)
	}
	return line
}

func historyLabel(a domain.HistoryAction) string {
	switch a {
	case domain.HistoryApproved:
		return "Одобрено"
	case domain.HistoryRejected:
		return "Отклонено"
	case domain.HistoryRequestChanges:
		return "На доработку"
	}
	return string(a)
}

// detailBindings - подсказки только для доступных сейчас действий.
func (m Model) detailBindings() []key.Binding {
	snap := m.deps.Engine.Snapshot(m.currentID)
	bindings := make([]key.Binding, 0, 8)
	if snap.CanApprove {
		bindings = append(bindings, keys.Approve)
	}
	if snap.CanReject {
		bindings = append(bindings, keys.Reject)
	}
	if snap.CanRequestChanges {
		bindings = append(bindings, keys.RequestChanges)
	}
	if _, ok := moderation.Previous(m.currentID); ok {
		bindings = append(bindings, keys.PrevAd)
	}
	return append(bindings, keys.NextAd, keys.Back, keys.Refresh, keys.Quit)
}
