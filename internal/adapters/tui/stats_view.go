package tui

import (
	"fmt"
	"sort"
	"strings"

	"moderation-console/internal/core/domain"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var periodKeys = map[string]domain.StatsPeriod{
	"1": domain.PeriodToday,
	"2": domain.PeriodWeek,
	"3": domain.PeriodMonth,
}

func (m Model) updateStats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Back):
		if m.currentID != 0 {
			m.screen = screenDetail
		} else {
			m.screen = screenList
		}
		return m, nil
	case key.Matches(msg, keys.Refresh):
		return m, m.loadStatsCmd(m.statsPeriod)
	case key.Matches(msg, keys.Period):
		if p, ok := periodKeys[msg.String()]; ok && p != m.statsPeriod {
			m.statsPeriod = p
			return m, m.loadStatsCmd(p)
		}
	}
	return m, nil
}

func periodLabel(p domain.StatsPeriod) string {
	switch p {
	case domain.PeriodToday:
		return "сегодня"
	case domain.PeriodMonth:
		return "месяц"
	}
	return "неделя"
}

func (m Model) viewStats() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Статистика: "+periodLabel(m.statsPeriod)) + "\n\n")

	if m.deps.Stats == nil {
		return b.String() + mutedStyle.Render("Статистика недоступна")
	}

	snap, loading, errMsg := m.deps.Stats.Snapshot()
	if errMsg != "" {
		b.WriteString(errorStyle.Render(errMsg) + mutedStyle.Render("  r - повторить") + "\n")
	}
	if snap == nil {
		if loading {
			b.WriteString(m.spinner.View() + " Загрузка...")
		}
		return b.String()
	}
	if loading {
		b.WriteString(m.spinner.View() + " обновление\n")
	}
	if snap.Period != m.statsPeriod {
		b.WriteString(mutedStyle.Render("показаны данные за период: "+periodLabel(snap.Period)) + "\n")
	}

	s := snap.Summary
	b.WriteString(fmt.Sprintf("Проверено: %d (сегодня %d, неделя %d, месяц %d)\n",
		s.TotalReviewed, s.TotalReviewedToday, s.TotalReviewedWeek, s.TotalReviewedMonth))
	b.WriteString(fmt.Sprintf("Одобрено %.1f%% · отклонено %.1f%% · на доработку %.1f%%\n",
		s.ApprovedPercentage, s.RejectedPercentage, s.RequestChangesPct))
	b.WriteString(fmt.Sprintf("Среднее время проверки: %.1f мин\n", s.AverageReviewTimeMin))

	b.WriteString("\n" + titleStyle.Render("Активность") + "\n")
	for _, p := range snap.Activity {
		total := p.Approved + p.Rejected + p.RequestChanges
		b.WriteString(fmt.Sprintf("%s  %-20s %d/%d/%d\n",
			p.Date.Format("02.01"), strings.Repeat("▇", min(total, 20)), p.Approved, p.Rejected, p.RequestChanges))
	}

	if len(snap.Categories) > 0 {
		b.WriteString("\n" + titleStyle.Render("Категории") + "\n")
		names := make([]string, 0, len(snap.Categories))
		for name := range snap.Categories {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			ci, cj := snap.Categories[names[i]], snap.Categories[names[j]]
			if ci != cj {
				return ci > cj
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			b.WriteString(labelStyle.Render(name) + fmt.Sprintf("%d\n", snap.Categories[name]))
		}
	}
	return b.String()
}
