package tui

import (
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/moderation"

	tea "github.com/charmbracelet/bubbletea"
)

type listUpdatedMsg struct{ err error }

type itemUpdatedMsg struct {
	id      int64
	action  domain.DecisionAction // 0 - загрузка без решения
	outcome moderation.Outcome
	err     error
}

type statsLoadedMsg struct {
	period domain.StatsPeriod
	err    error
}

type moderatorLoadedMsg struct {
	moderator *domain.Moderator
	err       error
}

func (m Model) mountCmd() tea.Cmd {
	list, ctx := m.deps.List, m.ctx
	return func() tea.Msg {
		return listUpdatedMsg{err: list.Mount(ctx)}
	}
}

func (m Model) setFilterCmd(patch domain.FilterPatch) tea.Cmd {
	list, ctx := m.deps.List, m.ctx
	return func() tea.Msg {
		return listUpdatedMsg{err: list.SetFilter(ctx, patch)}
	}
}

func (m Model) resetFiltersCmd() tea.Cmd {
	list, ctx := m.deps.List, m.ctx
	return func() tea.Msg {
		return listUpdatedMsg{err: list.ResetFilters(ctx)}
	}
}

func (m Model) setPageCmd(n int) tea.Cmd {
	list, ctx := m.deps.List, m.ctx
	return func() tea.Msg {
		return listUpdatedMsg{err: list.SetPage(ctx, n)}
	}
}

func (m Model) refetchCmd() tea.Cmd {
	list, ctx := m.deps.List, m.ctx
	return func() tea.Msg {
		return listUpdatedMsg{err: list.Refetch(ctx)}
	}
}

func (m Model) retryCmd() tea.Cmd {
	list, ctx := m.deps.List, m.ctx
	return func() tea.Msg {
		return listUpdatedMsg{err: list.Retry(ctx)}
	}
}

// syncCmd перечитывает адрес после перехода по истории.
func (m Model) syncCmd() tea.Cmd {
	list, ctx := m.deps.List, m.ctx
	return func() tea.Msg {
		return listUpdatedMsg{err: list.Sync(ctx)}
	}
}

func (m Model) loadItemCmd(id int64) tea.Cmd {
	engine, ctx := m.deps.Engine, m.ctx
	return func() tea.Msg {
		return itemUpdatedMsg{id: id, err: engine.Load(ctx, id)}
	}
}

func (m Model) decideCmd(id int64, d domain.Decision) tea.Cmd {
	engine, ctx := m.deps.Engine, m.ctx
	return func() tea.Msg {
		var outcome moderation.Outcome
		var err error
		switch d.Action {
		case domain.ActionApprove:
			outcome, err = engine.Approve(ctx, id)
		case domain.ActionReject:
			outcome, err = engine.Reject(ctx, id, d.Reason, d.Comment)
		case domain.ActionRequestChanges:
			outcome, err = engine.RequestChanges(ctx, id, d.Reason, d.Comment)
		default:
			outcome = moderation.OutcomeDisallowed
		}
		return itemUpdatedMsg{id: id, action: d.Action, outcome: outcome, err: err}
	}
}

func (m Model) loadStatsCmd(period domain.StatsPeriod) tea.Cmd {
	if m.deps.Stats == nil {
		return nil
	}
	stats, ctx := m.deps.Stats, m.ctx
	return func() tea.Msg {
		_, err := stats.Load(ctx, period)
		return statsLoadedMsg{period: period, err: err}
	}
}

func (m Model) loadModeratorCmd() tea.Cmd {
	if m.deps.Moderators == nil {
		return nil
	}
	moderators, ctx := m.deps.Moderators, m.ctx
	return func() tea.Msg {
		mod, err := moderators.CurrentModerator(ctx)
		return moderatorLoadedMsg{moderator: mod, err: err}
	}
}
