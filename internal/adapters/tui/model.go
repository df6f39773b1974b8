package tui

import (
	"context"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/moderation"
	"moderation-console/internal/core/port"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenList screen = iota
	screenDetail
	screenStats
)

// AddressHistory - переходы по истории адреса списка.
type AddressHistory interface {
	Back() bool
	Forward() bool
}

// Deps - ядро консоли, которым управляет интерфейс.
type Deps struct {
	List       *moderation.ListQueryController
	Engine     *moderation.DecisionEngine
	Stats      *moderation.StatsLoader
	Moderators port.ModeratorPort
	History    AddressHistory
	Dispatcher *moderation.KeyDispatcher
}

// Model - корневая модель bubbletea. Все обращения к сервису выполняются
// командами в фоне, View читает снимки контроллера и движка.
type Model struct {
	ctx  context.Context
	deps Deps

	screen      screen
	cursor      int
	currentID   int64
	statsPeriod domain.StatsPeriod
	moderator   *domain.Moderator

	search  textinput.Model
	price   textinput.Model
	prompt  *decisionPrompt
	spinner spinner.Model
	help    help.Model

	flash    string
	flashErr bool
	width    int
}

func NewModel(ctx context.Context, deps Deps) Model {
	if deps.Dispatcher == nil {
		deps.Dispatcher = moderation.NewKeyDispatcher()
	}

	search := textinput.New()
	search.Prompt = "Поиск: "
	search.Placeholder = "название объявления"
	search.CharLimit = 100
	search.Cursor.SetMode(cursor.CursorStatic)

	price := textinput.New()
	price.Prompt = "Цена: "
	price.Placeholder = "от-до, например 1000-5000"
	price.CharLimit = 40
	price.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		deps:        deps,
		statsPeriod: domain.PeriodWeek,
		search:      search,
		price:       price,
		spinner:     sp,
		help:        help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.mountCmd(), m.loadModeratorCmd(), m.spinner.Tick)
}

func (m Model) logger() port.LoggerPort {
	return contextkeys.LoggerFromContext(m.ctx).WithFields(port.Fields{"component": "ConsoleUI"})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listUpdatedMsg:
		m.clampCursor()
		return m, nil

	case itemUpdatedMsg:
		return m.onItemUpdated(msg)

	case statsLoadedMsg:
		return m, nil

	case moderatorLoadedMsg:
		if msg.err != nil {
			m.logger().Warn("Failed to load current moderator", port.Fields{"error": msg.err.Error()})
			return m, nil
		}
		m.moderator = msg.moderator
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	m.flash = ""

	if m.prompt != nil {
		return m.updatePrompt(msg)
	}

	if m.screen != screenStats {
		d := m.deps.Dispatcher.Dispatch(
			moderation.KeyEvent{Key: keyName(msg), Target: m.focusTarget()},
			moderation.DispatchContext{View: m.dispatchView(), CurrentID: m.currentID},
		)
		if d.Command != moderation.CommandNone {
			return m.runCommand(d)
		}
	}

	switch m.screen {
	case screenDetail:
		return m.updateDetail(msg)
	case screenStats:
		return m.updateStats(msg)
	}
	return m.updateList(msg)
}

// focusTarget - элемент, который сейчас получает нажатия.
func (m Model) focusTarget() moderation.TargetKind {
	if m.search.Focused() || m.price.Focused() {
		return moderation.TargetTextInput
	}
	return moderation.TargetNone
}

func (m Model) dispatchView() moderation.View {
	if m.screen == screenDetail {
		return moderation.ViewDetail
	}
	return moderation.ViewList
}

func (m Model) runCommand(d moderation.Dispatch) (tea.Model, tea.Cmd) {
	switch d.Command {
	case moderation.CommandFocusSearch:
		// PreventDefault: сам "/" в поле не попадает.
		m.price.Blur()
		return m, m.search.Focus()

	case moderation.CommandApprove:
		if !m.deps.Engine.CanApprove(m.currentID) {
			m.setFlash("Одобрение недоступно", true)
			return m, nil
		}
		return m, m.decideCmd(m.currentID, domain.Decision{Action: domain.ActionApprove})

	case moderation.CommandOpenRejectPrompt:
		if !m.deps.Engine.CanReject(m.currentID) {
			m.setFlash("Отклонение недоступно", true)
			return m, nil
		}
		m.prompt = newDecisionPrompt(domain.ActionReject)
		return m, nil

	case moderation.CommandNext:
		return m.openItem(moderation.Next(m.currentID))

	case moderation.CommandPrevious:
		if id, ok := moderation.Previous(m.currentID); ok {
			return m.openItem(id)
		}
	}
	return m, nil
}

func (m Model) openItem(id int64) (tea.Model, tea.Cmd) {
	if m.currentID != 0 && m.currentID != id {
		m.deps.Engine.Forget(m.currentID)
	}
	m.currentID = id
	m.screen = screenDetail
	return m, m.loadItemCmd(id)
}

func (m Model) onItemUpdated(msg itemUpdatedMsg) (tea.Model, tea.Cmd) {
	if msg.action == 0 {
		return m, nil
	}
	switch msg.outcome {
	case moderation.OutcomeApplied:
		m.setFlash(appliedMessage(msg.action), false)
		// список мог показывать старый статус
		return m, m.refetchCmd()
	case moderation.OutcomeDisallowed:
		m.setFlash("Действие недоступно для текущего статуса", true)
	case moderation.OutcomeFailed:
		// текст ошибки уже в снимке движка
	}
	return m, nil
}

func appliedMessage(action domain.DecisionAction) string {
	switch action {
	case domain.ActionApprove:
		return "Объявление одобрено"
	case domain.ActionReject:
		return "Объявление отклонено"
	case domain.ActionRequestChanges:
		return "Объявление возвращено на доработку"
	}
	return ""
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

// updateInputs пробрасывает служебные сообщения (мигание курсора) в поля ввода.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.search.Focused() {
		m.search, cmd = m.search.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.price.Focused() {
		m.price, cmd = m.price.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.prompt != nil && m.prompt.comment.Focused() {
		m.prompt.comment, cmd = m.prompt.comment.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) clampCursor() {
	n := len(m.deps.List.Snapshot().Ads)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
