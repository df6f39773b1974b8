package tui

import (
	"fmt"
	"strconv"
	"strings"

	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/moderation"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var sortCycle = []domain.SortBy{domain.SortByCreatedAt, domain.SortByPrice, domain.SortByPriority}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		return m.updateSearchInput(msg)
	}
	if m.price.Focused() {
		return m.updatePriceInput(msg)
	}

	snap := m.deps.List.Snapshot()
	filter := snap.Filter

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(snap.Ads)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Open):
		if m.cursor < len(snap.Ads) {
			return m.openItem(snap.Ads[m.cursor].ID)
		}

	case key.Matches(msg, keys.Price):
		m.search.Blur()
		m.price.SetValue(formatPriceRange(filter))
		return m, m.price.Focus()

	case key.Matches(msg, keys.ToggleStatus):
		idx, _ := strconv.Atoi(msg.String())
		if idx >= 1 && idx <= len(domain.AllStatuses) {
			m.cursor = 0
			return m, m.setFilterCmd(domain.PatchStatuses(filter.ToggleStatus(domain.AllStatuses[idx-1])))
		}

	case key.Matches(msg, keys.Category):
		m.cursor = 0
		return m, m.setFilterCmd(nextCategoryPatch(filter.CategoryID))

	case key.Matches(msg, keys.Sort):
		next := nextSortBy(filter.SortBy)
		return m, m.setFilterCmd(domain.FilterPatch{SortBy: &next})

	case key.Matches(msg, keys.Order):
		order := domain.SortAsc
		if filter.SortOrder == domain.SortAsc {
			order = domain.SortDesc
		}
		return m, m.setFilterCmd(domain.FilterPatch{SortOrder: &order})

	case key.Matches(msg, keys.NextPage):
		if filter.Page < snap.Pagination.TotalPages {
			m.cursor = 0
			return m, m.setPageCmd(filter.Page + 1)
		}
	case key.Matches(msg, keys.PrevPage):
		if filter.Page > 1 {
			m.cursor = 0
			return m, m.setPageCmd(filter.Page - 1)
		}

	case key.Matches(msg, keys.Reset):
		m.cursor = 0
		m.search.SetValue("")
		return m, m.resetFiltersCmd()

	case key.Matches(msg, keys.Refresh):
		if snap.State == moderation.ListFailed {
			return m, m.retryCmd()
		}
		return m, m.refetchCmd()

	case key.Matches(msg, keys.HistBack):
		if m.deps.History != nil && m.deps.History.Back() {
			return m, m.syncCmd()
		}
	case key.Matches(msg, keys.HistFwd):
		if m.deps.History != nil && m.deps.History.Forward() {
			return m, m.syncCmd()
		}

	case key.Matches(msg, keys.Stats):
		m.screen = screenStats
		return m, m.loadStatsCmd(m.statsPeriod)
	}
	return m, nil
}

func (m Model) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.cursor = 0
		value := strings.TrimSpace(m.search.Value())
		if value == "" {
			return m, m.setFilterCmd(domain.FilterPatch{ClearSearch: true})
		}
		return m, m.setFilterCmd(domain.FilterPatch{Search: &value})
	case tea.KeyEsc:
		m.search.Blur()
		m.search.SetValue(m.deps.List.Filter().Search)
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updatePriceInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		patch, err := parsePriceRange(m.price.Value())
		if err != nil {
			m.setFlash(err.Error(), true)
			return m, nil
		}
		m.price.Blur()
		m.cursor = 0
		return m, m.setFilterCmd(patch)
	case tea.KeyEsc:
		m.price.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.price, cmd = m.price.Update(msg)
	return m, cmd
}

func nextSortBy(current domain.SortBy) domain.SortBy {
	for i, s := range sortCycle {
		if s == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return domain.SortByCreatedAt
}

// nextCategoryPatch перебирает категории по кругу, после последней фильтр снимается.
func nextCategoryPatch(current *int) domain.FilterPatch {
	next := 0
	if current != nil {
		next = *current + 1
	}
	if next >= len(domain.Categories) {
		return domain.FilterPatch{ClearCategory: true}
	}
	return domain.FilterPatch{CategoryID: &next}
}

// parsePriceRange разбирает "от-до"; любая из границ может быть пустой.
func parsePriceRange(raw string) (domain.FilterPatch, error) {
	patch := domain.FilterPatch{ClearMinPrice: true, ClearMaxPrice: true}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return patch, nil
	}

	lo, hi, found := strings.Cut(raw, "-")
	if !found {
		hi = lo
	}
	parse := func(s string) (*float64, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("Некорректная цена: %q", s)
		}
		return &v, nil
	}

	minPrice, err := parse(lo)
	if err != nil {
		return patch, err
	}
	maxPrice, err := parse(hi)
	if err != nil {
		return patch, err
	}
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		return patch, fmt.Errorf("Минимальная цена больше максимальной")
	}
	if minPrice != nil {
		patch.MinPrice, patch.ClearMinPrice = minPrice, false
	}
	if maxPrice != nil {
		patch.MaxPrice, patch.ClearMaxPrice = maxPrice, false
	}
	return patch, nil
}

func formatPriceRange(f domain.FilterState) string {
	if f.MinPrice == nil && f.MaxPrice == nil {
		return ""
	}
	var lo, hi string
	if f.MinPrice != nil {
		lo = strconv.FormatFloat(*f.MinPrice, 'f', -1, 64)
	}
	if f.MaxPrice != nil {
		hi = strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64)
	}
	return lo + "-" + hi
}

func (m Model) viewList() string {
	snap := m.deps.List.Snapshot()
	var b strings.Builder

	b.WriteString(m.search.View())
	if m.price.Focused() {
		b.WriteString("\n" + m.price.View())
	}
	b.WriteString("\n")
	b.WriteString(m.viewFilters(snap))
	b.WriteString("\n\n")

	switch {
	case snap.State == moderation.ListFailed:
		b.WriteString(errorStyle.Render(snap.Err))
		b.WriteString(mutedStyle.Render("  r - повторить"))
		b.WriteString("\n\n")
	case snap.Loading && len(snap.Ads) == 0:
		b.WriteString(m.spinner.View() + " Загрузка...\n")
		return b.String()
	}

	if len(snap.Ads) == 0 && snap.State == moderation.ListLoaded {
		b.WriteString(mutedStyle.Render("Объявления не найдены"))
		if snap.HasActiveFilters {
			b.WriteString(mutedStyle.Render(" · x - сбросить фильтры"))
		}
		b.WriteString("\n")
		return b.String()
	}

	for i, ad := range snap.Ads {
		row := fmt.Sprintf("#%-5d %-36s %12s  %-14s %s",
			ad.ID, truncate(ad.Title, 36), formatPrice(ad.Price), truncate(ad.Category, 14), statusBadge(ad.Status))
		if ad.Priority == domain.PriorityUrgent {
			row += " " + urgentStyle.Render("срочно")
		}
		if i == m.cursor {
			row = selectedStyle.Render("> " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(row + "\n")
	}

	p := snap.Pagination
	footer := fmt.Sprintf("\nСтраница %d из %d · всего %d", snap.Filter.Page, max(p.TotalPages, 1), p.TotalItems)
	if snap.Loading {
		footer += " " + m.spinner.View()
	}
	b.WriteString(mutedStyle.Render(footer))
	return b.String()
}

func (m Model) viewFilters(snap moderation.ListSnapshot) string {
	f := snap.Filter
	parts := make([]string, 0, 6)

	statuses := make([]string, 0, len(domain.AllStatuses))
	for i, st := range domain.AllStatuses {
		mark := " "
		if f.HasStatus(st) {
			mark = "x"
		}
		statuses = append(statuses, fmt.Sprintf("%d[%s]%s", i+1, mark, st.Label()))
	}
	parts = append(parts, strings.Join(statuses, " "))

	if f.CategoryID != nil {
		parts = append(parts, "категория: "+domain.CategoryName(*f.CategoryID))
	}
	if r := formatPriceRange(f); r != "" {
		parts = append(parts, "цена: "+r)
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("поиск: %q", f.Search))
	}
	parts = append(parts, fmt.Sprintf("сортировка: %s %s", sortLabel(f.SortBy), f.SortOrder))

	line := strings.Join(parts, " · ")
	if snap.HasActiveFilters {
		line += mutedStyle.Render(" · фильтры активны")
	}
	return line
}

func sortLabel(s domain.SortBy) string {
	switch s {
	case domain.SortByPrice:
		return "по цене"
	case domain.SortByPriority:
		return "по приоритету"
	}
	return "по дате"
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64) + " ₽"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
