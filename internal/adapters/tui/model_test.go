package tui

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"moderation-console/internal/adapters/address"
	"moderation-console/internal/adapters/ads_api_client"
	"moderation-console/internal/adapters/memory"
	"moderation-console/internal/adapters/rest"
	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/moderation"
	"moderation-console/internal/core/usecase"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ConsoleSuite struct {
	suite.Suite
	repo    *memory.AdRepository
	address *address.MemoryAddress
	model   tea.Model
}

func TestConsoleSuite(t *testing.T) {
	suite.Run(t, new(ConsoleSuite))
}

func fixtureAds(n int) []domain.Advertisement {
	base := time.Now().Add(-72 * time.Hour).UTC()
	ads := make([]domain.Advertisement, 0, n)
	for i := 1; i <= n; i++ {
		ads = append(ads, domain.Advertisement{
			ID:         int64(i),
			Title:      "Объявление " + string(rune('A'+i-1)),
			Price:      float64(1000 * i),
			Category:   domain.Categories[i%len(domain.Categories)],
			CategoryID: i % len(domain.Categories),
			Status:     domain.StatusPending,
			Priority:   domain.PriorityNormal,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
			Seller:     domain.Seller{ID: 1, Name: "Иван Смирнов", RegisteredAt: base},
		})
	}
	return ads
}

func (s *ConsoleSuite) SetupTest() {
	s.repo = memory.NewAdRepository(fixtureAds(12))
	mod := domain.Moderator{ID: 1, Name: "Алексей Петров", Role: "moderator"}
	logger := contextkeys.LoggerFromContext(context.Background())

	router := rest.NewRouter(
		rest.NewAdsHandler(
			usecase.NewListAdsUseCase(s.repo),
			usecase.NewGetAdUseCase(s.repo),
			usecase.NewDecideAdUseCase(s.repo, nil, mod),
		),
		rest.NewStatsHandler(usecase.NewGetStatsUseCase(s.repo)),
		rest.NewModeratorHandler(mod),
		nil,
		logger,
	)
	srv := httptest.NewServer(router)
	s.T().Cleanup(srv.Close)

	client := ads_api_client.NewAdsServiceAPIClient(srv.URL, 2*time.Second)
	s.address = address.NewMemoryAddress("")

	m := NewModel(context.Background(), Deps{
		List:       moderation.NewListQueryController(client, s.address),
		Engine:     moderation.NewDecisionEngine(client),
		Stats:      moderation.NewStatsLoader(client),
		Moderators: client,
		History:    s.address,
	})
	s.model = s.run(m, m.Init())
}

// run выполняет команды синхронно и отдает модели только сообщения консоли.
func (s *ConsoleSuite) run(m tea.Model, cmd tea.Cmd) tea.Model {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case listUpdatedMsg, itemUpdatedMsg, statsLoadedMsg, moderatorLoadedMsg:
			var next tea.Cmd
			m, next = m.Update(msg)
			queue = append(queue, next)
		}
	}
	return m
}

func (s *ConsoleSuite) press(keys ...tea.KeyMsg) {
	for _, k := range keys {
		var cmd tea.Cmd
		s.model, cmd = s.model.Update(k)
		s.model = s.run(s.model, cmd)
	}
}

func (s *ConsoleSuite) typeText(text string) {
	for _, r := range text {
		s.press(runeKey(r))
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func (s *ConsoleSuite) m() Model {
	return s.model.(Model)
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	right = tea.KeyMsg{Type: tea.KeyRight}
	left  = tea.KeyMsg{Type: tea.KeyLeft}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func (s *ConsoleSuite) TestMountLoadsFirstPage() {
	snap := s.m().deps.List.Snapshot()
	s.Equal(moderation.ListLoaded, snap.State)
	s.Len(snap.Ads, domain.PageSize)
	s.Equal(int64(12), snap.Ads[0].ID)
	s.Equal(2, snap.Pagination.TotalPages)

	view := s.model.View()
	s.Contains(view, "Алексей Петров")
	s.Contains(view, "Объявление L")
	s.Contains(view, "Страница 1 из 2")
}

func (s *ConsoleSuite) TestStatusToggleWritesAddress() {
	s.press(runeKey('1'))

	s.Equal("page=1&status=pending&sortBy=createdAt&sortOrder=desc", s.address.String())
	s.Equal([]domain.AdStatus{domain.StatusPending}, s.m().deps.List.Filter().Statuses)

	s.press(runeKey('1'))
	s.Empty(s.m().deps.List.Filter().Statuses)
}

func (s *ConsoleSuite) TestSearchFocusSwallowsCommands() {
	s.press(runeKey('/'))
	s.True(s.m().search.Focused())
	s.Empty(s.m().search.Value(), "slash must not reach the input")

	s.typeText("Объявление C")
	s.press(enter)

	s.False(s.m().search.Focused())
	s.Equal("Объявление C", s.m().deps.List.Filter().Search)
	snap := s.m().deps.List.Snapshot()
	s.Require().Len(snap.Ads, 1)
	s.Equal(int64(3), snap.Ads[0].ID)
	s.True(snap.HasActiveFilters)
}

func (s *ConsoleSuite) TestPagingAndHistory() {
	s.press(runeKey('n'))
	s.Equal(2, s.m().deps.List.Filter().Page)
	s.Len(s.m().deps.List.Snapshot().Ads, 2)

	s.press(runeKey('n'))
	s.Equal(2, s.m().deps.List.Filter().Page, "no page past the last one")

	s.press(runeKey('['))
	s.Equal(1, s.m().deps.List.Filter().Page)

	s.press(runeKey(']'))
	s.Equal(2, s.m().deps.List.Filter().Page)
}

func (s *ConsoleSuite) TestSortCycle() {
	s.press(runeKey('s'))
	s.Equal(domain.SortByPrice, s.m().deps.List.Filter().SortBy)
	s.press(runeKey('o'))
	s.Equal(domain.SortAsc, s.m().deps.List.Filter().SortOrder)
	s.Equal(int64(1), s.m().deps.List.Snapshot().Ads[0].ID)

	s.press(runeKey('x'))
	s.Equal(domain.DefaultFilterState(), s.m().deps.List.Filter())
}

func (s *ConsoleSuite) TestApproveFromDetail() {
	s.press(enter)
	s.Require().Equal(screenDetail, s.m().screen)
	s.Equal(int64(12), s.m().currentID)

	s.press(runeKey('a'))

	ad, err := s.repo.FindByID(context.Background(), 12)
	s.Require().NoError(err)
	s.Equal(domain.StatusApproved, ad.Status)
	s.Len(ad.ModerationHistory, 1)
	s.Equal("Объявление одобрено", s.m().flash)

	snap := s.m().deps.Engine.Snapshot(12)
	s.Equal(domain.StatusApproved, snap.Ad.Status)
	s.False(snap.CanApprove)

	s.press(runeKey('A'))
	ad, _ = s.repo.FindByID(context.Background(), 12)
	s.Len(ad.ModerationHistory, 1, "approve is disabled for approved ads")
}

func (s *ConsoleSuite) TestRejectPromptDefaultsToOther() {
	s.press(enter, runeKey('d'))
	s.Require().NotNil(s.m().prompt)
	s.Equal(domain.ReasonOther, s.m().prompt.reason())

	s.press(tab)
	s.typeText("дубль")
	s.press(enter)

	s.Nil(s.m().prompt)
	ad, err := s.repo.FindByID(context.Background(), 12)
	s.Require().NoError(err)
	s.Equal(domain.StatusRejected, ad.Status)
	s.Require().Len(ad.ModerationHistory, 1)
	s.Equal(string(domain.ReasonOther), *ad.ModerationHistory[0].Reason)
	s.Equal("дубль", *ad.ModerationHistory[0].Comment)
}

func (s *ConsoleSuite) TestRequestChangesPromptSelectsReason() {
	s.press(enter, runeKey('c'))
	s.Require().NotNil(s.m().prompt)

	s.press(tea.KeyMsg{Type: tea.KeyUp}, enter)

	ad, err := s.repo.FindByID(context.Background(), 12)
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, ad.Status)
	s.Equal(string(domain.ReasonSuspectedFraud), *ad.ModerationHistory[0].Reason)
}

func (s *ConsoleSuite) TestPromptCancel() {
	s.press(enter, runeKey('d'), esc)
	s.Nil(s.m().prompt)
	s.Equal(screenDetail, s.m().screen)

	ad, _ := s.repo.FindByID(context.Background(), 12)
	s.Equal(domain.StatusPending, ad.Status)
}

func (s *ConsoleSuite) TestNavigationAndNotFound() {
	s.press(enter, right)
	s.Equal(int64(13), s.m().currentID)
	s.Equal(moderation.ItemNotFound, s.m().deps.Engine.Snapshot(13).View)
	s.Contains(s.model.View(), "Объявление #13 не найдено")

	s.press(left)
	s.Equal(int64(12), s.m().currentID)
	s.Equal(moderation.ItemLoaded, s.m().deps.Engine.Snapshot(12).View)

	s.press(esc)
	s.Equal(screenList, s.m().screen)
}

func (s *ConsoleSuite) TestPreviousInertOnFirstAd() {
	var cmd tea.Cmd
	s.model, cmd = s.m().openItem(1)
	s.model = s.run(s.model, cmd)

	s.press(left)
	s.Equal(int64(1), s.m().currentID)

	s.press(right)
	s.Equal(int64(2), s.m().currentID)
}

func (s *ConsoleSuite) TestStatsScreen() {
	s.press(enter, runeKey('a'), esc, runeKey('t'))
	s.Require().Equal(screenStats, s.m().screen)

	snap, loading, errMsg := s.m().deps.Stats.Snapshot()
	s.Require().NotNil(snap)
	s.False(loading)
	s.Empty(errMsg)
	s.Equal(domain.PeriodWeek, snap.Period)
	s.Equal(1, snap.Summary.TotalReviewed)

	s.press(runeKey('3'))
	snap, _, _ = s.m().deps.Stats.Snapshot()
	s.Equal(domain.PeriodMonth, snap.Period)
	s.Contains(s.model.View(), "Статистика: месяц")

	s.press(esc)
	s.Equal(screenList, s.m().screen)
}

func TestParsePriceRange(t *testing.T) {
	patch, err := parsePriceRange("1000-5000")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, *patch.MinPrice)
	assert.Equal(t, 5000.0, *patch.MaxPrice)
	assert.False(t, patch.ClearMinPrice)

	patch, err = parsePriceRange(" -300 ")
	require.NoError(t, err)
	assert.True(t, patch.ClearMinPrice)
	assert.Equal(t, 300.0, *patch.MaxPrice)

	patch, err = parsePriceRange("")
	require.NoError(t, err)
	assert.True(t, patch.ClearMinPrice)
	assert.True(t, patch.ClearMaxPrice)

	_, err = parsePriceRange("abc")
	assert.Error(t, err)
	_, err = parsePriceRange("500-100")
	assert.Error(t, err)
}

func TestNextCategoryPatch(t *testing.T) {
	p := nextCategoryPatch(nil)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, 0, *p.CategoryID)

	last := len(domain.Categories) - 1
	p = nextCategoryPatch(&last)
	assert.True(t, p.ClearCategory)
}

func TestNextSortBy(t *testing.T) {
	assert.Equal(t, domain.SortByPrice, nextSortBy(domain.SortByCreatedAt))
	assert.Equal(t, domain.SortByPriority, nextSortBy(domain.SortByPrice))
	assert.Equal(t, domain.SortByCreatedAt, nextSortBy(domain.SortByPriority))
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, moderation.KeyArrowRight, keyName(tea.KeyMsg{Type: tea.KeyRight}))
	assert.Equal(t, moderation.KeyArrowLeft, keyName(tea.KeyMsg{Type: tea.KeyLeft}))
	assert.Equal(t, "a", keyName(runeKey('a')))
	assert.True(t, strings.EqualFold("A", keyName(runeKey('A'))))
}
