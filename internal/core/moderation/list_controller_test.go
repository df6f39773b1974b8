package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/querycodec"
)

type ListControllerSuite struct {
	suite.Suite
	ads     *fakeAds
	address *memAddress
	ctrl    *ListQueryController
	ctx     context.Context
}

func (s *ListControllerSuite) SetupTest() {
	s.ads = &fakeAds{}
	s.address = &memAddress{}
	s.ctrl = NewListQueryController(s.ads, s.address)
	s.ctx = context.Background()
}

func TestListControllerSuite(t *testing.T) {
	suite.Run(t, new(ListControllerSuite))
}

func pageOf(ids ...int64) *domain.QueryResultPage {
	p := &domain.QueryResultPage{Pagination: domain.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: len(ids), ItemsPerPage: domain.PageSize}}
	for _, id := range ids {
		p.Ads = append(p.Ads, testAd(id, domain.StatusPending))
	}
	return p
}

func ids(ads []domain.Advertisement) []int64 {
	out := make([]int64, 0, len(ads))
	for _, ad := range ads {
		out = append(out, ad.ID)
	}
	return out
}

func (s *ListControllerSuite) TestMountDecodesAddress() {
	s.address.query = querycodec.ParseQuery("page=3&status=pending&status=rejected&sortBy=price&sortOrder=asc")
	s.ads.listFn = func(context.Context, domain.FilterState) (*domain.QueryResultPage, error) {
		return pageOf(21, 22), nil
	}

	s.Require().NoError(s.ctrl.Mount(s.ctx))

	f := s.ads.lastList()
	s.Equal(3, f.Page)
	s.Equal([]domain.AdStatus{domain.StatusPending, domain.StatusRejected}, f.Statuses)
	s.Equal(domain.SortByPrice, f.SortBy)
	s.Equal(domain.SortAsc, f.SortOrder)
	s.Equal(0, s.address.writes, "mount only reads the address")

	snap := s.ctrl.Snapshot()
	s.Equal(ListLoaded, snap.State)
	s.False(snap.Loading)
	s.Equal([]int64{21, 22}, ids(snap.Ads))
	s.True(snap.HasActiveFilters)
}

func (s *ListControllerSuite) TestSetFilterResetsPageAndPublishesAddress() {
	s.Require().NoError(s.ctrl.Mount(s.ctx))
	s.Require().NoError(s.ctrl.SetPage(s.ctx, 4))

	page := 9
	s.Require().NoError(s.ctrl.SetFilter(s.ctx, domain.FilterPatch{
		Statuses: []domain.AdStatus{domain.StatusPending},
		Page:     &page,
	}))

	s.Equal(domain.QueryPairs{
		{Key: "page", Value: "1"},
		{Key: "status", Value: "pending"},
		{Key: "sortBy", Value: "createdAt"},
		{Key: "sortOrder", Value: "desc"},
	}, s.address.Query())
	s.Equal(1, s.ads.lastList().Page)
	s.Equal(1, s.ctrl.Filter().Page)
	s.Equal("page=1&status=pending&sortBy=createdAt&sortOrder=desc", s.ctrl.Snapshot().Address)
}

func (s *ListControllerSuite) TestSetFilterAlwaysLandsOnFirstPage() {
	s.Require().NoError(s.ctrl.Mount(s.ctx))
	search := "велосипед"
	order := domain.SortAsc
	patches := []domain.FilterPatch{
		{Search: &search},
		{SortOrder: &order},
		{ClearStatuses: true},
		{},
	}
	for i, p := range patches {
		s.Require().NoError(s.ctrl.SetPage(s.ctx, 5+i))
		s.Require().NoError(s.ctrl.SetFilter(s.ctx, p))
		s.Equal(1, s.ctrl.Filter().Page)
	}
}

func (s *ListControllerSuite) TestSetPageRejectsNonPositive() {
	s.Require().NoError(s.ctrl.Mount(s.ctx))
	calls := s.ads.listCount()

	err := s.ctrl.SetPage(s.ctx, 0)

	s.ErrorIs(err, domain.ErrInvalidPage)
	s.Equal(calls, s.ads.listCount())
	s.Equal(0, s.address.writes)
	s.Equal(1, s.ctrl.Filter().Page)
}

func (s *ListControllerSuite) TestResetFilters() {
	s.address.query = querycodec.ParseQuery("page=2&search=bike&minPrice=10&sortBy=priority")
	s.Require().NoError(s.ctrl.Mount(s.ctx))
	s.True(s.ctrl.Snapshot().HasActiveFilters)

	s.Require().NoError(s.ctrl.ResetFilters(s.ctx))

	s.Equal(domain.DefaultFilterState(), s.ctrl.Filter())
	s.Equal(querycodec.Encode(domain.DefaultFilterState()), s.address.Query())
	s.False(s.ctrl.Snapshot().HasActiveFilters)
}

func (s *ListControllerSuite) TestFailureKeepsPreviousPage() {
	s.ads.listFn = func(context.Context, domain.FilterState) (*domain.QueryResultPage, error) {
		return pageOf(1, 2, 3), nil
	}
	s.Require().NoError(s.ctrl.Mount(s.ctx))

	s.ads.listFn = func(context.Context, domain.FilterState) (*domain.QueryResultPage, error) {
		return nil, errors.New("connection refused")
	}
	s.Error(s.ctrl.Refetch(s.ctx))

	snap := s.ctrl.Snapshot()
	s.Equal(ListFailed, snap.State)
	s.Equal("Ошибка загрузки объявлений", snap.Err)
	s.Equal([]int64{1, 2, 3}, ids(snap.Ads))

	s.ads.listFn = func(context.Context, domain.FilterState) (*domain.QueryResultPage, error) {
		return pageOf(4), nil
	}
	s.NoError(s.ctrl.Retry(s.ctx))
	snap = s.ctrl.Snapshot()
	s.Equal(ListLoaded, snap.State)
	s.Empty(snap.Err)
	s.Equal([]int64{4}, ids(snap.Ads))
}

func (s *ListControllerSuite) TestFailureUsesServerMessage() {
	s.ads.listFn = func(context.Context, domain.FilterState) (*domain.QueryResultPage, error) {
		return nil, &domain.ServiceError{StatusCode: 500, Message: "База данных недоступна"}
	}
	s.Error(s.ctrl.Mount(s.ctx))

	snap := s.ctrl.Snapshot()
	s.Equal(ListFailed, snap.State)
	s.Equal("База данных недоступна", snap.Err)
	s.Empty(snap.Ads)
}

func (s *ListControllerSuite) TestSyncFetchesOnlyOnChange() {
	s.Require().NoError(s.ctrl.Mount(s.ctx))
	calls := s.ads.listCount()

	s.Require().NoError(s.ctrl.Sync(s.ctx))
	s.Equal(calls, s.ads.listCount())

	s.address.query = querycodec.ParseQuery("page=2")
	s.Require().NoError(s.ctrl.Sync(s.ctx))
	s.Equal(calls+1, s.ads.listCount())
	s.Equal(2, s.ctrl.Filter().Page)
}

func TestListController_PreviousPageVisibleWhileLoading(t *testing.T) {
	ads := &fakeAds{}
	ctrl := NewListQueryController(ads, &memAddress{})
	ctx := context.Background()

	ads.listFn = func(context.Context, domain.FilterState) (*domain.QueryResultPage, error) {
		return pageOf(1, 2), nil
	}
	require.NoError(t, ctrl.Mount(ctx))

	started := make(chan struct{})
	release := make(chan struct{})
	ads.listFn = func(context.Context, domain.FilterState) (*domain.QueryResultPage, error) {
		close(started)
		<-release
		return pageOf(3), nil
	}

	done := make(chan error, 1)
	go func() { done <- ctrl.SetPage(ctx, 2) }()
	<-started

	snap := ctrl.Snapshot()
	assert.True(t, snap.Loading)
	assert.Equal(t, ListLoading, snap.State)
	assert.Equal(t, []int64{1, 2}, ids(snap.Ads))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []int64{3}, ids(ctrl.Snapshot().Ads))
}

func TestListController_RetryClearsErrorWhileLoading(t *testing.T) {
	ads := &fakeAds{}
	ctrl := NewListQueryController(ads, &memAddress{})
	ctx := context.Background()

	ads.listFn = func(context.Context, domain.FilterState) (*domain.QueryResultPage, error) {
		return nil, errors.New("connection refused")
	}
	require.Error(t, ctrl.Mount(ctx))
	require.Equal(t, "Ошибка загрузки объявлений", ctrl.Snapshot().Err)

	started := make(chan struct{})
	release := make(chan struct{})
	ads.listFn = func(context.Context, domain.FilterState) (*domain.QueryResultPage, error) {
		close(started)
		<-release
		return pageOf(1), nil
	}

	done := make(chan error, 1)
	go func() { done <- ctrl.Retry(ctx) }()
	<-started

	snap := ctrl.Snapshot()
	assert.Equal(t, ListLoading, snap.State)
	assert.Empty(t, snap.Err)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, ListLoaded, ctrl.Snapshot().State)
}

func TestListController_EmptyBeforeFirstSuccess(t *testing.T) {
	ctrl := NewListQueryController(&fakeAds{}, &memAddress{})

	snap := ctrl.Snapshot()
	assert.Equal(t, ListIdle, snap.State)
	assert.Empty(t, snap.Ads)
	assert.False(t, snap.Loading)
}

// Запрос A выдан раньше B, но завершается позже: видимым должен остаться результат B.
func TestListController_RaceGuardKeepsLatest(t *testing.T) {
	ads := &fakeAds{}
	ctrl := NewListQueryController(ads, &memAddress{})
	ctx := context.Background()

	aStarted := make(chan struct{})
	releaseA := make(chan struct{})
	ads.listFn = func(_ context.Context, f domain.FilterState) (*domain.QueryResultPage, error) {
		if f.Search == "A" {
			close(aStarted)
			<-releaseA
			return pageOf(100), nil
		}
		return pageOf(200), nil
	}

	searchA, searchB := "A", "B"
	doneA := make(chan error, 1)
	go func() { doneA <- ctrl.SetFilter(ctx, domain.FilterPatch{Search: &searchA}) }()
	<-aStarted

	require.NoError(t, ctrl.SetFilter(ctx, domain.FilterPatch{Search: &searchB}))
	assert.Equal(t, []int64{200}, ids(ctrl.Snapshot().Ads))

	close(releaseA)
	require.NoError(t, <-doneA)

	snap := ctrl.Snapshot()
	assert.Equal(t, ListLoaded, snap.State)
	assert.Equal(t, []int64{200}, ids(snap.Ads))
	assert.Equal(t, "B", snap.Filter.Search)
}

func TestListController_StaleFailureIgnored(t *testing.T) {
	ads := &fakeAds{}
	ctrl := NewListQueryController(ads, &memAddress{})
	ctx := context.Background()

	aStarted := make(chan struct{})
	releaseA := make(chan struct{})
	ads.listFn = func(_ context.Context, f domain.FilterState) (*domain.QueryResultPage, error) {
		if f.Page == 2 {
			close(aStarted)
			<-releaseA
			return nil, errors.New("timeout")
		}
		return pageOf(7), nil
	}

	doneA := make(chan error, 1)
	go func() { doneA <- ctrl.SetPage(ctx, 2) }()
	<-aStarted
	require.NoError(t, ctrl.SetPage(ctx, 3))

	close(releaseA)
	assert.NoError(t, <-doneA, "stale result is discarded silently")

	snap := ctrl.Snapshot()
	assert.Equal(t, ListLoaded, snap.State)
	assert.Empty(t, snap.Err)
	assert.Equal(t, []int64{7}, ids(snap.Ads))
}
