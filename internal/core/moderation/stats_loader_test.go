package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moderation-console/internal/core/domain"
)

type fakeStats struct {
	gate       map[domain.StatsPeriod]chan struct{}
	started    chan domain.StatsPeriod
	failGetCat error
}

func (f *fakeStats) wait(period domain.StatsPeriod) {
	if f.started != nil {
		f.started <- period
	}
	if ch, ok := f.gate[period]; ok {
		<-ch
	}
}

func (f *fakeStats) GetSummary(_ context.Context, p domain.StatsPeriod) (*domain.StatsSummary, error) {
	f.wait(p)
	return &domain.StatsSummary{TotalReviewed: p.Days() * 10, ApprovedPercentage: 60, RejectedPercentage: 30}, nil
}

func (f *fakeStats) GetActivity(_ context.Context, p domain.StatsPeriod) ([]domain.ActivityPoint, error) {
	return make([]domain.ActivityPoint, p.Days()), nil
}

func (f *fakeStats) GetDecisions(context.Context, domain.StatsPeriod) (*domain.DecisionsDistribution, error) {
	return &domain.DecisionsDistribution{Approved: 60, Rejected: 30, RequestChanges: 10}, nil
}

func (f *fakeStats) GetCategories(context.Context, domain.StatsPeriod) (map[string]int, error) {
	if f.failGetCat != nil {
		return nil, f.failGetCat
	}
	return map[string]int{"Электроника": 4}, nil
}

func TestStatsLoader_LoadsConsistentSnapshot(t *testing.T) {
	loader := NewStatsLoader(&fakeStats{})
	fixed := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	loader.now = func() time.Time { return fixed }

	snap, err := loader.Load(context.Background(), domain.PeriodMonth)
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, domain.PeriodMonth, snap.Period)
	assert.Equal(t, 300, snap.Summary.TotalReviewed)
	assert.Len(t, snap.Activity, 30)
	assert.Equal(t, 10.0, snap.Decisions.RequestChanges)
	assert.Equal(t, map[string]int{"Электроника": 4}, snap.Categories)
	assert.Equal(t, fixed, snap.LoadedAt)

	cached, loading, msg := loader.Snapshot()
	assert.Same(t, snap, cached)
	assert.False(t, loading)
	assert.Empty(t, msg)
}

func TestStatsLoader_FailureKeepsPreviousSnapshot(t *testing.T) {
	stats := &fakeStats{}
	loader := NewStatsLoader(stats)
	ctx := context.Background()

	first, err := loader.Load(ctx, domain.PeriodWeek)
	require.NoError(t, err)

	stats.failGetCat = errors.New("boom")
	snap, err := loader.Load(ctx, domain.PeriodToday)
	assert.Error(t, err)
	assert.Nil(t, snap)

	cached, _, msg := loader.Snapshot()
	assert.Same(t, first, cached)
	assert.Equal(t, "Ошибка загрузки статистики", msg)
}

func TestStatsLoader_LatestPeriodWins(t *testing.T) {
	week := make(chan struct{})
	stats := &fakeStats{
		gate:    map[domain.StatsPeriod]chan struct{}{domain.PeriodWeek: week},
		started: make(chan domain.StatsPeriod, 4),
	}
	loader := NewStatsLoader(stats)
	ctx := context.Background()

	done := make(chan *domain.StatsSnapshot, 1)
	go func() {
		snap, _ := loader.Load(ctx, domain.PeriodWeek)
		done <- snap
	}()
	require.Equal(t, domain.PeriodWeek, <-stats.started)

	today, err := loader.Load(ctx, domain.PeriodToday)
	require.NoError(t, err)
	require.NotNil(t, today)

	close(week)
	assert.Nil(t, <-done, "stale period is discarded")

	cached, loading, _ := loader.Snapshot()
	assert.Equal(t, domain.PeriodToday, cached.Period)
	assert.False(t, loading)
}
