package moderation

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
)

const msgStatsLoadFailed = "Ошибка загрузки статистики"

// StatsLoader параллельно загружает четыре ряда статистики за период и собирает
// их в один снимок. Применяется только результат последнего запрошенного периода.
type StatsLoader struct {
	stats port.StatsPort
	now   func() time.Time

	mu       sync.Mutex
	seq      uint64
	loading  bool
	errMsg   string
	snapshot *domain.StatsSnapshot
}

func NewStatsLoader(stats port.StatsPort) *StatsLoader {
	return &StatsLoader{stats: stats, now: time.Now}
}

// Load загружает снимок за период. Если пока шла загрузка был запрошен другой
// период, результат отбрасывается и возвращается nil.
func (l *StatsLoader) Load(ctx context.Context, period domain.StatsPeriod) (*domain.StatsSnapshot, error) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.loading = true
	l.mu.Unlock()

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "StatsLoader",
		"period":    string(period),
	})

	snap := &domain.StatsSnapshot{Period: period}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := l.stats.GetSummary(gctx, period)
		if err == nil && summary != nil {
			snap.Summary = *summary
		}
		return err
	})
	g.Go(func() error {
		activity, err := l.stats.GetActivity(gctx, period)
		snap.Activity = activity
		return err
	})
	g.Go(func() error {
		decisions, err := l.stats.GetDecisions(gctx, period)
		if err == nil && decisions != nil {
			snap.Decisions = *decisions
		}
		return err
	})
	g.Go(func() error {
		categories, err := l.stats.GetCategories(gctx, period)
		snap.Categories = categories
		return err
	})

	err := g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		logger.Debug("Discarding stale stats result", nil)
		return nil, nil
	}
	l.loading = false

	if err != nil {
		l.errMsg = domain.UserMessage(err, msgStatsLoadFailed)
		logger.Error("Failed to load stats", err, nil)
		return nil, err
	}

	snap.LoadedAt = l.now()
	l.snapshot = snap
	l.errMsg = ""
	return snap, nil
}

// Snapshot - последний успешно загруженный снимок, nil до первой загрузки.
func (l *StatsLoader) Snapshot() (*domain.StatsSnapshot, bool, string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot, l.loading, l.errMsg
}
