package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"moderation-console/internal/core/domain"
)

// fakeAds - управляемая подмена сервиса объявлений. Незаданные функции
// ведут себя как пустой сервис.
type fakeAds struct {
	mu          sync.Mutex
	listCalls   []domain.FilterState
	getCalls    []int64
	decideCalls []domain.Decision

	listFn   func(ctx context.Context, f domain.FilterState) (*domain.QueryResultPage, error)
	getFn    func(ctx context.Context, id int64) (*domain.Advertisement, error)
	decideFn func(ctx context.Context, id int64, d domain.Decision) (*domain.Advertisement, error)
}

func (f *fakeAds) List(ctx context.Context, filter domain.FilterState) (*domain.QueryResultPage, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, filter)
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return &domain.QueryResultPage{}, nil
	}
	return fn(ctx, filter)
}

func (f *fakeAds) Get(ctx context.Context, id int64) (*domain.Advertisement, error) {
	f.mu.Lock()
	f.getCalls = append(f.getCalls, id)
	fn := f.getFn
	f.mu.Unlock()
	if fn == nil {
		return nil, domain.ErrAdNotFound
	}
	return fn(ctx, id)
}

func (f *fakeAds) Decide(ctx context.Context, id int64, d domain.Decision) (*domain.Advertisement, error) {
	f.mu.Lock()
	f.decideCalls = append(f.decideCalls, d)
	fn := f.decideFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, id, d)
}

func (f *fakeAds) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func (f *fakeAds) lastList() domain.FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls[len(f.listCalls)-1]
}

func (f *fakeAds) decideCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.decideCalls)
}

func (f *fakeAds) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.getCalls)
}

// memAddress - адрес в памяти.
type memAddress struct {
	mu     sync.Mutex
	query  domain.QueryPairs
	writes int
}

func (a *memAddress) Query() domain.QueryPairs {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append(domain.QueryPairs(nil), a.query...)
}

func (a *memAddress) ReplaceQuery(q domain.QueryPairs) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.query = append(domain.QueryPairs(nil), q...)
	a.writes++
}

// moderationService - упрощенный сервис объявлений с настоящей историей решений.
type moderationService struct {
	mu  sync.Mutex
	ads map[int64]*domain.Advertisement
}

func newModerationService(ads ...domain.Advertisement) *moderationService {
	s := &moderationService{ads: make(map[int64]*domain.Advertisement)}
	for i := range ads {
		s.ads[ads[i].ID] = ads[i].Clone()
	}
	return s
}

func (s *moderationService) get(_ context.Context, id int64) (*domain.Advertisement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad, ok := s.ads[id]
	if !ok {
		return nil, domain.ErrAdNotFound
	}
	return ad.Clone(), nil
}

func (s *moderationService) decide(_ context.Context, id int64, d domain.Decision) (*domain.Advertisement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad, ok := s.ads[id]
	if !ok {
		return nil, domain.ErrAdNotFound
	}
	entry := domain.ModerationHistoryEntry{
		ID:            uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		ModeratorID:   1,
		ModeratorName: "Тестовый модератор",
		Action:        d.Action.HistoryAction(),
		Timestamp:     time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	if d.Reason != "" {
		r := string(d.Reason)
		entry.Reason = &r
	}
	ad.Status = d.Action.ResultingStatus()
	ad.ModerationHistory = append(ad.ModerationHistory, entry)
	return ad.Clone(), nil
}

func testAd(id int64, status domain.AdStatus) domain.Advertisement {
	return domain.Advertisement{
		ID:       id,
		Title:    "Объявление",
		Status:   status,
		Priority: domain.PriorityNormal,
		Price:    1000,
	}
}
