package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
)

// AdRepository - хранилище объявлений в памяти для локального запуска и тестов.
type AdRepository struct {
	mu  sync.RWMutex
	ads map[int64]*domain.Advertisement
}

func NewAdRepository(ads []domain.Advertisement) *AdRepository {
	r := &AdRepository{ads: make(map[int64]*domain.Advertisement, len(ads))}
	for i := range ads {
		r.ads[ads[i].ID] = ads[i].Clone()
	}
	return r
}

func (r *AdRepository) FindWithFilters(_ context.Context, filter domain.FilterState) (*domain.QueryResultPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Advertisement, 0, len(r.ads))
	for _, ad := range r.ads {
		if matches(ad, filter) {
			matched = append(matched, ad)
		}
	}
	sort.Slice(matched, less(matched, filter.SortBy, filter.SortOrder))

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.PageSize
	}
	total := len(matched)
	totalPages := (total + limit - 1) / limit

	start := filter.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := total
	if total-start > limit {
		end = start + limit
	}

	page := &domain.QueryResultPage{
		Ads: make([]domain.Advertisement, 0, end-start),
		Pagination: domain.Pagination{
			CurrentPage:  filter.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}
	for _, ad := range matched[start:end] {
		page.Ads = append(page.Ads, *ad.Clone())
	}
	return page, nil
}

func (r *AdRepository) FindByID(_ context.Context, id int64) (*domain.Advertisement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ad, ok := r.ads[id]
	if !ok {
		return nil, domain.ErrAdNotFound
	}
	return ad.Clone(), nil
}

func (r *AdRepository) ApplyDecision(_ context.Context, id int64, status domain.AdStatus, entry domain.ModerationHistoryEntry) (*domain.Advertisement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ad, ok := r.ads[id]
	if !ok {
		return nil, domain.ErrAdNotFound
	}
	ad.Status = status
	ad.UpdatedAt = entry.Timestamp
	ad.ModerationHistory = append(ad.ModerationHistory, entry)
	return ad.Clone(), nil
}

func (r *AdRepository) HistorySince(_ context.Context, since time.Time) ([]port.HistoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []port.HistoryRecord
	for _, ad := range r.ads {
		for _, entry := range ad.ModerationHistory {
			if entry.Timestamp.Before(since) {
				continue
			}
			records = append(records, port.HistoryRecord{
				AdID:        ad.ID,
				Category:    ad.Category,
				AdCreatedAt: ad.CreatedAt,
				Entry:       entry,
			})
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Entry.Timestamp.Before(records[j].Entry.Timestamp)
	})
	return records, nil
}

func matches(ad *domain.Advertisement, f domain.FilterState) bool {
	if len(f.Statuses) > 0 && !f.HasStatus(ad.Status) {
		return false
	}
	if f.CategoryID != nil && ad.CategoryID != *f.CategoryID {
		return false
	}
	if f.MinPrice != nil && ad.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && ad.Price > *f.MaxPrice {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(ad.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func priorityRank(p domain.AdPriority) int {
	if p == domain.PriorityUrgent {
		return 1
	}
	return 0
}

// less сортирует по выбранному полю, при равенстве - по id по возрастанию.
func less(ads []*domain.Advertisement, by domain.SortBy, order domain.SortOrder) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := ads[i], ads[j]
		var cmp int
		switch by {
		case domain.SortByPrice:
			cmp = compareFloat(a.Price, b.Price)
		case domain.SortByPriority:
			cmp = priorityRank(a.Priority) - priorityRank(b.Priority)
		default:
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		}
		if cmp == 0 {
			return a.ID < b.ID
		}
		if order == domain.SortAsc {
			return cmp < 0
		}
		return cmp > 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
