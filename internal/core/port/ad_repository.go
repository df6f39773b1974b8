package port

import (
	"context"
	"moderation-console/internal/core/domain"
	"time"
)

// HistoryRecord - запись истории вместе с данными объявления, нужными для статистики.
type HistoryRecord struct {
	AdID        int64
	Category    string
	AdCreatedAt time.Time
	Entry       domain.ModerationHistoryEntry
}

// AdRepositoryPort - хранилище объявлений справочного сервиса.
type AdRepositoryPort interface {
	FindWithFilters(ctx context.Context, filter domain.FilterState) (*domain.QueryResultPage, error)
	FindByID(ctx context.Context, id int64) (*domain.Advertisement, error)
	// ApplyDecision атомарно меняет статус и добавляет ровно одну запись в историю.
	ApplyDecision(ctx context.Context, id int64, status domain.AdStatus, entry domain.ModerationHistoryEntry) (*domain.Advertisement, error)
	HistorySince(ctx context.Context, since time.Time) ([]HistoryRecord, error)
}
