package port

import (
	"context"
	"moderation-console/internal/core/domain"
)

// AdsCollectionPort - контракт клиента сервиса объявлений.
// Отсутствующее объявление возвращается как domain.ErrAdNotFound,
// остальные сбои - как *domain.ServiceError.
type AdsCollectionPort interface {
	List(ctx context.Context, filter domain.FilterState) (*domain.QueryResultPage, error)
	Get(ctx context.Context, id int64) (*domain.Advertisement, error)
	Decide(ctx context.Context, id int64, decision domain.Decision) (*domain.Advertisement, error)
}

// StatsPort - статистика модератора за период.
type StatsPort interface {
	GetSummary(ctx context.Context, period domain.StatsPeriod) (*domain.StatsSummary, error)
	GetActivity(ctx context.Context, period domain.StatsPeriod) ([]domain.ActivityPoint, error)
	GetDecisions(ctx context.Context, period domain.StatsPeriod) (*domain.DecisionsDistribution, error)
	GetCategories(ctx context.Context, period domain.StatsPeriod) (map[string]int, error)
}

// ModeratorPort - данные о текущем модераторе.
type ModeratorPort interface {
	CurrentModerator(ctx context.Context) (*domain.Moderator, error)
}
