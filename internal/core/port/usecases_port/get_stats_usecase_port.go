package usecases_port

import (
	"context"
	"moderation-console/internal/core/domain"
)

// GetStatsUseCasePort - все четыре среза статистики считаются из одной выборки истории.
type GetStatsUseCasePort interface {
	Execute(ctx context.Context, period domain.StatsPeriod) (*domain.StatsSnapshot, error)
}
