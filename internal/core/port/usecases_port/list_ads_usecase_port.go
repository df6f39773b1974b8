package usecases_port

import (
	"context"
	"moderation-console/internal/core/domain"
)

type ListAdsUseCasePort interface {
	Execute(ctx context.Context, filter domain.FilterState) (*domain.QueryResultPage, error)
}
