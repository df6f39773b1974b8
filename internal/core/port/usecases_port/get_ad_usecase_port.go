package usecases_port

import (
	"context"
	"moderation-console/internal/core/domain"
)

type GetAdUseCasePort interface {
	Execute(ctx context.Context, id int64) (*domain.Advertisement, error)
}
