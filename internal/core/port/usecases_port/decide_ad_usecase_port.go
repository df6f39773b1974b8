package usecases_port

import (
	"context"
	"moderation-console/internal/core/domain"
)

type DecideAdUseCasePort interface {
	Execute(ctx context.Context, id int64, decision domain.Decision) (*domain.Advertisement, error)
}
