package usecase

import (
	"context"
	"errors"
	"fmt"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
)

type GetAdUseCase struct {
	repo port.AdRepositoryPort
}

func NewGetAdUseCase(repo port.AdRepositoryPort) *GetAdUseCase {
	return &GetAdUseCase{repo: repo}
}

func (uc *GetAdUseCase) Execute(ctx context.Context, id int64) (*domain.Advertisement, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetAd",
		"ad_id":    id,
	})

	ad, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAdNotFound) {
			logger.Info("Ad not found", nil)
			return nil, err
		}
		logger.Error("Failed to get ad", err, nil)
		return nil, fmt.Errorf("failed to get ad %d: %w", id, err)
	}
	return ad, nil
}
