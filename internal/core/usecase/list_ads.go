package usecase

import (
	"context"
	"fmt"
	"math"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
)

// MaxPageSize - верхняя граница limit, которую принимает сервис.
const MaxPageSize = 100

type ListAdsUseCase struct {
	repo port.AdRepositoryPort
}

func NewListAdsUseCase(repo port.AdRepositoryPort) *ListAdsUseCase {
	return &ListAdsUseCase{repo: repo}
}

func (uc *ListAdsUseCase) Execute(ctx context.Context, filter domain.FilterState) (*domain.QueryResultPage, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ListAds",
	})

	if filter.Page < 1 {
		filter.Page = 1
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = domain.PageSize
	case filter.Limit > MaxPageSize:
		filter.Limit = MaxPageSize
	}
	// (page-1)*limit должно помещаться в int.
	if maxPage := math.MaxInt/filter.Limit + 1; filter.Page > maxPage {
		filter.Page = maxPage
	}

	page, err := uc.repo.FindWithFilters(ctx, filter)
	if err != nil {
		logger.Error("Failed to find ads with filters", err, nil)
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}

	logger.Debug("Ads listed", port.Fields{
		"page":        filter.Page,
		"items":       len(page.Ads),
		"total_items": page.Pagination.TotalItems,
	})
	return page, nil
}
