package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
)

// GetStatsUseCase считает статистику модерации из истории решений.
// Все срезы строятся из одной выборки, поэтому согласованы между собой.
type GetStatsUseCase struct {
	repo port.AdRepositoryPort
	now  func() time.Time
}

func NewGetStatsUseCase(repo port.AdRepositoryPort) *GetStatsUseCase {
	return &GetStatsUseCase{repo: repo, now: time.Now}
}

func (uc *GetStatsUseCase) Execute(ctx context.Context, period domain.StatsPeriod) (*domain.StatsSnapshot, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetStats",
		"period":   string(period),
	})

	now := uc.now()
	// Месяц покрывает все периоды, счетчики today/week/month берутся из той же выборки.
	records, err := uc.repo.HistorySince(ctx, domain.PeriodMonth.Since(now))
	if err != nil {
		logger.Error("Failed to load moderation history", err, nil)
		return nil, fmt.Errorf("failed to load moderation history: %w", err)
	}

	since := period.Since(now)
	todayStart := domain.PeriodToday.Since(now)
	weekStart := domain.PeriodWeek.Since(now)

	snap := &domain.StatsSnapshot{
		Period:     period,
		Categories: make(map[string]int),
		LoadedAt:   now,
	}

	days := period.Days()
	activity := make([]domain.ActivityPoint, days)
	for i := range activity {
		activity[i].Date = since.AddDate(0, 0, i)
	}

	var approved, rejected, changes int
	var reviewMinutes float64
	for _, rec := range records {
		ts := rec.Entry.Timestamp.In(now.Location())

		snap.Summary.TotalReviewedMonth++
		if !ts.Before(weekStart) {
			snap.Summary.TotalReviewedWeek++
		}
		if !ts.Before(todayStart) {
			snap.Summary.TotalReviewedToday++
		}
		if ts.Before(since) {
			continue
		}

		snap.Summary.TotalReviewed++
		snap.Categories[rec.Category]++
		if !rec.AdCreatedAt.IsZero() && ts.After(rec.AdCreatedAt) {
			reviewMinutes += ts.Sub(rec.AdCreatedAt).Minutes()
		}

		idx := dayIndex(since, ts)
		switch rec.Entry.Action {
		case domain.HistoryApproved:
			approved++
			if idx >= 0 && idx < days {
				activity[idx].Approved++
			}
		case domain.HistoryRejected:
			rejected++
			if idx >= 0 && idx < days {
				activity[idx].Rejected++
			}
		case domain.HistoryRequestChanges:
			changes++
			if idx >= 0 && idx < days {
				activity[idx].RequestChanges++
			}
		}
	}

	if total := snap.Summary.TotalReviewed; total > 0 {
		snap.Decisions = domain.DecisionsDistribution{
			Approved:       percent(approved, total),
			Rejected:       percent(rejected, total),
			RequestChanges: percent(changes, total),
		}
		snap.Summary.AverageReviewTimeMin = round1(reviewMinutes / float64(total))
	}
	snap.Summary.ApprovedPercentage = snap.Decisions.Approved
	snap.Summary.RejectedPercentage = snap.Decisions.Rejected
	snap.Summary.RequestChangesPct = snap.Decisions.RequestChanges
	snap.Activity = activity

	logger.Debug("Stats computed", port.Fields{"records": len(records), "reviewed": snap.Summary.TotalReviewed})
	return snap, nil
}

// dayIndex - номер календарного дня ts относительно полуночи since.
func dayIndex(since, ts time.Time) int {
	y, m, d := ts.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, since.Location())
	return int(math.Round(day.Sub(since).Hours() / 24))
}

func percent(part, total int) float64 {
	return round1(float64(part) * 100 / float64(total))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
