package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"
)

// DecideAdUseCase применяет решение модератора: меняет статус, добавляет ровно
// одну запись в историю и публикует событие аудита.
type DecideAdUseCase struct {
	repo      port.AdRepositoryPort
	events    port.DecisionEventsPort
	moderator domain.Moderator
	now       func() time.Time
}

// NewDecideAdUseCase - events может быть nil, тогда события не публикуются.
func NewDecideAdUseCase(repo port.AdRepositoryPort, events port.DecisionEventsPort, moderator domain.Moderator) *DecideAdUseCase {
	return &DecideAdUseCase{
		repo:      repo,
		events:    events,
		moderator: moderator,
		now:       time.Now,
	}
}

func (uc *DecideAdUseCase) Execute(ctx context.Context, id int64, decision domain.Decision) (*domain.Advertisement, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "DecideAd",
		"ad_id":    id,
		"action":   decision.Action.String(),
	})

	if err := decision.Validate(); err != nil {
		logger.Warn("Rejected invalid decision", port.Fields{"error": err.Error()})
		return nil, err
	}

	entry := domain.ModerationHistoryEntry{
		ID:            uuid.New(),
		ModeratorID:   uc.moderator.ID,
		ModeratorName: uc.moderator.Name,
		Action:        decision.Action.HistoryAction(),
		Timestamp:     uc.now().UTC(),
	}
	if decision.Reason != "" {
		reason := string(decision.Reason)
		entry.Reason = &reason
	}
	if decision.Comment != "" {
		comment := decision.Comment
		entry.Comment = &comment
	}

	status := decision.Action.ResultingStatus()
	ad, err := uc.repo.ApplyDecision(ctx, id, status, entry)
	if err != nil {
		if errors.Is(err, domain.ErrAdNotFound) {
			logger.Info("Ad not found", nil)
			return nil, err
		}
		logger.Error("Failed to apply decision", err, nil)
		return nil, fmt.Errorf("failed to apply decision to ad %d: %w", id, err)
	}
	logger.Info("Decision applied", port.Fields{"status": string(status), "entry_id": entry.ID.String()})

	if uc.events != nil {
		event := port.DecisionRecordedEvent{
			AdID:          id,
			Action:        string(entry.Action),
			Status:        string(status),
			Reason:        entry.Reason,
			Comment:       entry.Comment,
			ModeratorID:   entry.ModeratorID,
			ModeratorName: entry.ModeratorName,
			EntryID:       entry.ID,
			DecidedAt:     entry.Timestamp,
		}
		// Решение уже сохранено, сбой публикации только логируется.
		if err := uc.events.PublishDecisionRecorded(ctx, event); err != nil {
			logger.Error("Failed to publish decision event", err, port.Fields{"entry_id": entry.ID.String()})
		}
	}

	return ad, nil
}
