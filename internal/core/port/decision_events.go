package port

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DecisionRecordedEvent - событие аудита, публикуемое после каждого решения.
type DecisionRecordedEvent struct {
	AdID          int64     `json:"ad_id"`
	Action        string    `json:"action"`
	Status        string    `json:"status"`
	Reason        *string   `json:"reason,omitempty"`
	Comment       *string   `json:"comment,omitempty"`
	ModeratorID   int64     `json:"moderator_id"`
	ModeratorName string    `json:"moderator_name"`
	EntryID       uuid.UUID `json:"entry_id"`
	DecidedAt     time.Time `json:"decided_at"`
}

// DecisionEventsPort - контракт для публикации событий о решениях.
type DecisionEventsPort interface {
	PublishDecisionRecorded(ctx context.Context, event DecisionRecordedEvent) error
}
