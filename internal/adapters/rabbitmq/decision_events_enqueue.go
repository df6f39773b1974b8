package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/contracts"
	"moderation-console/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// messagePublisher - то, что нужно адаптеру от rabbitmq_producer.Publisher.
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// DecisionEventsAdapter публикует события о решениях модератора.
type DecisionEventsAdapter struct {
	producer   messagePublisher
	routingKey string
}

func NewDecisionEventsAdapter(producer messagePublisher, routingKey string) (*DecisionEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &DecisionEventsAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

func (a *DecisionEventsAdapter) PublishDecisionRecorded(ctx context.Context, event port.DecisionRecordedEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "DecisionEventsAdapter",
		"routing_key": a.routingKey,
		"ad_id":       event.AdID,
		"action":      event.Action,
	})

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal event: %w", err)
	}
	if err := contracts.Validate(contracts.AdDecisionRecordedEvent, contracts.VersionV1, body); err != nil {
		adapterLogger.Error("Event does not match its schema", err, nil)
		return fmt.Errorf("rabbitmq adapter: invalid event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         contracts.AdDecisionRecordedEvent,
		Headers: amqp.Table{
			"x-event-version": contracts.VersionV1,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish decision event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish decision for ad %d: %w", event.AdID, err)
	}

	adapterLogger.Debug("Decision event published", port.Fields{"entry_id": event.EntryID.String()})
	return nil
}
