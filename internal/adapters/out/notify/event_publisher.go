package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// DeadLetterDTO is an event that exhausted its delivery retries. Rows are
// kept for manual replay; nothing in the hot path reads them.
type DeadLetterDTO struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	EventName  string
	OrderID    string
	Payload    []byte
	FailReason string
	OccurredAt time.Time
	StoredAt   time.Time
}

// TableName specifies the database table name for dead-lettered events.
func (DeadLetterDTO) TableName() string {
	return "event_dead_letters"
}

// WebhookEventPublisher implements ports.EventPublisher by POSTing domain
// events to a downstream sink. Events that cannot be delivered after
// retries are dead-lettered instead of failing the caller: a committed
// state change is a fact, and an unreachable subscriber must not undo it.
type WebhookEventPublisher struct {
	sinkURL string
	client  *http.Client
	db      *gorm.DB
	logger  *slog.Logger
}

// NewWebhookEventPublisher creates an event publisher targeting the given
// sink URL, dead-lettering into the given database.
func NewWebhookEventPublisher(sinkURL string, db *gorm.DB, logger *slog.Logger) *WebhookEventPublisher {
	return &WebhookEventPublisher{
		sinkURL: sinkURL,
		client:  &http.Client{Timeout: requestTimeout},
		db:      db,
		logger:  logger.With("component", "event_publisher"),
	}
}

// Publish delivers the event, retrying with exponential backoff. On
// exhaustion the event lands in the dead-letter table and Publish returns
// the storage outcome, not the delivery failure.
func (p *WebhookEventPublisher) Publish(ctx context.Context, event ports.OutboundEvent) error {
	payload := map[string]any{
		"name":       event.Name,
		"orderId":    event.OrderID.String(),
		"occurredAt": event.OccurredAt.UTC().Format(time.RFC3339),
		"payload":    event.Payload,
	}

	err := postWithRetry(ctx, p.client, p.sinkURL, payload)
	if err == nil {
		return nil
	}

	p.logger.WarnContext(ctx, "event delivery failed, dead-lettering",
		"event", event.Name, "orderId", event.OrderID.String(), "error", err)

	return p.deadLetter(ctx, event, err)
}

func (p *WebhookEventPublisher) deadLetter(ctx context.Context, event ports.OutboundEvent, cause error) error {
	raw, err := json.Marshal(event.Payload)
	if err != nil {
		raw = []byte("{}")
	}

	dto := DeadLetterDTO{
		EventName:  event.Name,
		OrderID:    event.OrderID.String(),
		Payload:    raw,
		FailReason: cause.Error(),
		OccurredAt: event.OccurredAt,
		StoredAt:   time.Now().UTC(),
	}

	if err = p.db.WithContext(ctx).Create(&dto).Error; err != nil {
		p.logger.ErrorContext(ctx, "dead-letter store failed",
			"event", event.Name, "orderId", event.OrderID.String(), "error", err)
		return err
	}

	return nil
}
