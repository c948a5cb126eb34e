package broker

import (
	"context"
	"fmt"

	"mobile-store/internal/models"
)

// EventPublisher publishes domain events. A nil publisher drops everything,
// so event publishing stays optional wiring rather than a hard dependency.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderPlaced publishes an OrderPlaced event keyed by order ID
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	if ep == nil {
		return nil
	}
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishUserRegistered publishes a UserRegistered event keyed by user ID
func (ep *EventPublisher) PublishUserRegistered(ctx context.Context, event *models.UserRegisteredEvent) error {
	if ep == nil {
		return nil
	}
	key := fmt.Sprintf("user-%d", event.UserID)
	return ep.producer.PublishEvent(ctx, key, event)
}
