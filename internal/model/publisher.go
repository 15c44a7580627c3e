package model

import "context"

// Lifecycle event types.
const (
	EventVideoCreated        = "video.created"
	EventVideoStatusChanged  = "video.status_changed"
	EventVideoDeleted        = "video.deleted"
	EventSubscriptionChanged = "subscription.changed"
)

// Event is a domain event published to the message bus.
type Event struct {
	Type    string
	Key     string
	Payload any
}

// EventPublisher delivers domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
