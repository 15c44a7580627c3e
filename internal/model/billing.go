package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntitlementChange is the effect a billing event has on the Pro flag.
type EntitlementChange int

const (
	EntitlementUnchanged EntitlementChange = iota
	EntitlementGrant
	EntitlementRevoke
)

// BillingEvent is a parsed billing platform notification.
type BillingEvent struct {
	Type      string
	AppUserID string
	ProductID string
	Change    EntitlementChange
}

// BillingProvider authenticates and decodes webhook deliveries.
type BillingProvider interface {
	Name() string
	VerifySignature(body []byte, signature string) error
	ParseEvent(body []byte) (BillingEvent, error)
}

// WebhookEventStore keeps an audit trail of webhook deliveries.
type WebhookEventStore interface {
	Create(ctx context.Context, event WebhookEvent) error
}

// WebhookEvent is one audited webhook delivery.
type WebhookEvent struct {
	ID              uuid.UUID
	Provider        string
	EventType       string
	UserID          string
	Payload         []byte
	SignatureValid  bool
	ArchiveKey      string
	ProcessingError string
	ProcessedAt     time.Time
}

// WebhookResult acknowledges a processed delivery.
type WebhookResult struct {
	Message string
	// UserID echoes app_user_id, which is not always an account id.
	UserID  string
	IsPro   bool
}

// SubscriptionStatus is the entitlement view for the current user.
type SubscriptionStatus struct {
	IsPro     bool
	UpdatedAt *time.Time
}
