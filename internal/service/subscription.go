package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/hypecard-server/internal/logger"
	"github.com/dtroode/hypecard-server/internal/model"
)

const (
	msgWebhookProcessed     = "Webhook processed successfully"
	msgWebhookBadSignature  = "Invalid signature"
	msgWebhookBadPayload    = "Invalid JSON payload"
	msgWebhookMissingUserID = "Invalid webhook event - missing user ID"
	msgWebhookInvalidUserID = "Invalid user ID"
	msgWebhookFailed        = "Failed to process webhook"
)

// Subscription applies billing webhook events to user entitlement.
type Subscription struct {
	userStore  model.UserStore
	eventStore model.WebhookEventStore
	billing    model.BillingProvider
	storage    model.Storage
	publisher  model.EventPublisher
	logger     *logger.Logger
	now        func() time.Time
}

// NewSubscription creates the service. storage may be nil, in which case raw
// bodies are not archived.
func NewSubscription(
	userStore model.UserStore,
	eventStore model.WebhookEventStore,
	billing model.BillingProvider,
	storage model.Storage,
	publisher model.EventPublisher,
	logger *logger.Logger,
) *Subscription {
	return &Subscription{
		userStore:  userStore,
		eventStore: eventStore,
		billing:    billing,
		storage:    storage,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleWebhook verifies, decodes and applies one delivery. Every delivery is
// audited, whatever its outcome.
func (s *Subscription) HandleWebhook(ctx context.Context, body []byte, signature string) (result model.WebhookResult, err error) {
	audit := model.WebhookEvent{
		ID:       uuid.New(),
		Provider: s.billing.Name(),
		Payload:  body,
	}
	audit.ArchiveKey = s.archive(ctx, audit.ID, body)

	defer func() {
		if err != nil {
			audit.ProcessingError = err.Error()
		}
		audit.ProcessedAt = s.now()
		if auditErr := s.eventStore.Create(ctx, audit); auditErr != nil {
			s.logger.Error("Subscription service: failed to audit webhook", "event_id", audit.ID, "error", auditErr)
		}
	}()

	if err := s.billing.VerifySignature(body, signature); err != nil {
		s.logger.Warn("Subscription service: webhook signature rejected", "event_id", audit.ID, "error", err)
		return model.WebhookResult{}, model.NewErrUnauthorized(msgWebhookBadSignature)
	}
	audit.SignatureValid = true

	event, err := s.billing.ParseEvent(body)
	if err != nil {
		s.logger.Warn("Subscription service: malformed webhook payload", "event_id", audit.ID, "error", err)
		return model.WebhookResult{}, model.NewErrValidation(msgWebhookBadPayload)
	}
	audit.EventType = event.Type
	audit.UserID = event.AppUserID

	if event.AppUserID == "" {
		return model.WebhookResult{}, model.NewErrValidation(msgWebhookMissingUserID)
	}

	userID, parseErr := uuid.Parse(event.AppUserID)
	if parseErr != nil {
		if event.Change != model.EntitlementUnchanged {
			return model.WebhookResult{}, model.NewErrValidation(msgWebhookInvalidUserID)
		}
		s.logger.Info("Subscription service: acknowledged event for non-account user", "event_id", audit.ID, "type", event.Type, "app_user_id", event.AppUserID)
		return model.WebhookResult{Message: msgWebhookProcessed, UserID: event.AppUserID}, nil
	}

	s.logger.Info("Subscription service: processing webhook", "event_id", audit.ID, "type", event.Type, "user_id", userID)

	var isPro bool
	switch event.Change {
	case model.EntitlementGrant, model.EntitlementRevoke:
		user, err := s.userStore.UpsertEntitlement(ctx, userID, event.Change == model.EntitlementGrant)
		if err != nil {
			s.logger.Error("Subscription service: failed to update entitlement", "user_id", userID, "error", err)
			return model.WebhookResult{}, model.NewErrInternal(msgWebhookFailed)
		}
		isPro = user.IsPro
		s.publishChange(ctx, event, user)
	default:
		isPro, err = s.currentEntitlement(ctx, userID)
		if err != nil {
			s.logger.Error("Subscription service: failed to read entitlement", "user_id", userID, "error", err)
			return model.WebhookResult{}, model.NewErrInternal(msgWebhookFailed)
		}
		s.logger.Info("Subscription service: event does not change entitlement", "type", event.Type, "user_id", userID)
	}

	return model.WebhookResult{
		Message: msgWebhookProcessed,
		UserID:  userID.String(),
		IsPro:   isPro,
	}, nil
}

// Status returns the user's entitlement. Unknown users are free.
func (s *Subscription) Status(ctx context.Context, userID uuid.UUID) (model.SubscriptionStatus, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.SubscriptionStatus{}, nil
	}
	if err != nil {
		return model.SubscriptionStatus{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	updatedAt := user.UpdatedAt
	return model.SubscriptionStatus{IsPro: user.IsPro, UpdatedAt: &updatedAt}, nil
}

func (s *Subscription) currentEntitlement(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsPro, nil
}

func (s *Subscription) archive(ctx context.Context, id uuid.UUID, body []byte) string {
	if s.storage == nil {
		return ""
	}

	key := fmt.Sprintf("webhooks/%s/%s/%s.json", s.billing.Name(), s.now().UTC().Format("2006/01/02"), id)
	if err := s.storage.Upload(ctx, key, body, "application/json"); err != nil {
		s.logger.Warn("Subscription service: failed to archive webhook body", "event_id", id, "error", err)
		return ""
	}
	return key
}

func (s *Subscription) publishChange(ctx context.Context, event model.BillingEvent, user model.User) {
	err := s.publisher.Publish(ctx, model.Event{
		Type: model.EventSubscriptionChanged,
		Key:  user.ID.String(),
		Payload: map[string]any{
			"user_id":    user.ID,
			"is_pro":     user.IsPro,
			"event_type": event.Type,
			"product_id": event.ProductID,
		},
	})
	if err != nil {
		s.logger.Warn("Subscription service: failed to publish event", "user_id", user.ID, "error", err)
	}
}
