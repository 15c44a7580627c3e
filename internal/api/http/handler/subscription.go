package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/hypecard-server/internal/api/http/response"
	"github.com/dtroode/hypecard-server/internal/logger"
	"github.com/dtroode/hypecard-server/internal/model"
)

// SubscriptionService defines entitlement operations.
type SubscriptionService interface {
	HandleWebhook(ctx context.Context, body []byte, signature string) (model.WebhookResult, error)
	Status(ctx context.Context, userID uuid.UUID) (model.SubscriptionStatus, error)
}

// Subscription handles billing endpoints.
type Subscription struct {
	subscriptionService SubscriptionService
	signatureHeader     string
	contextManager      model.ContextManager
	logger              *logger.Logger
}

// NewSubscription creates a Subscription handler reading signatures from signatureHeader.
func NewSubscription(
	subscriptionService SubscriptionService,
	signatureHeader string,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Subscription {
	return &Subscription{
		subscriptionService: subscriptionService,
		signatureHeader:     signatureHeader,
		contextManager:      contextManager,
		logger:              logger,
	}
}

// Webhook applies a billing platform delivery. The raw body is passed through
// untouched for signature verification.
func (h *Subscription) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		handleBindError(c, err)
		return
	}

	res, err := h.subscriptionService.HandleWebhook(c.Request.Context(), body, c.GetHeader(h.signatureHeader))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, webhookView{Message: res.Message, UserID: res.UserID, IsPro: res.IsPro})
}

func (h *Subscription) Status(c *gin.Context) {
	userID, ok := userIDFromRequest(c, h.contextManager)
	if !ok {
		return
	}

	status, err := h.subscriptionService.Status(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, subscriptionStatusView{IsPro: status.IsPro, UpdatedAt: status.UpdatedAt})
}
