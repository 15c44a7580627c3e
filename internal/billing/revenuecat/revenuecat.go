// Package revenuecat verifies and decodes RevenueCat webhook deliveries.
package revenuecat

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dtroode/hypecard-server/internal/model"
)

const (
	ProviderName    = "revenuecat"
	SignatureHeader = "X-RevenueCat-Signature"
	signaturePrefix = "sha256="
)

var (
	ErrMissingSignature = errors.New("revenuecat: missing signature")
	ErrInvalidSignature = errors.New("revenuecat: invalid signature")
	ErrMalformedPayload = errors.New("revenuecat: malformed payload")
)

// Event types that change entitlement.
const (
	EventInitialPurchase     = "INITIAL_PURCHASE"
	EventRenewal             = "RENEWAL"
	EventNonRenewingPurchase = "NON_RENEWING_PURCHASE"
	EventCancellation        = "CANCELLATION"
	EventExpiration          = "EXPIRATION"
	EventRefund              = "REFUND"
)

var _ model.BillingProvider = (*Provider)(nil)

// Provider implements model.BillingProvider for RevenueCat.
type Provider struct {
	secret        []byte
	skipSignature bool
}

// NewProvider creates a Provider. When skipSignature is set every signature is accepted.
func NewProvider(secret string, skipSignature bool) *Provider {
	return &Provider{secret: []byte(secret), skipSignature: skipSignature}
}

func (p *Provider) Name() string {
	return ProviderName
}

// VerifySignature checks a hex HMAC-SHA256 of body, optionally prefixed with "sha256=".
func (p *Provider) VerifySignature(body []byte, signature string) error {
	if p.skipSignature {
		return nil
	}

	signature = strings.TrimPrefix(strings.TrimSpace(signature), signaturePrefix)
	if signature == "" {
		return ErrMissingSignature
	}
	if len(p.secret) == 0 {
		return ErrInvalidSignature
	}

	presented, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}

	if !hmac.Equal(presented, Sign(p.secret, body)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns the raw HMAC-SHA256 of body.
func Sign(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return mac.Sum(nil)
}

type eventPayload struct {
	Type      string `json:"type"`
	AppUserID string `json:"app_user_id"`
	ProductID string `json:"product_id"`
}

type envelope struct {
	eventPayload
	Event *eventPayload `json:"event"`
}

// ParseEvent decodes a flat or {"event": {...}} payload and resolves its entitlement change.
func (p *Provider) ParseEvent(body []byte) (model.BillingEvent, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return model.BillingEvent{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	payload := env.eventPayload
	if env.Event != nil {
		payload = *env.Event
	}

	return model.BillingEvent{
		Type:      payload.Type,
		AppUserID: strings.TrimSpace(payload.AppUserID),
		ProductID: payload.ProductID,
		Change:    entitlementChange(payload.Type, payload.ProductID),
	}, nil
}

func entitlementChange(eventType, productID string) model.EntitlementChange {
	switch eventType {
	case EventInitialPurchase, EventRenewal, EventNonRenewingPurchase:
		if isProProduct(productID) {
			return model.EntitlementGrant
		}
		return model.EntitlementRevoke
	case EventCancellation, EventExpiration, EventRefund:
		return model.EntitlementRevoke
	default:
		return model.EntitlementUnchanged
	}
}

func isProProduct(productID string) bool {
	return strings.Contains(productID, "pro") || strings.Contains(productID, "premium")
}
