// Package context stores the authenticated user id on request contexts.
package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/hypecard-server/internal/model"
)

type ctxKey struct{}

var userIDKey = ctxKey{}

var _ model.ContextManager = (*Manager)(nil)

// Manager implements model.ContextManager over context values.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a copy of ctx carrying userID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext reports the user id set by SetUserIDToContext.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
