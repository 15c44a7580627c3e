package model

import (
	"context"
	"net"

	"github.com/google/uuid"
)

// ContextManager carries the authenticated user between middleware and handlers.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	// GetUserIDFromContext reports false when no user, or uuid.Nil, is stored.
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
}

// SecurityLayer opens the listener the HTTP server accepts on, plain or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a long-running listener driven by main.
type Server interface {
	// Start blocks until the server stops. A graceful stop returns nil.
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
