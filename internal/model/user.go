package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	// UpsertEntitlement sets the Pro flag, creating a bare user row when none exists.
	UpsertEntitlement(ctx context.Context, id uuid.UUID, isPro bool) (User, error)
}

// User represents a stored user with authentication material and entitlement.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	IsPro        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
