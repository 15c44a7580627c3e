package model

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// RefreshTokenStore persists refresh token records. Only the token hash is stored.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByJTI(ctx context.Context, jti string) (RefreshToken, error)
	// RevokeByJTI returns ErrTokenRevoked when the token was already revoked,
	// so only one of two concurrent rotations can win.
	RevokeByJTI(ctx context.Context, jti string) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
}

// RefreshToken is one issued refresh token. Rotations link back through RotatedFromJTI.
type RefreshToken struct {
	ID             uuid.UUID
	JTI            string
	UserID         uuid.UUID
	TokenHash      []byte
	IssuedAt       time.Time
	ExpiresAt      time.Time
	RevokedAt      *time.Time
	RotatedFromJTI *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks that the record is live at now and matches the presented hash.
func (rt RefreshToken) Validate(presentedHash []byte, now time.Time) error {
	switch {
	case rt.RevokedAt != nil:
		return ErrTokenRevoked
	case now.After(rt.ExpiresAt):
		return ErrTokenExpired
	case subtle.ConstantTimeCompare(rt.TokenHash, presentedHash) != 1:
		return ErrTokenMismatch
	}
	return nil
}
