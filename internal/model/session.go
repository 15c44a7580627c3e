package model

import (
	"time"

	"github.com/google/uuid"
)

// Credentials are the email/password pair used to sign up or sign in.
type Credentials struct {
	Email    string
	Password string
}

// Session is an issued token pair. ExpiresAt is the access token expiry.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthResult is returned after a successful signup, login or refresh.
type AuthResult struct {
	User    User
	Session Session
}

// TokenManager signs and parses the bearer and refresh tokens of a Session.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (token string, jti string, err error)
	ParseAccessToken(token string) (uuid.UUID, error)
	ParseRefreshToken(token string) (userID uuid.UUID, jti string, err error)
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}
