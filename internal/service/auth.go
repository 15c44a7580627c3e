package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/hypecard-server/internal/logger"
	"github.com/dtroode/hypecard-server/internal/model"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer inputs.
	maxPasswordBytes = 72
)

// Auth signs users up and in with email and password and issues sessions.
type Auth struct {
	userStore    model.UserStore
	tokenService *TokenService
	logger       *logger.Logger
	hashCost     int
}

func NewAuth(
	userStore model.UserStore,
	refreshTokenStore model.RefreshTokenStore,
	logger *logger.Logger,
	tokenManager model.TokenManager,
) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenService: NewTokenService(tokenManager, refreshTokenStore, logger),
		logger:       logger,
		hashCost:     bcrypt.DefaultCost,
	}
}

// Signup registers a new user and returns a session for it.
func (a *Auth) Signup(ctx context.Context, creds model.Credentials) (model.AuthResult, error) {
	email, err := normalizeCredentials(creds)
	if err != nil {
		return model.AuthResult{}, err
	}

	a.logger.Debug("Auth service: starting user registration", "email", email)

	existing, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.AuthResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: user already exists", "email", email)
		return model.AuthResult{}, model.NewErrConflict("User already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), a.hashCost)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.AuthResult{}, model.NewErrConflict("User already registered")
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user", "email", email, "error", err)
		return model.AuthResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully", "user_id", user.ID)

	return model.AuthResult{User: user, Session: session}, nil
}

// Login checks the password and returns a fresh session.
func (a *Auth) Login(ctx context.Context, creds model.Credentials) (model.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return model.AuthResult{}, model.NewErrValidation("Email and password are required")
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.AuthResult{}, model.NewErrUnauthorized("Invalid login credentials")
	}
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if len(user.PasswordHash) == 0 || bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)) != nil {
		a.logger.Info("Auth service: invalid credentials", "user_id", user.ID)
		return model.AuthResult{}, model.NewErrUnauthorized("Invalid login credentials")
	}

	session, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login completed successfully", "user_id", user.ID)

	return model.AuthResult{User: user, Session: session}, nil
}

// Refresh rotates a refresh token into a new session.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.AuthResult, error) {
	if refreshToken == "" {
		return model.AuthResult{}, model.NewErrValidation("Refresh token is required")
	}

	userID, session, err := a.tokenService.Refresh(ctx, refreshToken)
	if err != nil {
		a.logger.Info("Auth service: refresh failed", "error", err)
		return model.AuthResult{}, model.NewErrUnauthorized("Invalid or expired refresh token")
	}

	user, err := a.Me(ctx, userID)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{User: user, Session: session}, nil
}

// Me returns the stored user. A user without a row is projected as a free user.
func (a *Auth) Me(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{ID: userID}, nil
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func normalizeCredentials(creds model.Credentials) (string, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return "", model.NewErrValidation("Email and password are required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", model.NewErrValidation("Invalid email address")
	}
	if len(creds.Password) < minPasswordLength {
		return "", model.NewErrValidation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(creds.Password) > maxPasswordBytes {
		return "", model.NewErrValidation(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}
	return email, nil
}
