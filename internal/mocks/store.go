// Package mocks provides testify mocks for the interfaces in package model.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/hypecard-server/internal/model"
)

// UserStore is a mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) UpsertEntitlement(ctx context.Context, id uuid.UUID, isPro bool) (model.User, error) {
	args := m.Called(ctx, id, isPro)
	return args.Get(0).(model.User), args.Error(1)
}

// VideoStore is a mock of model.VideoStore.
type VideoStore struct {
	mock.Mock
}

func (m *VideoStore) Create(ctx context.Context, record model.VideoRecord) (model.VideoRecord, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(model.VideoRecord), args.Error(1)
}

func (m *VideoStore) GetByID(ctx context.Context, id int64) (model.VideoRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.VideoRecord), args.Error(1)
}

func (m *VideoStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.VideoRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VideoRecord), args.Error(1)
}

func (m *VideoStore) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *VideoStore) UpdateProviderState(ctx context.Context, record model.VideoRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *VideoStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// RefreshTokenStore is a mock of model.RefreshTokenStore.
type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// WebhookEventStore is a mock of model.WebhookEventStore.
type WebhookEventStore struct {
	mock.Mock
}

func (m *WebhookEventStore) Create(ctx context.Context, event model.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
