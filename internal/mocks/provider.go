package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/hypecard-server/internal/model"
)

// VideoSynthesizer is a mock of model.VideoSynthesizer.
type VideoSynthesizer struct {
	mock.Mock
}

func (m *VideoSynthesizer) Generate(ctx context.Context, req model.GenerateRequest) (model.ProviderVideo, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.ProviderVideo), args.Error(1)
}

func (m *VideoSynthesizer) Status(ctx context.Context, jobID string) (model.ProviderVideo, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(model.ProviderVideo), args.Error(1)
}

// StatusCache is a mock of model.StatusCache.
type StatusCache struct {
	mock.Mock
}

func (m *StatusCache) Get(ctx context.Context, jobID string) (model.ProviderVideo, bool, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(model.ProviderVideo), args.Bool(1), args.Error(2)
}

func (m *StatusCache) Set(ctx context.Context, jobID string, video model.ProviderVideo, ttl time.Duration) error {
	args := m.Called(ctx, jobID, video, ttl)
	return args.Error(0)
}

// EventPublisher is a mock of model.EventPublisher.
type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, event model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// Storage is a mock of model.Storage.
type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

// BillingProvider is a mock of model.BillingProvider.
type BillingProvider struct {
	mock.Mock
}

func (m *BillingProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *BillingProvider) VerifySignature(body []byte, signature string) error {
	args := m.Called(body, signature)
	return args.Error(0)
}

func (m *BillingProvider) ParseEvent(body []byte) (model.BillingEvent, error) {
	args := m.Called(body)
	return args.Get(0).(model.BillingEvent), args.Error(1)
}
