package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/hypecard-server/internal/mocks"
	"github.com/dtroode/hypecard-server/internal/model"
	"github.com/dtroode/hypecard-server/internal/testutil"
)

func TestCachingSynthesizer_StatusHit(t *testing.T) {
	ctx := context.Background()
	base := &servermocks.VideoSynthesizer{}
	cache := &servermocks.StatusCache{}

	cached := model.ProviderVideo{JobID: "j1", Status: model.VideoStatusCompleted}
	cache.On("Get", ctx, "j1").Return(cached, true, nil).Once()

	c := NewCachingSynthesizer(base, cache, time.Minute, testutil.MakeNoopLogger())
	got, err := c.Status(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, cached, got)

	base.AssertNotCalled(t, "Status", ctx, "j1")
	cache.AssertExpectations(t)
}

func TestCachingSynthesizer_StatusMissStores(t *testing.T) {
	ctx := context.Background()
	base := &servermocks.VideoSynthesizer{}
	cache := &servermocks.StatusCache{}

	fresh := model.ProviderVideo{JobID: "j1", Status: model.VideoStatusProcessing}
	cache.On("Get", ctx, "j1").Return(model.ProviderVideo{}, false, nil).Once()
	base.On("Status", ctx, "j1").Return(fresh, nil).Once()
	cache.On("Set", ctx, "j1", fresh, time.Minute).Return(nil).Once()

	c := NewCachingSynthesizer(base, cache, time.Minute, testutil.MakeNoopLogger())
	got, err := c.Status(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, fresh, got)

	base.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCachingSynthesizer_CacheErrorsFallThrough(t *testing.T) {
	ctx := context.Background()
	base := &servermocks.VideoSynthesizer{}
	cache := &servermocks.StatusCache{}

	fresh := model.ProviderVideo{JobID: "j1", Status: model.VideoStatusFailed}
	cache.On("Get", ctx, "j1").Return(model.ProviderVideo{}, false, errors.New("redis down")).Once()
	base.On("Status", ctx, "j1").Return(fresh, nil).Once()
	cache.On("Set", ctx, "j1", fresh, 15*time.Second).Return(errors.New("redis down")).Once()

	c := NewCachingSynthesizer(base, cache, 0, testutil.MakeNoopLogger())
	got, err := c.Status(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}

func TestCachingSynthesizer_ProviderErrorNotCached(t *testing.T) {
	ctx := context.Background()
	base := &servermocks.VideoSynthesizer{}
	cache := &servermocks.StatusCache{}

	cache.On("Get", ctx, "j1").Return(model.ProviderVideo{}, false, nil).Once()
	base.On("Status", ctx, "j1").Return(model.ProviderVideo{}, assert.AnError).Once()

	c := NewCachingSynthesizer(base, cache, time.Minute, testutil.MakeNoopLogger())
	_, err := c.Status(ctx, "j1")
	require.ErrorIs(t, err, assert.AnError)
	cache.AssertNumberOfCalls(t, "Set", 0)
}

func TestCachingSynthesizer_GenerateDelegates(t *testing.T) {
	ctx := context.Background()
	base := &servermocks.VideoSynthesizer{}
	cache := &servermocks.StatusCache{}

	req := model.GenerateRequest{Script: "s", JobName: "n"}
	base.On("Generate", ctx, req).Return(model.ProviderVideo{JobID: "j2"}, nil).Once()

	c := NewCachingSynthesizer(base, cache, time.Minute, testutil.MakeNoopLogger())
	got, err := c.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "j2", got.JobID)
}
