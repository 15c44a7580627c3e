// Package provider holds decorators around video synthesis providers.
package provider

import (
	"context"
	"time"

	"github.com/dtroode/hypecard-server/internal/logger"
	"github.com/dtroode/hypecard-server/internal/model"
)

var _ model.VideoSynthesizer = (*CachingSynthesizer)(nil)

// CachingSynthesizer wraps another VideoSynthesizer and serves repeated status
// lookups for the same job from a StatusCache for the provided TTL.
type CachingSynthesizer struct {
	base   model.VideoSynthesizer
	cache  model.StatusCache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachingSynthesizer returns a synthesizer that caches Status results.
func NewCachingSynthesizer(base model.VideoSynthesizer, cache model.StatusCache, ttl time.Duration, logger *logger.Logger) *CachingSynthesizer {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &CachingSynthesizer{base: base, cache: cache, ttl: ttl, logger: logger}
}

// Generate is never cached.
func (c *CachingSynthesizer) Generate(ctx context.Context, req model.GenerateRequest) (model.ProviderVideo, error) {
	return c.base.Generate(ctx, req)
}

// Status returns a cached result when available, otherwise it delegates to the
// underlying provider and stores the result. Cache failures fall through.
func (c *CachingSynthesizer) Status(ctx context.Context, jobID string) (model.ProviderVideo, error) {
	cached, ok, err := c.cache.Get(ctx, jobID)
	if err != nil {
		c.logger.Warn("Provider cache: lookup failed", "job_id", jobID, "error", err)
	}
	if ok {
		return cached, nil
	}

	video, err := c.base.Status(ctx, jobID)
	if err != nil {
		return model.ProviderVideo{}, err
	}

	if err := c.cache.Set(ctx, jobID, video, c.ttl); err != nil {
		c.logger.Warn("Provider cache: store failed", "job_id", jobID, "error", err)
	}

	return video, nil
}
