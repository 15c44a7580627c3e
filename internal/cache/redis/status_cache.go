// Package redis caches provider job status in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/hypecard-server/internal/model"
)

const keyPrefix = "hypecard:provider-status:"

// Internal adapter interface to enable mocking without a real Redis server.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var _ model.StatusCache = (*StatusCache)(nil)

// StatusCache implements model.StatusCache on Redis.
type StatusCache struct {
	api redisAPI
}

// Options describes how to reach Redis.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient opens a Redis client and verifies connectivity.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewStatusCache creates a StatusCache backed by api.
func NewStatusCache(api redisAPI) *StatusCache {
	return &StatusCache{api: api}
}

func (c *StatusCache) Get(ctx context.Context, jobID string) (model.ProviderVideo, bool, error) {
	raw, err := c.api.Get(ctx, keyPrefix+jobID).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.ProviderVideo{}, false, nil
	}
	if err != nil {
		return model.ProviderVideo{}, false, fmt.Errorf("failed to get cached status: %w", err)
	}

	var video model.ProviderVideo
	if err := json.Unmarshal(raw, &video); err != nil {
		return model.ProviderVideo{}, false, fmt.Errorf("failed to decode cached status: %w", err)
	}
	return video, true, nil
}

func (c *StatusCache) Set(ctx context.Context, jobID string, video model.ProviderVideo, ttl time.Duration) error {
	raw, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	if err := c.api.Set(ctx, keyPrefix+jobID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache status: %w", err)
	}
	return nil
}
