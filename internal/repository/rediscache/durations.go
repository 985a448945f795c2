// Package rediscache caches probed video durations in Redis, with an
// in-process fallback backend for deployments without a Redis address.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "media:durations:"

// RedisDurationCache stores durations as JSON numbers under
// media:durations:<video name>.
type RedisDurationCache struct {
	client *redis.Client
}

func NewRedisDurationCache(client *redis.Client) *RedisDurationCache {
	return &RedisDurationCache{client: client}
}

func (c *RedisDurationCache) Get(ctx context.Context, videoName string) (float64, bool, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+videoName).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return 0, false, err
	}
	return seconds, true, nil
}

func (c *RedisDurationCache) GetMany(ctx context.Context, videoNames []string) (map[string]float64, error) {
	if len(videoNames) == 0 {
		return map[string]float64{}, nil
	}

	keys := make([]string, len(videoNames))
	for i, name := range videoNames {
		keys[i] = redisKeyPrefix + name
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(videoNames))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue // nil for misses
		}
		var seconds float64
		if err := json.Unmarshal([]byte(raw), &seconds); err != nil {
			continue
		}
		out[videoNames[i]] = seconds
	}
	return out, nil
}

func (c *RedisDurationCache) Set(ctx context.Context, videoName string, seconds float64, ttl time.Duration) error {
	data, err := json.Marshal(seconds)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redisKeyPrefix+videoName, data, ttl).Err()
}

func (c *RedisDurationCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
