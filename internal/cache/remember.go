package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// GetJSON decodes a cached JSON value into dest
func GetJSON(ctx context.Context, c Cache, key string, dest interface{}) bool {
	raw, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON stores value encoded as JSON
func SetJSON(ctx context.Context, c Cache, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}

// Remember returns the cached value for key or computes and stores it.
// Cache failures are logged and never fail the call.
func Remember[T any](ctx context.Context, c Cache, logger *zap.Logger, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var cached T
	if c != nil && GetJSON(ctx, c, key, &cached) {
		logger.Debug("Cache hit", zap.String("key", key))
		return cached, nil
	}

	result, err := fn()
	if err != nil {
		return result, err
	}

	if c != nil {
		if cacheErr := SetJSON(ctx, c, key, result, ttl); cacheErr != nil {
			logger.Warn("Failed to cache result",
				zap.String("key", key),
				zap.Error(cacheErr),
			)
		}
	}
	return result, nil
}
