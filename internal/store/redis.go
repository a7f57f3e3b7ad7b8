package store

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"
)

// Redis implements KV on top of a Redis client. Values are stored without
// expiry; the storefront owns a handful of long-lived keys.
type Redis struct {
	Client *redis.Client
}

var errNotConfigured = errors.New("store: redis client not configured")

// Get returns the value stored under key.
func (r Redis) Get(ctx context.Context, key string) (string, bool, error) {
	if r.Client == nil {
		return "", false, errNotConfigured
	}
	val, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

// Set writes value under key.
func (r Redis) Set(ctx context.Context, key, value string) error {
	if r.Client == nil {
		return errNotConfigured
	}
	return r.Client.Set(ctx, key, value, 0).Err()
}

// Remove deletes key. Removing an absent key is not an error.
func (r Redis) Remove(ctx context.Context, key string) error {
	if r.Client == nil {
		return errNotConfigured
	}
	return r.Client.Del(ctx, key).Err()
}
