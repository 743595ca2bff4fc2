package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a generic key-value cache with TTL support.
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL
//   - Negative: item never expires
type Cache[V any] interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes a key from the cache.
	Delete(ctx context.Context, key string) error

	// Close releases resources (stops background goroutines, etc.).
	Close() error
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

var sfGroup singleflight.Group

type getOrSetResult[V any] struct {
	val V
	ttl time.Duration
}

// GetOrSet retrieves a value from the cache, or calls fn to compute it on
// a miss. Concurrent misses for the same key are deduplicated with
// singleflight: fn runs once and all callers share its result.
//
// fn returns the value, a TTL for caching, and an error. On error the
// value is not cached and the error is returned to every waiting caller.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, fn func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	// Scope the flight key to the cache instance so two caches using
	// the same key never share a computation.
	v, err, _ := sfGroup.Do(fmt.Sprintf("%p:%s", c, key), func() (any, error) {
		val, ttl, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return getOrSetResult[V]{val: val, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	r := v.(getOrSetResult[V])

	// Best-effort; a failed Set just means the next caller recomputes.
	_ = c.Set(ctx, key, r.val, r.ttl)

	return r.val, nil
}
