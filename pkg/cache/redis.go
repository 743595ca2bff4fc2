package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache backed by a Redis server. Values are serialized as
// JSON. Use it instead of Memory when the service runs more than one
// replica, so all replicas share the same cached snapshots.
type Redis[V any] struct {
	client     *redis.Client
	marshaler  jsonMarshaler[V]
	keyPrefix  string
	defaultTTL time.Duration
}

// RedisOption configures a Redis cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	keyPrefix  string
	defaultTTL time.Duration
}

// WithRedisDefaultTTL sets the TTL applied when Set is called with a zero TTL.
func WithRedisDefaultTTL(ttl time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = ttl
	}
}

// WithKeyPrefix namespaces all keys, so multiple caches can share one
// Redis database.
func WithKeyPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.keyPrefix = prefix
	}
}

// NewRedis creates a Redis-backed cache using an existing client.
// The cache does not own the client; Close is a no-op.
func NewRedis[V any](client *redis.Client, opts ...RedisOption) *Redis[V] {
	o := &redisOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return &Redis[V]{
		client:     client,
		keyPrefix:  o.keyPrefix,
		defaultTTL: o.defaultTTL,
	}
}

func (r *Redis[V]) key(k string) string {
	if r.keyPrefix == "" {
		return k
	}
	return r.keyPrefix + ":" + k
}

// Get retrieves a value by key.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}

	return r.marshaler.Unmarshal(data)
}

// Set stores a value with the given TTL.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}

	if ttl == 0 {
		ttl = r.defaultTTL
	}
	if ttl < 0 {
		ttl = 0 // redis: zero expiration = never expires
	}

	return r.client.Set(ctx, r.key(key), data, ttl).Err()
}

// Delete removes a key from the cache.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Close is a no-op; the underlying client is owned by the caller.
func (r *Redis[V]) Close() error {
	return nil
}
