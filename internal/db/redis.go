package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore wraps a redis client used as the dimension lookup cache.
// Teams, accounts and campaigns change slowly relative to how often the
// report wizard asks for them, so responses are cached under a key derived
// from the query shape.
type RedisStore struct {
	Client *redis.Client
	Ctx    context.Context
}

// InitRedis initializes a Redis client and returns a RedisStore.
func InitRedis(addr string) (*RedisStore, error) {
	rs := &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Ctx:    context.Background(),
	}

	// Add OpenTelemetry instrumentation to Redis client
	if err := redisotel.InstrumentTracing(rs.Client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := rs.Client.Ping(rs.Ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))
	return rs, nil
}

// DimensionKey builds the cache key for one dimension query shape.
func DimensionKey(dimension string, parts ...string) string {
	key := "dim:" + dimension
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// GetDimension returns the cached payload for a dimension key. The second
// return value reports whether the key was present.
func (r *RedisStore) GetDimension(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, true, nil
}

// SetDimension caches a dimension payload with the given TTL.
func (r *RedisStore) SetDimension(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := r.Client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// InvalidateDimension drops every cached entry for one dimension.
func (r *RedisStore) InvalidateDimension(ctx context.Context, dimension string) error {
	iter := r.Client.Scan(ctx, 0, "dim:"+dimension+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache del %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %s: %w", dimension, err)
	}
	return nil
}

// Close shuts down the Redis client.
func (r *RedisStore) Close() {
	if r != nil && r.Client != nil {
		if err := r.Client.Close(); err != nil {
			zap.L().Error("redis close", zap.Error(err))
		}
	}
}
