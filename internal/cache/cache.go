// Package cache holds the last known good prayer-time data so the API
// can keep answering while the provider is unreachable. Persistence here
// is an optimization, never a correctness requirement: every failure is
// logged and swallowed.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxAge is how long a cached response stays usable as a fallback.
// Older entries are treated as stale and ignored.
const MaxAge = 48 * time.Hour

// entry wraps a cached value with the time it was written.
type entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Store is the fallback cache. Get reports whether a fresh-enough entry
// existed and was decoded into v.
type Store interface {
	Get(ctx context.Context, key string, v any) bool
	Set(ctx context.Context, key string, v any)
}

type redisStore struct {
	rdb *redis.Client
}

// NewRedis connects a redis-backed Store. The connection itself is lazy;
// a dead server just means every Get misses.
func NewRedis(addr, username, password string) Store {
	return &redisStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Username: username,
			Password: password,
			DB:       0,
		}),
	}
}

func (s *redisStore) Get(ctx context.Context, key string, v any) bool {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	if time.Since(e.Timestamp) > MaxAge {
		return false
	}

	return json.Unmarshal(e.Data, v) == nil
}

func (s *redisStore) Set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}

	raw, err := json.Marshal(entry{Data: data, Timestamp: time.Now()})
	if err != nil {
		return
	}

	// Keep entries a little past MaxAge so staleness is decided by the
	// timestamp, not by redis eviction racing it.
	if err := s.rdb.Set(ctx, key, raw, MaxAge+time.Hour).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
