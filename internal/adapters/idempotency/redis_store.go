package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "idempotency:"

// RedisStore keeps idempotency records in Redis with native key expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Reserve(ctx context.Context, key string, fingerprint string, ttl time.Duration) (*Record, bool, error) {
	now := time.Now().UTC()
	rec := Record{State: StateInProgress, Fingerprint: fingerprint, CreatedAt: now, ExpiresAt: now.Add(ttl)}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, false, err
	}

	ok, err := s.client.SetNX(ctx, redisKeyPrefix+key, data, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if ok {
		return nil, true, nil
	}

	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; try once more.
		ok, err = s.client.SetNX(ctx, redisKeyPrefix+key, data, ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil, ok, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var existing Record
	if err := json.Unmarshal(raw, &existing); err != nil {
		return nil, false, fmt.Errorf("corrupt idempotency record for key %s: %w", key, err)
	}
	return &existing, false, nil
}

func (s *RedisStore) Complete(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	rec.State = StateCompleted
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.ExpiresAt = rec.CreatedAt.Add(ttl)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
