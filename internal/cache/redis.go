package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default redis store configuration constants.
const (
	defaultScanBatch = 500
	tagSetPrefix     = "cachetag" + Delimiter
)

// RedisStore implements Store on a Redis client. Tag invalidation is backed
// by per-tag key sets; prefix invalidation walks the keyspace with SCAN.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get implements Store.Get. Redis handles expiry itself, so a missing key
// covers both absent and expired entries.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Put implements Store.Put and records key membership in each tag set.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return err
	}
	for _, t := range tags {
		if err := s.client.SAdd(ctx, tagSetPrefix+t, key).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Delete implements Store.Delete.
func (s *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByPrefix implements Store.DeleteByPrefix via SCAN + DEL batches.
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) (bool, error) {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", defaultScanBatch).Result()
		if err != nil {
			return false, err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return false, err
			}
		}
		cursor = next
		if cursor == 0 {
			return true, nil
		}
	}
}

// DeleteByTags implements Store.DeleteByTags using the per-tag key sets.
func (s *RedisStore) DeleteByTags(ctx context.Context, tags []string) (bool, error) {
	for _, t := range tags {
		set := tagSetPrefix + t
		keys, err := s.client.SMembers(ctx, set).Result()
		if err != nil {
			return false, err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return false, err
			}
		}
		if err := s.client.Del(ctx, set).Err(); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Len implements Store.Len. Counting the whole keyspace is not cheap in
// Redis, so the store reports unknown.
func (s *RedisStore) Len(ctx context.Context) int {
	return -1
}
