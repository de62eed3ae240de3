// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps connectivity failures from the Redis backend.
var ErrRedisUnavailable = errors.New("redis unavailable")

const defaultRedisTimeout = 3 * time.Second

// RedisStore keeps session entries in Redis under a key prefix, so several
// processes on a shared machine (kiosk, CI runner) can see the same session.
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

// NewRedisStore constructs a Redis-backed Store. An empty prefix defaults to "fashionstore".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "fashionstore"
	}
	return &RedisStore{client: client, prefix: prefix, timeout: defaultRedisTimeout}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":session:" + k
}

// Set stores value under key with no expiry.
func (s *RedisStore) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrRedisUnavailable, key, err)
	}
	return nil
}

// Get returns the value under key or ErrNotFound.
func (s *RedisStore) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", ErrRedisUnavailable, key, err)
	}
	return v, nil
}

// Remove deletes key. Missing keys are not an error.
func (s *RedisStore) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrRedisUnavailable, key, err)
	}
	return nil
}
