// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/redis/go-redis/v9"
)

// RedisStore shares fetched documents between machines. Keys are hashed the
// same way disk entries are named.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to url (redis://...) and verifies the connection.
// A zero ttl keeps entries until evicted.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Read(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warnf("failed to read %s from redis", key)
		}
		return nil, false
	}
	log.Debugf("redis cache hit: %s", key)
	return data, true
}

func (s *RedisStore) Write(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, redisKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write to redis: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(key string) string {
	return "nmctl:doc:" + encodeKey(key)
}
