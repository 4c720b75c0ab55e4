// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/apex/log"
)

// Store is the cache used for fetched documents. Keys are clear-text, usually
// the source URL.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, bool)
	Write(ctx context.Context, key string, data []byte) error
}

// DiskStore keeps entries as files beneath Dir(), grouped under Subdirs.
// Entries older than TTL are misses; a zero TTL never expires them.
type DiskStore struct {
	Subdirs []string
	TTL     time.Duration
}

func (s DiskStore) Read(_ context.Context, key string) ([]byte, bool) {
	entry, ok := Read(s.Subdirs, key)
	if !ok {
		return nil, false
	}
	if s.TTL > 0 {
		fi, err := os.Stat(entry.Path)
		if err != nil || time.Since(fi.ModTime()) > s.TTL {
			log.Debugf("cache stale: %s", entry.Path)
			return nil, false
		}
	}
	log.Debugf("cache hit: %s", entry.Path)
	return entry.Data, true
}

func (s DiskStore) Write(_ context.Context, key string, data []byte) error {
	return Write(s.Subdirs, key, data)
}

// NopStore never stores anything.
type NopStore struct{}

func (NopStore) Read(context.Context, string) ([]byte, bool) { return nil, false }
func (NopStore) Write(context.Context, string, []byte) error { return nil }

// NewStore picks the cache backing: nothing when caching is disabled, Redis
// when NMCTL_REDIS_URL is set, and the disk otherwise. ttlHours bounds the
// lifetime of entries in either backing.
func NewStore(ctx context.Context, subdirs []string, ttlHours int) Store {
	if !Enabled() {
		return NopStore{}
	}

	ttl := time.Duration(ttlHours) * time.Hour
	if url := os.Getenv("NMCTL_REDIS_URL"); url != "" {
		rs, err := NewRedisStore(ctx, url, ttl)
		if err == nil {
			return rs
		}
		log.WithError(err).Warn("redis cache unavailable, falling back to disk")
	}

	return DiskStore{Subdirs: subdirs, TTL: ttl}
}

// Close releases the resources held by s, if it holds any.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
