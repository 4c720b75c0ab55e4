// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package memo provides a compute-once cache slot meant to be embedded as a
// field of the struct that owns the computation.
package memo

import "sync"

// Policy controls what a Memo keeps when the computation fails.
type Policy int

const (
	// CacheSuccess stores only successful results. A failed computation is
	// retried on the next call.
	CacheSuccess Policy = iota
	// CacheErrors stores the first outcome, error included.
	CacheErrors
)

// Memo holds the result of one computation for one owner. The zero value is
// empty and uses CacheSuccess. Once populated it is never cleared.
//
// The first call is single-flight: concurrent callers wait on the slot's lock
// and observe the one computed result. compute must not call back into the
// same Memo.
type Memo[T any] struct {
	mu     sync.Mutex
	policy Policy
	loaded bool
	val    T
	err    error
}

// NewWithPolicy returns an empty Memo using p.
func NewWithPolicy[T any](p Policy) *Memo[T] {
	return &Memo[T]{policy: p}
}

// SetPolicy changes the failure policy. It has no effect once the slot is
// populated.
func (m *Memo[T]) SetPolicy(p Policy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policy = p
}

// Get returns the stored value, calling compute to produce it on first use.
func (m *Memo[T]) Get(compute func() T) T {
	v, _ := m.Value(func() (T, error) {
		return compute(), nil
	})
	return v
}

// Value returns the stored result, calling compute to produce it on first
// use.
func (m *Memo[T]) Value(compute func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return m.val, m.err
	}

	v, err := compute()
	if err != nil && m.policy != CacheErrors {
		var zero T
		return zero, err
	}

	m.val, m.err, m.loaded = v, err, true
	return m.val, m.err
}

// Loaded reports whether the slot holds a result.
func (m *Memo[T]) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}
