// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package document

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/nmctl/internal/fetch"
	"github.com/staranto/nmctl/internal/nestedmap"
)

func countingFetcher(payload any, calls *atomic.Int32) fetch.JSONFetcher {
	return fetch.FetcherFunc(func(_ context.Context, _ string) (any, error) {
		calls.Add(1)
		return payload, nil
	})
}

func TestDocument_Get(t *testing.T) {
	payload := map[string]any{
		"login": "google",
		"plan":  map[string]any{"name": "enterprise"},
	}

	tests := []struct {
		name    string
		path    []string
		want    any
		wantKey string
	}{
		{name: "root", path: nil, want: payload},
		{name: "top level", path: []string{"login"}, want: "google"},
		{name: "nested", path: []string{"plan", "name"}, want: "enterprise"},
		{name: "missing", path: []string{"repos_url"}, wantKey: "repos_url"},
		{name: "through a leaf", path: []string{"login", "x"}, wantKey: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			d := New("https://api.github.com/orgs/google", countingFetcher(payload, &calls))

			got, err := d.Get(context.Background(), tt.path...)
			if tt.wantKey != "" {
				var knf *nestedmap.KeyNotFoundError
				require.ErrorAs(t, err, &knf)
				assert.Equal(t, tt.wantKey, knf.Key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_FetchesOnce(t *testing.T) {
	var calls atomic.Int32
	d := New("mem://org", countingFetcher(map[string]any{"a": 1.0}, &calls))
	ctx := context.Background()

	assert.False(t, d.Loaded())
	for i := 0; i < 3; i++ {
		_, err := d.Get(ctx, "a")
		require.NoError(t, err)
	}
	_, err := d.Raw(ctx)
	require.NoError(t, err)

	assert.True(t, d.Loaded())
	assert.Equal(t, int32(1), calls.Load())

	other := New("mem://org", countingFetcher(map[string]any{"a": 1.0}, &calls))
	_, err = other.Data(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDocument_RetriesFailedFetch(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("connection reset")
	d := New("mem://flaky", fetch.FetcherFunc(func(_ context.Context, _ string) (any, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return map[string]any{"ok": true}, nil
	}))

	_, err := d.Data(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, d.Loaded())

	got, err := d.Get(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, true, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDocument_Raw(t *testing.T) {
	var calls atomic.Int32
	payload := map[string]any{
		"name": "nmctl",
		"meta": map[any]any{"stars": 3},
	}
	d := New("file://doc.yaml", countingFetcher(payload, &calls))

	raw, err := d.Raw(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"nmctl","meta":{"stars":3}}`, string(raw))
}
