// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory cacheutil.Store.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memStore) Read(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok
}

func (m *memStore) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = data
	return nil
}

func TestHTTPFetcher(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    any
	}{
		{
			name:    "payload true",
			payload: `{"payload": true}`,
			want:    map[string]any{"payload": true},
		},
		{
			name:    "payload false",
			payload: `{"payload": false}`,
			want:    map[string]any{"payload": false},
		},
		{
			name:    "array",
			payload: `[{"name": "repo1"}, {"name": "repo2"}]`,
			want:    []any{map[string]any{"name": "repo1"}, map[string]any{"name": "repo2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits []string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits = append(hits, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			f := &HTTPFetcher{Client: srv.Client()}
			got, err := f.FetchJSON(context.Background(), srv.URL+"/orgs/example")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"/orgs/example"}, hits)
		})
	}
}

func TestHTTPFetcher_Token(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := &HTTPFetcher{Client: srv.Client(), Token: "s3cret"}
	_, err := f.FetchJSON(context.Background(), srv.URL)
	assert.NoError(t, err)
}

func TestHTTPFetcher_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.Error(w, "not found", http.StatusNotFound)
		default:
			_, _ = w.Write([]byte(`{"unterminated": `))
		}
	}))
	defer srv.Close()

	f := &HTTPFetcher{Client: srv.Client()}

	_, err := f.FetchJSON(context.Background(), srv.URL+"/missing")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, err.Error(), "404 Not Found")

	_, err = f.FetchJSON(context.Background(), srv.URL+"/broken")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestHTTPFetcher_Cache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"login": "example"}`))
	}))
	defer srv.Close()

	store := &memStore{}
	f := &HTTPFetcher{Client: srv.Client(), Cache: store}

	for i := 0; i < 3; i++ {
		got, err := f.FetchJSON(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"login": "example"}, got)
	}
	assert.Equal(t, 1, calls)

	// A corrupt entry is ignored and refreshed.
	require.NoError(t, store.Write(context.Background(), srv.URL, []byte("garbage")))
	_, err := f.FetchJSON(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestHTTPFetcher_CacheIsPerToken(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"private": true}`))
	}))
	defer srv.Close()

	store := &memStore{}
	ctx := context.Background()

	authed := &HTTPFetcher{Client: srv.Client(), Token: "secret", Cache: store}
	got, err := authed.FetchJSON(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"private": true}, got)

	anon := &HTTPFetcher{Client: srv.Client(), Cache: store}
	_, err = anon.FetchJSON(ctx, srv.URL)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)

	other := &HTTPFetcher{Client: srv.Client(), Token: "other", Cache: store}
	_, err = other.FetchJSON(ctx, srv.URL)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, calls)

	// The original credential is still served from the cache.
	_, err = authed.FetchJSON(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	for key := range store.data {
		assert.NotContains(t, key, "secret")
	}
}

func TestFileFetcher(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "org.json")
	yamlPath := filepath.Join(dir, "org.yaml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"a": {"b": 2}}`), 0o600))
	require.NoError(t, os.WriteFile(yamlPath, []byte("a:\n  b: 2\n"), 0o600))

	f := FileFetcher{}

	got, err := f.FetchJSON(context.Background(), jsonPath)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": float64(2)}}, got)

	got, err = f.FetchJSON(context.Background(), "file://"+yamlPath)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": 2}}, got)

	_, err = f.FetchJSON(context.Background(), filepath.Join(dir, "nope.json"))
	assert.Error(t, err)
}

func TestFileFetcher_Stdin(t *testing.T) {
	f := FileFetcher{Stdin: strings.NewReader(`[1, 2]`)}
	got, err := f.FetchJSON(context.Background(), "-")
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, got)
}

func TestRouter(t *testing.T) {
	var seen []string
	fake := func(name string) JSONFetcher {
		return FetcherFunc(func(_ context.Context, url string) (any, error) {
			seen = append(seen, name+" "+url)
			return name, nil
		})
	}

	s3Builds := 0
	r := &Router{
		Fetchers: map[string]JSONFetcher{
			"https": fake("https"),
			"file":  fake("file"),
		},
		S3: func(context.Context) (JSONFetcher, error) {
			s3Builds++
			return fake("s3"), nil
		},
	}

	ctx := context.Background()
	for _, u := range []string{"https://x/y", "./doc.json", "s3://b/k.json", "S3://b/k2.json"} {
		_, err := r.FetchJSON(ctx, u)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{
		"https https://x/y",
		"file ./doc.json",
		"s3 s3://b/k.json",
		"s3 S3://b/k2.json",
	}, seen)
	assert.Equal(t, 1, s3Builds)

	_, err := r.FetchJSON(ctx, "ftp://host/file")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestRouter_S3BuildError(t *testing.T) {
	boom := errors.New("no credentials")
	r := &Router{S3: func(context.Context) (JSONFetcher, error) { return nil, boom }}
	_, err := r.FetchJSON(context.Background(), "s3://b/k")
	assert.ErrorIs(t, err, boom)
}

func TestRouter_Concurrent(t *testing.T) {
	var builds atomic.Int32
	r := &Router{
		S3: func(context.Context) (JSONFetcher, error) {
			builds.Add(1)
			return FetcherFunc(func(_ context.Context, url string) (any, error) {
				return url, nil
			}), nil
		},
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.FetchJSON(context.Background(), "s3://b/k.json")
			assert.NoError(t, err)
			assert.Equal(t, "s3://b/k.json", got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
}

func TestGetJSON(t *testing.T) {
	calls := 0
	f := FetcherFunc(func(_ context.Context, url string) (any, error) {
		calls++
		assert.Equal(t, "http://example.com", url)
		return map[string]any{"payload": true}, nil
	})

	got, err := GetJSON(context.Background(), f, "http://example.com")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"payload": true}, got)
	assert.Equal(t, 1, calls)

	_, err = GetJSON(context.Background(), FetcherFunc(func(context.Context, string) (any, error) {
		return nil, ErrMalformedPayload
	}), "http://example.com")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestDecodeByName(t *testing.T) {
	got, err := DecodeByName("x.YML", []byte("k: v"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, got)

	_, err = DecodeByName("x.yaml", []byte("k: [unterminated"))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
