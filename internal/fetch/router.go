// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/apex/log"
)

// Router dispatches on the URL scheme. A source without a scheme is a local
// path. Fetchers are looked up by lowercase scheme ("https", "s3", "file").
// A Router is safe for concurrent use once constructed.
type Router struct {
	mu sync.Mutex

	Fetchers map[string]JSONFetcher
	// S3, when set, builds the s3 fetcher on first use so AWS config is only
	// loaded when an s3:// source is actually requested.
	S3 func(ctx context.Context) (JSONFetcher, error)
}

func (r *Router) FetchJSON(ctx context.Context, url string) (any, error) {
	scheme := Scheme(url)
	log.Debugf("routing %s to %q fetcher", url, scheme)

	f, err := r.fetcher(ctx, scheme)
	if err != nil {
		return nil, err
	}
	return f.FetchJSON(ctx, url)
}

func (r *Router) fetcher(ctx context.Context, scheme string) (JSONFetcher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.Fetchers[scheme]; ok {
		return f, nil
	}
	if scheme != "s3" || r.S3 == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}

	f, err := r.S3(ctx)
	if err != nil {
		return nil, err
	}
	if r.Fetchers == nil {
		r.Fetchers = map[string]JSONFetcher{}
	}
	r.Fetchers[scheme] = f
	return f, nil
}

// Scheme returns the lowercase scheme of a source, or "file" when it has
// none.
func Scheme(url string) string {
	i := strings.Index(url, "://")
	if i <= 0 {
		return "file"
	}
	return strings.ToLower(url[:i])
}
