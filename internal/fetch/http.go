// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/apex/log"

	"github.com/staranto/nmctl/internal/cacheutil"
)

// HTTPFetcher GETs JSON documents. Successful bodies are kept in Cache and
// served from it on later calls. Entries are keyed by URL and token, so a
// body fetched with one credential is never served to another.
type HTTPFetcher struct {
	Client *http.Client
	Token  string // sent as a bearer token when set
	Cache  cacheutil.Store
}

func (f *HTTPFetcher) FetchJSON(ctx context.Context, url string) (any, error) {
	key := f.cacheKey(url)
	if f.Cache != nil {
		if data, ok := f.Cache.Read(ctx, key); ok {
			if doc, err := DecodeJSON(data); err == nil {
				return doc, nil
			}
			log.Warnf("ignoring undecodable cache entry for %s", url)
		}
	}

	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeJSON(body)
	if err != nil {
		return nil, err
	}

	if f.Cache != nil {
		if err := f.Cache.Write(ctx, key, body); err != nil {
			log.WithError(err).Warnf("failed to write %s to cache", url)
		}
	}

	return doc, nil
}

func (f *HTTPFetcher) cacheKey(url string) string {
	if f.Token == "" {
		return url
	}
	sum := sha256.Sum256([]byte(f.Token))
	return url + "\x00" + hex.EncodeToString(sum[:])
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return doc.Bytes(), nil
}
