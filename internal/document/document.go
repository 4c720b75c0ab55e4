// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/bytedance/sonic"

	"github.com/staranto/nmctl/internal/fetch"
	"github.com/staranto/nmctl/internal/memo"
	"github.com/staranto/nmctl/internal/nestedmap"
)

// Document is a fetched JSON or YAML payload. The zero value is not usable;
// build one with New.
type Document struct {
	Source string

	fetcher fetch.JSONFetcher
	data    memo.Memo[any]
	raw     memo.Memo[[]byte]
}

// New returns a Document that will load source through f on first use.
func New(source string, f fetch.JSONFetcher) *Document {
	return &Document{Source: source, fetcher: f}
}

// Data returns the decoded payload, fetching it on the first call. A failed
// fetch is not remembered and the next call tries again.
func (d *Document) Data(ctx context.Context) (any, error) {
	return d.data.Value(func() (any, error) {
		log.Debugf("loading document %s", d.Source)
		return fetch.GetJSON(ctx, d.fetcher, d.Source)
	})
}

// Get returns the value found by walking path from the document root.
func (d *Document) Get(ctx context.Context, path ...string) (any, error) {
	data, err := d.Data(ctx)
	if err != nil {
		return nil, err
	}
	return nestedmap.Access(data, path...)
}

// Raw returns the compact JSON encoding of the whole payload.
func (d *Document) Raw(ctx context.Context) ([]byte, error) {
	return d.raw.Value(func() ([]byte, error) {
		data, err := d.Data(ctx)
		if err != nil {
			return nil, err
		}
		b, err := Encode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Source, err)
		}
		return b, nil
	})
}

// Encode returns the compact JSON encoding of a decoded value. Maps with
// non-string keys, as produced by some YAML decoders, are converted first.
func Encode(v any) ([]byte, error) {
	b, err := sonic.ConfigStd.Marshal(nestedmap.StringKeys(v))
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return b, nil
}

// Loaded reports whether the payload has been fetched.
func (d *Document) Loaded() bool {
	return d.data.Loaded()
}
