// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/apex/log"
	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// JSONFetcher retrieves the document at url and returns it decoded into
// generic values: map[string]any, []any, string, float64, bool or nil.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, url string) (any, error)
}

// FetcherFunc adapts an ordinary function to JSONFetcher.
type FetcherFunc func(ctx context.Context, url string) (any, error)

func (f FetcherFunc) FetchJSON(ctx context.Context, url string) (any, error) {
	return f(ctx, url)
}

var (
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// StatusError is returned when an HTTP source answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// GetJSON fetches url through f.
func GetJSON(ctx context.Context, f JSONFetcher, url string) (any, error) {
	log.Debugf("fetching %s", url)
	doc, err := f.FetchJSON(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	return doc, nil
}

// DecodeJSON decodes a JSON payload into generic values.
func DecodeJSON(data []byte) (any, error) {
	var doc any
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return doc, nil
}

// DecodeYAML decodes a YAML payload into the same shapes DecodeJSON
// produces.
func DecodeYAML(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return doc, nil
}

// DecodeByName decodes data as YAML when name ends in .yaml or .yml, and as
// JSON otherwise.
func DecodeByName(name string, data []byte) (any, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}
