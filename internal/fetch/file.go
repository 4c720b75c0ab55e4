// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileFetcher reads documents from the local filesystem. "-" reads stdin.
type FileFetcher struct {
	Stdin io.Reader
}

func (f FileFetcher) FetchJSON(_ context.Context, url string) (any, error) {
	name := strings.TrimPrefix(url, "file://")

	var (
		data []byte
		err  error
	)
	if name == "-" {
		in := f.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return DecodeByName(name, data)
}
