// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"
	"io"

	"github.com/staranto/nmctl/internal/config"
	"github.com/staranto/nmctl/internal/fetch"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// Fetcher, when set, replaces the fetcher built from flags. Tests use it
	// to serve canned documents.
	Fetcher fetch.JSONFetcher
	// Stdout defaults to os.Stdout.
	Stdout      io.Writer
	StartingDir string
}
