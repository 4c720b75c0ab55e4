// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/nmctl/internal/attrs"
	"github.com/staranto/nmctl/internal/aws"
	"github.com/staranto/nmctl/internal/cacheutil"
	"github.com/staranto/nmctl/internal/config"
	"github.com/staranto/nmctl/internal/document"
	"github.com/staranto/nmctl/internal/fetch"
	"github.com/staranto/nmctl/internal/meta"
	"github.com/staranto/nmctl/internal/nestedmap"
	"github.com/staranto/nmctl/internal/output"
)

// ErrMissingSource is returned when a document command is run without a
// SOURCE argument.
var ErrMissingSource = errors.New("missing SOURCE argument")

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr nmctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "nmctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// DumpSchemaIfRequested prints the paths found in v when --schema is set, and
// returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, v any) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(v, Stdout(cmd))
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// Stdout is where a command writes its results.
func Stdout(cmd *cli.Command) io.Writer {
	if w := GetMeta(cmd).Stdout; w != nil {
		return w
	}
	return os.Stdout
}

// OutputOptions collects the presentation flags. Color follows --color when
// it was given and otherwise whether w is a terminal.
func OutputOptions(cmd *cli.Command, w io.Writer) output.Options {
	color := cmd.Bool("color")
	if !cmd.IsSet("color") {
		color = output.IsTerminal(w)
	}
	return output.Options{
		Format: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  color,
	}
}

// BuildFetcher returns the fetcher a command loads documents with. Unless
// one was injected through Meta, it routes http(s) sources through the
// response cache, s3 sources through the AWS SDK and everything else to the
// local filesystem. The returned func releases the cache and must be called
// once the command is done with the fetcher.
func BuildFetcher(ctx context.Context, cmd *cli.Command) (fetch.JSONFetcher, func()) {
	if f := GetMeta(cmd).Fetcher; f != nil {
		return f, func() {}
	}

	var store cacheutil.Store = cacheutil.NopStore{}
	if !cmd.Bool("no-cache") {
		hours, _ := config.GetInt("cache.clean", 24)
		store = cacheutil.NewStore(ctx, []string{"http"}, hours)
	}

	timeout, _ := config.GetInt("http.timeout", 30)
	httpFetcher := &fetch.HTTPFetcher{
		Client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		Token:  cmd.String("token"),
		Cache:  store,
	}

	release := func() {
		if err := cacheutil.Close(store); err != nil {
			log.WithError(err).Warn("failed to close cache")
		}
	}

	return &fetch.Router{
		Fetchers: map[string]fetch.JSONFetcher{
			"http":  httpFetcher,
			"https": httpFetcher,
			"file":  fetch.FileFetcher{Stdin: os.Stdin},
		},
		S3: func(ctx context.Context) (fetch.JSONFetcher, error) {
			client, err := aws.NewS3(ctx,
				aws.WithProfile(cmd.String("profile")),
				aws.WithRegion(cmd.String("region")),
			)
			if err != nil {
				return nil, err
			}
			return &fetch.S3Fetcher{Client: client}, nil
		},
	}, release
}

// valueAt loads source and walks the dotted path in it. A missing key is
// reported as `key not found: "k"`.
func valueAt(ctx context.Context, doc *document.Document, path string) (any, error) {
	v, err := doc.Get(ctx, nestedmap.ParsePath(path)...)
	if err != nil {
		var knf *nestedmap.KeyNotFoundError
		if errors.As(err, &knf) {
			return nil, fmt.Errorf("key not found: %w", err)
		}
		return nil, err
	}
	log.Debugf("%s: resolved %q", doc.Source, path)
	return v, nil
}

// QueryCommandBuilder constructs a cli.Command for the document subcommands
// using a consistent pattern. The builder wires metadata, adds tldr/schema
// flags, applies global flags, and sets up validators.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: append(qcb.Flags, append([]cli.Flag{
			newTldrFlag(),
			newSchemaFlag(),
			NewProfileFlag(qcb.Name, qcb.Meta.Config.Source),
			NewRegionFlag(qcb.Name, qcb.Meta.Config.Source),
		}, NewGlobalFlags(qcb.Name)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log.Debugf("Executing action for %v", c.Args().Slice())
			if ShortCircuitTLDR(ctx, c, qcb.Name) {
				return nil
			}
			return qcb.Action(ctx, c)
		},
	}
}
