// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/nmctl/internal/cacheutil"
	"github.com/staranto/nmctl/internal/config"
	"github.com/staranto/nmctl/internal/meta"
)

// cacheListAction prints one line per cached response, newest first.
func cacheListAction(ctx context.Context, cmd *cli.Command) error {
	w := Stdout(cmd)

	dir, ok := cacheutil.Dir()
	if !ok {
		fmt.Fprintln(w, "cache is disabled")
		return nil
	}

	entries, err := cacheutil.List()
	if err != nil {
		return err
	}

	var total uint64
	now := time.Now()
	for _, e := range entries {
		total += uint64(e.Size)
		fmt.Fprintf(w, "%-10s %-16s %s\n",
			humanize.Bytes(uint64(e.Size)),
			humanize.RelTime(e.ModTime, now, "ago", "from now"),
			e.Path)
	}
	fmt.Fprintf(w, "%s in %s entries under %s\n",
		humanize.Bytes(total), humanize.Comma(int64(len(entries))), dir)

	return nil
}

// cachePurgeAction removes cached responses older than --hours.
func cachePurgeAction(ctx context.Context, cmd *cli.Command) error {
	hours := int(cmd.Int("hours"))
	if !cmd.IsSet("hours") {
		hours, _ = config.GetInt("cache.clean", 24)
	}

	n, err := cacheutil.Purge(hours)
	if err != nil {
		return err
	}

	fmt.Fprintf(Stdout(cmd), "removed %d entries\n", n)
	return nil
}

// cacheCommandBuilder constructs the cli.Command for "cache" and its
// subcommands.
func cacheCommandBuilder(meta meta.Meta) *cli.Command {
	md := map[string]any{"meta": meta}
	return &cli.Command{
		Name:     "cache",
		Usage:    "inspect and clean the response cache",
		Metadata: md,
		Commands: []*cli.Command{
			{
				Name:     "list",
				Usage:    "list cached responses",
				Metadata: md,
				Action:   cacheListAction,
			},
			{
				Name:     "purge",
				Usage:    "remove cached responses older than --hours",
				Metadata: md,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "hours",
						Usage: "age in hours (default: cache.clean or 24)",
					},
				},
				Action: cachePurgeAction,
			},
		},
	}
}
