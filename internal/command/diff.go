// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/nmctl/internal/differ"
	"github.com/staranto/nmctl/internal/document"
	"github.com/staranto/nmctl/internal/meta"
	"github.com/staranto/nmctl/internal/output"
)

// ErrDocumentsDiffer is returned by diff --exit-code when the values differ.
var ErrDocumentsDiffer = errors.New("documents differ")

// diffCommandAction is the action handler for the "diff" subcommand. When
// both sources are the same they share one Document and are fetched once.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	if args.Len() < 2 {
		return fmt.Errorf("%w: diff needs two sources", ErrMissingSource)
	}

	f, release := BuildFetcher(ctx, cmd)
	defer release()

	path := args.Get(2)
	leftDoc := document.New(args.Get(0), f)
	rightDoc := leftDoc
	if args.Get(1) != args.Get(0) {
		rightDoc = document.New(args.Get(1), f)
	}

	left, err := valueAt(ctx, leftDoc, path)
	if err != nil {
		return err
	}
	right, err := valueAt(ctx, rightDoc, path)
	if err != nil {
		return err
	}

	result, err := differ.Diff(left, right)
	if err != nil {
		return err
	}

	w := Stdout(cmd)
	opts := OutputOptions(cmd, w)

	if result.Modified() {
		text, err := result.Format(opts.Format == "text", opts.Color)
		if err != nil {
			return fmt.Errorf("failed to format diff: %w", err)
		}
		fmt.Fprintln(w, text)

		if cmd.Bool("exit-code") {
			return ErrDocumentsDiffer
		}
	} else if opts.Format != "text" {
		return output.EmitValue(map[string]any{}, "json", w)
	}

	return nil
}

// diffCommandBuilder constructs the cli.Command for "diff".
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "diff",
		Usage:     "compare the values at a path in two documents",
		UsageText: `nmctl diff SOURCE SOURCE [PATH] [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "exit-code",
				Usage: "fail when the documents differ",
			},
		},
		Action: diffCommandAction,
		Meta:   meta,
	}).Build()
}
