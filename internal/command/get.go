// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/nmctl/internal/document"
	"github.com/staranto/nmctl/internal/meta"
	"github.com/staranto/nmctl/internal/output"
)

// getCommandAction is the action handler for the "get" subcommand. It loads
// SOURCE, walks the optional dotted PATH and emits the value found there.
func getCommandAction(ctx context.Context, cmd *cli.Command) error {
	source := cmd.Args().Get(0)
	if source == "" {
		return ErrMissingSource
	}

	f, release := BuildFetcher(ctx, cmd)
	defer release()

	doc := document.New(source, f)
	v, err := valueAt(ctx, doc, cmd.Args().Get(1))
	if err != nil {
		return err
	}

	if DumpSchemaIfRequested(cmd, v) {
		return nil
	}

	w := Stdout(cmd)
	return output.EmitValue(v, OutputOptions(cmd, w).Format, w)
}

// getCommandBuilder constructs the cli.Command for "get".
func getCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "get",
		Usage:     "get the value at a path in a document",
		UsageText: `nmctl get SOURCE [PATH] [options]`,
		Action:    getCommandAction,
		Meta:      meta,
	}).Build()
}
