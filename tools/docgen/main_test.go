// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = "# nmctl get\n\n" +
	"Short description\n\n" +
	"Print the value found at a dotted path\nin a JSON or YAML document.\n\n" +
	"Quick examples\n\n" +
	"```sh\n" +
	"# Print an organization's login\n" +
	"nmctl get https://api.github.com/orgs/google login\n\n" +
	"nmctl get   org.yaml   plan.name\n" +
	"```\n"

func TestExtractTitleAndShortDesc(t *testing.T) {
	title, short := extractTitleAndShortDesc(sampleDoc)
	assert.Equal(t, "nmctl get", title)
	assert.Equal(t, "Print the value found at a dotted path in a JSON or YAML document.", short)

	title, short = extractTitleAndShortDesc("# nmctl cache\n")
	assert.Equal(t, "nmctl cache", title)
	assert.Equal(t, "nmctl cache.", short)
}

func TestExtractQuickExamples(t *testing.T) {
	exs := extractQuickExamples(sampleDoc)
	assert.Equal(t, []example{
		{Desc: "Print an organization's login", Cmd: "nmctl get https://api.github.com/orgs/google login"},
		{Desc: "Example", Cmd: "nmctl get   org.yaml   plan.name"},
	}, exs)

	assert.Nil(t, extractQuickExamples("# nothing here\n"))
}

func TestBuildTLDR(t *testing.T) {
	got := buildTLDR("get", "nmctl get", "Print a value.", []example{
		{Desc: "Print a value", Cmd: "nmctl get  org.yaml  plan"},
	})
	assert.Equal(t, "# nmctl-get\n\n"+
		"> Print a value.\n"+
		"> More information: https://github.com/staranto/nmctl.\n\n"+
		"- Print a value:\n\n"+
		"`nmctl get org.yaml plan`\n", got)

	assert.Contains(t, buildTLDR("diff", "", "", nil), "`nmctl diff --help`")
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	cmds := filepath.Join(root, "docs", "commands")
	require.NoError(t, os.MkdirAll(cmds, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cmds, "get.md"), []byte(sampleDoc), 0o644))

	n, err := generate(root, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(root, "docs", "man", "share", "man1", "nmctl-get.1"))
	assert.FileExists(t, filepath.Join(root, "docs", "tldr", "nmctl-get.md"))

	_, err = generate(t.TempDir(), true)
	assert.Error(t, err)
}
