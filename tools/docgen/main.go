// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
)

// Doc generator:
// - Reads docs/commands/*.md as canonical command docs
// - Generates:
//   - docs/man/share/man1/nmctl-<cmd>.1 via md2man (convert full markdown)
//   - docs/tldr/nmctl-<cmd>.md using the Quick examples block and short description

const (
	binName = "nmctl"
	repoURL = "https://github.com/staranto/nmctl"
)

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	n, err := generate(repoRoot, writeOnlyIfChanged)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("generated docs for %d commands\n", n)
}

// generate renders every command doc under root and returns how many were
// processed.
func generate(repoRoot string, writeOnlyIfChanged bool) (int, error) {
	commandsDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	for _, dir := range []string{manOutDir, tldrOutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating output dir: %w", err)
		}
	}

	entries, err := os.ReadDir(commandsDir)
	if err != nil {
		return 0, fmt.Errorf("reading commands dir %s: %w", commandsDir, err)
	}

	var processed int
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		cmd := strings.TrimSuffix(e.Name(), ".md")
		inPath := filepath.Join(commandsDir, e.Name())
		raw, err := os.ReadFile(inPath)
		if err != nil {
			return processed, fmt.Errorf("reading %s: %w", inPath, err)
		}

		manPath := filepath.Join(manOutDir, fmt.Sprintf("%s-%s.1", binName, cmd))
		if err := writeFileIfChanged(manPath, md2man.Render(raw), writeOnlyIfChanged); err != nil {
			return processed, fmt.Errorf("writing man page for %s: %w", cmd, err)
		}

		title, shortDesc := extractTitleAndShortDesc(string(raw))
		tldr := buildTLDR(cmd, title, shortDesc, extractQuickExamples(string(raw)))
		tldrPath := filepath.Join(tldrOutDir, fmt.Sprintf("%s-%s.md", binName, cmd))
		if err := writeFileIfChanged(tldrPath, []byte(tldr), writeOnlyIfChanged); err != nil {
			return processed, fmt.Errorf("writing TLDR for %s: %w", cmd, err)
		}

		processed++
	}

	if processed == 0 {
		return 0, fmt.Errorf("no command markdown found under %s", commandsDir)
	}
	return processed, nil
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

var h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// extractTitleAndShortDesc returns the first H1 and the first paragraph under
// a "Short description" heading, falling back to the title.
func extractTitleAndShortDesc(md string) (title, short string) {
	if m := h1Re.FindStringSubmatch(md); m != nil {
		title = strings.TrimSpace(m[1])
	}

	if idx := strings.Index(strings.ToLower(md), "short description"); idx >= 0 {
		rest := md[idx:]
		if nl := strings.Index(rest, "\n"); nl >= 0 {
			rest = rest[nl+1:]
		}
		var b strings.Builder
		for _, ln := range strings.Split(rest, "\n") {
			ln = strings.TrimSpace(ln)
			if ln == "" {
				if b.Len() > 0 {
					break
				}
				continue
			}
			if strings.HasPrefix(ln, "#") || strings.HasSuffix(ln, ":") {
				break
			}
			b.WriteString(ln)
			b.WriteString(" ")
		}
		short = strings.TrimSpace(b.String())
	}

	if short == "" && title != "" {
		short = title + "."
	}
	return
}

type example struct {
	Desc string
	Cmd  string
}

// extractQuickExamples reads the first fenced block after "Quick examples".
// Each # comment line describes the command line that follows it.
func extractQuickExamples(md string) []example {
	idx := strings.Index(strings.ToLower(md), "quick examples")
	if idx < 0 {
		return nil
	}
	rest := md[idx:]

	const fence = "```"
	start := strings.Index(rest, fence)
	if start < 0 {
		return nil
	}
	rest = rest[start+len(fence):]
	// Skip the info string (```sh).
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, fence)
	if end < 0 {
		return nil
	}

	var (
		exs  []example
		desc string
	)
	for _, ln := range strings.Split(rest[:end], "\n") {
		s := strings.TrimSpace(ln)
		switch {
		case s == "":
			continue
		case strings.HasPrefix(s, "#"):
			desc = strings.TrimSpace(strings.TrimPrefix(s, "#"))
		default:
			if desc == "" {
				desc = "Example"
			}
			exs = append(exs, example{Desc: desc, Cmd: s})
			desc = ""
		}
	}
	return exs
}

func buildTLDR(cmd, title, short string, exs []example) string {
	var b strings.Builder
	b.WriteString("# " + binName + "-" + cmd + "\n\n")
	switch {
	case short != "":
		b.WriteString("> " + short + "\n")
	case title != "":
		b.WriteString("> " + title + "\n")
	default:
		b.WriteString("> " + binName + " " + cmd + "\n")
	}
	b.WriteString("> More information: " + repoURL + ".\n\n")

	if len(exs) == 0 {
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`" + binName + " " + cmd + " --help`\n\n")
		return b.String()
	}

	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + ex.Desc + ":\n\n")
		b.WriteString("`" + strings.Join(strings.Fields(ex.Cmd), " ") + "`\n")
	}
	return b.String()
}
