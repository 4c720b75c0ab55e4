// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/joho/godotenv"

	"github.com/staranto/nmctl/internal/cacheutil"
	"github.com/staranto/nmctl/internal/command"
	"github.com/staranto/nmctl/internal/config"
	mylog "github.com/staranto/nmctl/internal/log"
	"github.com/staranto/nmctl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	envErr := loadEnv()

	mylog.InitLogger()
	if envErr != nil && !os.IsNotExist(envErr) {
		log.WithError(envErr).Warn("failed to load .env")
	}

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// Best-effort: pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		// Non-fatal: print to stderr and continue.
		fmt.Fprintln(os.Stderr, err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// loadEnv reads .env files, the one in the working directory by default, which
// may carry NMCTL_* settings and tokens. Variables already in the environment
// win. The config file is loaded again afterwards so an NMCTL_CFG set only in
// .env takes effect.
func loadEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err == nil {
		_, _ = config.Load()
	}
	return err
}

// mangleArguments expands an argument set from the config file into args.
// An @name argument selects the list at <command>.name and is replaced by its
// entries; without one, <command>.defaults is inserted right after the
// command. Explicit flags follow the inserted ones and so take precedence.
func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	rest := args[2:]
	set := "defaults"

	// See if there is a @set specified. If so, it is removed from the args and
	// replaces the default set.
	for i, a := range rest {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			rest = append(append([]string{}, rest[:i]...), rest[i+1:]...)
			break
		}
	}

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)

	out := preamble
	for _, arg := range setArgs {
		out = append(out, strings.Fields(arg)...)
	}
	out = append(out, rest...)

	log.Debugf("set=%s, args=%v", set, out)
	return out
}
