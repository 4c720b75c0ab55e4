// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/nmctl/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var cfg config.Type

// Flags hold their parsed value, so every command gets its own instances.

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the paths found in the document instead of a value",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the flags shared by every document command. params[0]
// is the command name and namespaces config file lookups, so get.output is
// tried before output.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output (default: when stdout is a terminal)",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "bypass the response cache",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"no-cache", altsrc.StringSourcer(cfg.Source)),
			),
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		NewTokenFlag(),
	}

	return
}

// NewTokenFlag constructs the bearer token flag sent with HTTP fetches. The
// token is never read from the config file.
func NewTokenFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "token",
		Usage: "bearer token for HTTP sources",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("NMCTL_TOKEN"),
			cli.EnvVar("GITHUB_TOKEN"),
		),
		HideDefault: true,
	}
}

// NewProfileFlag constructs the AWS profile flag used for s3:// sources,
// optionally namespaced to a command and config file. params[1] is the config
// file.
func NewProfileFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "profile",
		Usage: "AWS profile for s3:// sources",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_PROFILE"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewRegionFlag constructs the AWS region flag used for s3:// sources,
// optionally namespaced to a command and config file.
func NewRegionFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "region",
		Usage: "AWS region for s3:// sources",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_REGION"),
			cli.EnvVar("AWS_DEFAULT_REGION"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
