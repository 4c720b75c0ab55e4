// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/nmctl/internal/meta"
)

const bashCompletionScript = `# bash completion for nmctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_nmctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "get query diff cache completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --token --no-cache --profile --region --schema --tldr"

    case "$cmd" in
        get)
            local opts="$common"
            ;;
        query)
            local opts="$common --chop"
            ;;
        diff)
            local opts="$common --exit-code"
            ;;
        cache)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "list purge" -- "$cur") )
                return 0
            fi
            local opts="--hours"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # SOURCE is usually a local file.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _nmctl nmctl
`

const zshCompletionScript = `#compdef nmctl

_nmctl() {
  local -a cmds
  cmds=(
    'get:get the value at a path in a document'
    'query:query a list of records in a document'
    'diff:compare the values at a path in two documents'
    'cache:inspect and clean the response cache'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--token[bearer token]:token'
  '--no-cache[bypass the response cache]'
  '--profile[AWS profile]:profile'
  '--region[AWS region]:region'
  '--schema[dump document paths]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'nmctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    get)
      _arguments -C \
        $common \
        '1:SOURCE:_files' \
        '2::PATH:'
      ;;
    query)
      _arguments -C \
        $common \
        '--chop[chop common prefix]:attr' \
        '1:SOURCE:_files' \
        '2::PATH:'
      ;;
    diff)
      _arguments -C \
        $common \
        '--exit-code[fail when documents differ]' \
        '1:SOURCE:_files' \
        '2:SOURCE:_files' \
        '3::PATH:'
      ;;
    cache)
      _arguments '1: :((list purge))' '--hours[age in hours]:hours'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:file:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _nmctl nmctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := Stdout(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: nmctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "nmctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
