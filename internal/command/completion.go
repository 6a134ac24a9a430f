package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/staranto/iqlctlgo/internal/meta"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `# bash completion for iqlctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_iqlctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "vq lq tq aq cq completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
  local common="--color -c --filter -f --output -o --sort -s --titles -t --tldr --no-cache --limit --expire"
  local creds="--host -H --email --token --schema-id -S"

    case "$cmd" in
        vq)
      local opts="$common $creds --attr -a --type -T"
            ;;
        lq)
      local opts="$common $creds --attr -a --type -T --separator"
            ;;
        tq)
      local opts="$common $creds"
            ;;
        aq)
      local opts="$common $creds --type -T"
            ;;
        cq)
      local opts="$common --flush"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
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

  COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
  return 0
}

complete -F _iqlctl iqlctl
`

const zshCompletionScript = `#compdef iqlctl

_iqlctl() {
  local -a cmds
  cmds=(
    'vq:value query - first matching attribute value'
    'lq:list query - all matching attribute values'
    'tq:type query - object types of a schema'
    'aq:attribute query - attributes of an object type'
    'cq:cache query - inspect or flush the result cache'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  '--no-cache[bypass the result cache]'
  '--limit[cache capacity]:limit'
  '--expire[cache TTL in hours]:hours'
  )

  local -a creds
  creds=(
  '(-H --host)'{-H,--host}'[Insight API base URL]:url'
  '--email[account email]:email'
  '--token[API key]:token'
  '(-S --schema-id)'{-S,--schema-id}'[object schema id]:id'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'iqlctl commands' cmds
    return
  fi

  case $words[2] in
    vq)
      _arguments -C \
        $common $creds \
        '(-a --attr)'{-a,--attr}'[attribute name]:attr' \
        '(-T --type)'{-T,--type}'[object type name]:type' \
        '::IQL:'
      ;;
    lq)
      _arguments -C \
        $common $creds \
        '(-a --attr)'{-a,--attr}'[attribute name]:attr' \
        '(-T --type)'{-T,--type}'[object type name]:type' \
        '--separator[joiner for text output]:sep' \
        '::IQL:'
      ;;
    tq)
      _arguments -C $common $creds
      ;;
    aq)
      _arguments -C \
        $common $creds \
        '(-T --type)'{-T,--type}'[object type name]:type'
      ;;
    cq)
      _arguments -C \
        $common \
        '--flush[clear all cached results]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _iqlctl iqlctl iqlctlgo
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(os.Stdout, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(os.Stdout, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: iqlctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "iqlctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
