package main

import (
	"fmt"
	"os"
)

func runCompletion(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: promptlab completion <bash|zsh|fish>")
		return 2
	}

	switch shell := args[0]; shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "unsupported shell: %s\n", shell)
		fmt.Fprintln(os.Stderr, "Supported shells: bash, zsh, fish")
		return 2
	}

	return 0
}

const bashCompletion = `# promptlab bash completion
_promptlab_completions() {
    local cur prev commands
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    commands="serve mcp generate models tui completion version"

    case "${prev}" in
        promptlab)
            COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
            return 0
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- "${cur}") )
            return 0
            ;;
        -config)
            COMPREPLY=( $(compgen -d -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "-addr -config -json -model -system -temperature -max-tokens -verbose --version" -- "${cur}") )
        return 0
    fi

    COMPREPLY=( $(compgen -d -- "${cur}") )
}
complete -F _promptlab_completions promptlab
`

const zshCompletion = `#compdef promptlab
# promptlab zsh completion

_promptlab() {
    local -a commands
    commands=(
        'serve:Start the playground HTTP server'
        'mcp:Start MCP server on stdio'
        'generate:Run a one-shot completion'
        'models:List available models and pricing'
        'tui:Open the interactive terminal playground'
        'completion:Generate shell completion script'
        'version:Print version and exit'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case "${words[2]}" in
        completion)
            _values 'shell' bash zsh fish
            ;;
        serve|mcp|generate|models|tui)
            _files -/
            ;;
    esac
}

_promptlab
`

const fishCompletion = `# promptlab fish completion
complete -c promptlab -f
complete -c promptlab -n '__fish_use_subcommand' -a serve -d 'Start the playground HTTP server'
complete -c promptlab -n '__fish_use_subcommand' -a mcp -d 'Start MCP server on stdio'
complete -c promptlab -n '__fish_use_subcommand' -a generate -d 'Run a one-shot completion'
complete -c promptlab -n '__fish_use_subcommand' -a models -d 'List available models and pricing'
complete -c promptlab -n '__fish_use_subcommand' -a tui -d 'Open the interactive terminal playground'
complete -c promptlab -n '__fish_use_subcommand' -a completion -d 'Generate shell completion script'
complete -c promptlab -n '__fish_use_subcommand' -a version -d 'Print version and exit'
complete -c promptlab -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'
`
