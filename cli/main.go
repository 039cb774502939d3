// Package main is the entry point for the promptlab CLI.
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the exit code.
// 0 = success, 1 = operation failed, 2 = usage or setup error.
func run(args []string) int {
	fs := flag.NewFlagSet("promptlab", flag.ContinueOnError)

	var versionFlag bool
	fs.BoolVar(&versionFlag, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: promptlab <command> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  serve            Start the playground HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp              Start MCP server on stdio\n")
		fmt.Fprintf(os.Stderr, "  generate         Run a one-shot completion\n")
		fmt.Fprintf(os.Stderr, "  models           List available models and pricing\n")
		fmt.Fprintf(os.Stderr, "  tui              Open the interactive terminal playground\n")
		fmt.Fprintf(os.Stderr, "  completion       Generate shell completion script\n")
		fmt.Fprintf(os.Stderr, "  version          Print version and exit\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if versionFlag {
		printVersion()
		return 0
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		fs.Usage()
		return 2
	}

	switch command := remaining[0]; command {
	case "serve":
		return runServe(remaining[1:])
	case "mcp":
		return runMCP(remaining[1:])
	case "generate":
		return runGenerate(remaining[1:])
	case "models":
		return runModels(remaining[1:])
	case "tui":
		return runTUI(remaining[1:])
	case "completion":
		return runCompletion(remaining[1:])
	case "version":
		printVersion()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		fmt.Fprintln(os.Stderr, "Usage: promptlab <command> [flags]")
		return 2
	}
}

func printVersion() {
	fmt.Printf("promptlab %s (commit: %s, built: %s)\n", version, commit, date)
}
