package main

import (
	"flag"
	"fmt"
	"os"
)

// runMCP implements the "promptlab mcp" command, serving the playground
// to agents over stdio.
func runMCP(args []string) int {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	var verbose bool
	fs.BoolVar(&verbose, "verbose", false, "enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	setupLogging(verbose)

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	srv, err := buildServer(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	if err := srv.ServeMCP(); err != nil {
		fmt.Fprintf(os.Stderr, "error: MCP server failed: %v\n", err)
		return 1
	}
	return 0
}
