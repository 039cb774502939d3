package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// runServe implements the "promptlab serve" command.
func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var (
		addr    string
		verbose bool
	)
	fs.StringVar(&addr, "addr", "", "listen address (overrides config)")
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
	if addr != "" {
		srv.SetAddr(addr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: server failed: %v\n", err)
		return 1
	}
	return 0
}
