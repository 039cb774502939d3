package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/promptlab-hq/promptlab/cli/tui"
	"github.com/promptlab-hq/promptlab/core"
	"github.com/promptlab-hq/promptlab/core/settings"
)

// runTUI implements the "promptlab tui" command.
func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	var configRoot string
	fs.StringVar(&configRoot, "config", ".", "config root directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := core.LoadConfig(configRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		return 2
	}
	client, reg, err := buildClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	store := settings.New(cfg.Paths.Settings)
	m := tui.New(client, reg, store)

	if err := tui.Run(m); err != nil {
		fmt.Fprintf(os.Stderr, "error: TUI failed: %v\n", err)
		return 1
	}
	return 0
}
