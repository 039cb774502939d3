package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/promptlab-hq/promptlab/core"
	"github.com/promptlab-hq/promptlab/core/registry"
)

// runModels implements the "promptlab models" command.
func runModels(args []string) int {
	fs := flag.NewFlagSet("models", flag.ContinueOnError)
	var (
		jsonOutput bool
		configRoot string
	)
	fs.BoolVar(&jsonOutput, "json", false, "output as JSON")
	fs.StringVar(&configRoot, "config", ".", "config root directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := core.LoadConfig(configRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		return 2
	}
	reg := registry.Load(cfg.Paths.ModelTable)

	if jsonOutput {
		return printModelsJSON(reg)
	}
	return printModelsTable(reg)
}

func printModelsJSON(reg *registry.Registry) int {
	type entry struct {
		DisplayName string  `json:"display_name"`
		APIName     string  `json:"api_name"`
		InputPrice  float64 `json:"input_price"`
		OutputPrice float64 `json:"output_price"`
		Description string  `json:"description,omitempty"`
	}

	entries := make([]entry, 0, reg.Len())
	for _, name := range reg.Names() {
		info, ok := reg.Get(name)
		if !ok {
			continue
		}
		entries = append(entries, entry{
			DisplayName: info.DisplayName,
			APIName:     info.APIName,
			InputPrice:  info.Pricing.Input,
			OutputPrice: info.Pricing.Output,
			Description: info.Description,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		fmt.Fprintf(os.Stderr, "error: encoding models: %v\n", err)
		return 1
	}
	return 0
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	priceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func printModelsTable(reg *registry.Registry) int {
	width := 80
	if isTerminal() {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	fmt.Printf("%s  %s  %s\n",
		headerStyle.Render(fmt.Sprintf("%-22s", "MODEL")),
		headerStyle.Render(fmt.Sprintf("%-24s", "API NAME")),
		headerStyle.Render("PRICE/1K (IN / OUT)"))

	for _, name := range reg.Names() {
		info, ok := reg.Get(name)
		if !ok {
			continue
		}
		line := fmt.Sprintf("%-22s  %-24s  %s",
			info.DisplayName,
			info.APIName,
			priceStyle.Render(fmt.Sprintf("$%.6f / $%.6f", info.Pricing.Input, info.Pricing.Output)))
		fmt.Println(line)
		if info.Description != "" && width > 60 {
			desc := info.Description
			if len(desc) > width-6 {
				desc = desc[:width-9] + "..."
			}
			fmt.Printf("    %s\n", dimStyle.Render(desc))
		}
	}
	return 0
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
