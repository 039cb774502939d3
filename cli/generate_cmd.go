package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/promptlab-hq/promptlab/core"
	"github.com/promptlab-hq/promptlab/core/settings"
	"github.com/promptlab-hq/promptlab/llm"
)

// runGenerate implements the "promptlab generate" command: a one-shot
// completion printed to stdout.
func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	var (
		model       string
		system      string
		temperature float64
		maxTokens   int
		jsonOutput  bool
		configRoot  string
	)
	fs.StringVar(&model, "model", "", "model display name (default: first visible model)")
	fs.StringVar(&system, "system", "", "system prompt")
	fs.Float64Var(&temperature, "temperature", core.DefaultTemperature, "sampling temperature")
	fs.IntVar(&maxTokens, "max-tokens", 0, "completion token ceiling (default: settings value)")
	fs.BoolVar(&jsonOutput, "json", false, "output the full response as JSON")
	fs.StringVar(&configRoot, "config", ".", "config root directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		fmt.Fprintln(os.Stderr, "Usage: promptlab generate [flags] <prompt>")
		return 2
	}

	setupLogging(false)

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

	if model == "" {
		names := reg.Names()
		if len(names) == 0 {
			fmt.Fprintln(os.Stderr, "error: no models available")
			return 2
		}
		model = names[0]
	}
	maxTokens = resolveMaxTokens(maxTokens, cfg.Paths.Settings)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	defer cancel()

	resp, err := client.Generate(ctx, llm.GenerateRequest{
		Model:        model,
		SystemPrompt: system,
		UserPrompt:   prompt,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			fmt.Fprintf(os.Stderr, "error: encoding response: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Println(resp.Content)
	fmt.Fprintf(os.Stderr, "\n[%s] %d prompt + %d completion = %d tokens",
		resp.ModelName, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	if resp.Cost != nil {
		fmt.Fprintf(os.Stderr, " · $%.6f", *resp.Cost)
	}
	fmt.Fprintln(os.Stderr)
	return 0
}

// resolveMaxTokens falls back to the workshop settings ceiling when the
// flag was not given.
func resolveMaxTokens(flagValue int, settingsPath string) int {
	if flagValue > 0 {
		return flagValue
	}
	return settings.New(settingsPath).MaxTokens()
}
