package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/promptlab-hq/promptlab/core"
	"github.com/promptlab-hq/promptlab/core/registry"
	"github.com/promptlab-hq/promptlab/core/settings"
	"github.com/promptlab-hq/promptlab/llm"
	"github.com/promptlab-hq/promptlab/server"
)

// setupLogging configures the process-wide slog handler.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// buildClient assembles the completion client from the resolved config.
func buildClient(cfg *core.Config) (*llm.Client, *registry.Registry, error) {
	if err := cfg.ValidateAPI(); err != nil {
		return nil, nil, err
	}

	reg := registry.Load(cfg.Paths.ModelTable)

	opts := []llm.OpenAIOption{
		llm.WithAPIKey(cfg.APIKey()),
		llm.WithTimeout(cfg.RequestTimeout()),
	}
	if cfg.API.Endpoint != "" {
		opts = append(opts, llm.WithBaseURL(cfg.API.Endpoint))
	}
	provider := llm.NewOpenAIProvider(opts...)

	client := llm.NewClient(provider, reg,
		llm.WithGeneratorModel(cfg.Chat.GeneratorModel))
	return client, reg, nil
}

// buildServer assembles the full server from a config root directory.
func buildServer(root string) (*server.Server, error) {
	cfg, err := core.LoadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	client, reg, err := buildClient(cfg)
	if err != nil {
		return nil, err
	}

	store := settings.New(cfg.Paths.Settings)
	return server.New(version, cfg, store, reg, client), nil
}
