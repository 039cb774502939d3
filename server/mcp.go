package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/promptlab-hq/promptlab/llm"
)

// ServeMCP starts an MCP server on stdio exposing the playground to
// agents and blocks until the client disconnects.
func (s *Server) ServeMCP() error {
	srv := mcpserver.NewMCPServer(
		"promptlab",
		s.version,
		mcpserver.WithRecovery(),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithResourceCapabilities(false, false),
	)

	s.registerMCPTools(srv)
	s.registerMCPResources(srv)

	return mcpserver.ServeStdio(srv)
}

func (s *Server) registerMCPTools(srv *mcpserver.MCPServer) {
	// generate tool — single completion against one model.
	srv.AddTool(
		mcp.NewTool("generate",
			mcp.WithDescription("Run a completion against one model and report content, token usage, and cost"),
			mcp.WithString("model",
				mcp.Description("Display name of the model, as listed by list_models"),
				mcp.Required(),
			),
			mcp.WithString("prompt",
				mcp.Description("User prompt"),
				mcp.Required(),
			),
			mcp.WithString("system_prompt",
				mcp.Description("Optional system prompt"),
			),
			mcp.WithNumber("temperature",
				mcp.Description("Sampling temperature (default 0.7)"),
			),
		),
		s.handleMCPGenerate,
	)

	// compare tool — the same prompt against several models.
	srv.AddTool(
		mcp.NewTool("compare",
			mcp.WithDescription("Run the same prompt against several models side by side"),
			mcp.WithString("models",
				mcp.Description("Comma-separated display names of the models to compare"),
				mcp.Required(),
			),
			mcp.WithString("prompt",
				mcp.Description("User prompt"),
				mcp.Required(),
			),
			mcp.WithString("system_prompt",
				mcp.Description("Optional system prompt"),
			),
		),
		s.handleMCPCompare,
	)

	// list_models tool — the registry with pricing.
	srv.AddTool(
		mcp.NewTool("list_models",
			mcp.WithDescription("List available models with per-1K-token pricing"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleMCPListModels,
	)
}

func (s *Server) registerMCPResources(srv *mcpserver.MCPServer) {
	srv.AddResource(
		mcp.NewResource("promptlab://models", "Model Registry",
			mcp.WithResourceDescription("Available models with API names and per-1K-token pricing"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleMCPModelsResource,
	)
}

func (s *Server) handleMCPGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	model, err := request.RequireString("model")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: model"), nil
	}
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: prompt"), nil
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Model:        model,
		SystemPrompt: request.GetString("system_prompt", ""),
		UserPrompt:   prompt,
		Temperature:  request.GetFloat("temperature", 0.7),
		MaxTokens:    s.settings.MaxTokens(),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("completion failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatMCPResponse(model, resp)), nil
}

func (s *Server) handleMCPCompare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelsArg, err := request.RequireString("models")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: models"), nil
	}
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: prompt"), nil
	}

	var models []string
	for _, name := range strings.Split(modelsArg, ",") {
		if name = strings.TrimSpace(name); name != "" {
			models = append(models, name)
		}
	}
	if len(models) == 0 {
		return mcp.NewToolResultError("models must name at least one model"), nil
	}

	results, failures, err := s.client.GenerateComparison(ctx, models,
		request.GetString("system_prompt", ""), prompt, 0.7, s.settings.MaxTokens())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	var b strings.Builder
	for _, name := range models {
		if resp, ok := results[name]; ok {
			b.WriteString(formatMCPResponse(name, resp))
			b.WriteString("\n\n")
			continue
		}
		if ferr, ok := failures[name]; ok {
			fmt.Fprintf(&b, "## %s\n\nfailed: %v\n\n", name, ferr)
		}
	}
	return mcp.NewToolResultText(strings.TrimSpace(b.String())), nil
}

func (s *Server) handleMCPListModels(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, name := range s.registry.Names() {
		info, ok := s.registry.Get(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s (%s): $%g/1K input, $%g/1K output",
			info.DisplayName, info.APIName, info.Pricing.Input, info.Pricing.Output)
		if info.Description != "" {
			fmt.Fprintf(&b, " — %s", info.Description)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleMCPModelsResource(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type entry struct {
		DisplayName string  `json:"display_name"`
		APIName     string  `json:"api_name"`
		InputPrice  float64 `json:"input_price"`
		OutputPrice float64 `json:"output_price"`
		Description string  `json:"description,omitempty"`
	}

	var entries []entry
	for _, name := range s.registry.Names() {
		info, ok := s.registry.Get(name)
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

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling model registry: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func formatMCPResponse(model string, resp *llm.ModelResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%s\n\n", model, resp.Content)
	fmt.Fprintf(&b, "tokens: %d prompt + %d completion = %d",
		resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	if resp.Cost != nil {
		fmt.Fprintf(&b, " · cost: $%.6f", *resp.Cost)
	}
	return b.String()
}
