package llm

import (
	"context"
	"log/slog"
	"strings"

	"github.com/promptlab-hq/promptlab/core/registry"
)

// Usage is the token accounting reported by the remote service for one
// completion call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ModelResponse is the local value object produced by one completion
// call: the generated text, token usage, and the cost derived from the
// registry when pricing is known. Held in per-session memory only.
type ModelResponse struct {
	ModelName string   `json:"model_name"`
	Content   string   `json:"content"`
	Usage     Usage    `json:"usage"`
	Cost      *float64 `json:"cost,omitempty"`
}

// GenerateRequest is one user-initiated completion: a registry display
// name plus prompts and sampling parameters. Temperature is always
// forwarded to the provider, zero included; callers resolve their own
// defaults.
type GenerateRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// Client turns registry display names into completion calls against a
// Provider and fills in cost accounting.
type Client struct {
	provider       Provider
	registry       *registry.Registry
	generatorModel string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithGeneratorModel sets the display name used for system-prompt
// generation (default: "GPT-4o").
func WithGeneratorModel(name string) ClientOption {
	return func(c *Client) {
		if name != "" {
			c.generatorModel = name
		}
	}
}

// NewClient creates a Client over the given provider and registry.
func NewClient(provider Provider, reg *registry.Registry, opts ...ClientOption) *Client {
	c := &Client{
		provider:       provider,
		registry:       reg,
		generatorModel: "GPT-4o",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Registry returns the model registry the client resolves names against.
func (c *Client) Registry() *registry.Registry {
	return c.registry
}

// buildMessages assembles the role-tagged message list. A blank system
// prompt is omitted entirely.
func buildMessages(systemPrompt, userPrompt string) []Message {
	var msgs []Message
	if strings.TrimSpace(systemPrompt) != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: systemPrompt})
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: userPrompt})
	return msgs
}

// Generate performs one completion call. It fails with an
// UnknownModelError when the display name is not registered, or a
// TransportError wrapping whatever the remote call raised.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*ModelResponse, error) {
	apiName, ok := c.registry.APIName(req.Model)
	if !ok {
		return nil, &UnknownModelError{Name: req.Model}
	}

	resp, err := c.provider.Complete(ctx, Request{
		Model:       apiName,
		Messages:    buildMessages(req.SystemPrompt, req.UserPrompt),
		Temperature: &req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, &TransportError{Model: req.Model, Err: err}
	}

	out := &ModelResponse{
		ModelName: req.Model,
		Content:   resp.Content,
		Usage: Usage{
			PromptTokens:     resp.PromptTokens,
			CompletionTokens: resp.CompletionTokens,
			TotalTokens:      resp.TotalTokens,
		},
	}

	if pricing, ok := c.registry.GetPricing(req.Model); ok {
		cost := pricing.Cost(resp.PromptTokens, resp.CompletionTokens)
		out.Cost = &cost
	}

	return out, nil
}

// GenerateComparison runs the same prompt through each model in order,
// sequentially. Successes are collected per model and failures recorded
// separately; only when every model fails does it return a
// ComparisonError. Partial failures are logged and the successes
// returned.
func (c *Client) GenerateComparison(ctx context.Context, models []string, systemPrompt, userPrompt string, temperature float64, maxTokens int) (map[string]*ModelResponse, map[string]error, error) {
	responses := make(map[string]*ModelResponse)
	failures := make(map[string]error)

	for _, model := range models {
		resp, err := c.Generate(ctx, GenerateRequest{
			Model:        model,
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			Temperature:  temperature,
			MaxTokens:    maxTokens,
		})
		if err != nil {
			slog.Warn("comparison model failed", "model", model, "error", err)
			failures[model] = err
			continue
		}
		responses[model] = resp
	}

	if len(responses) == 0 && len(failures) > 0 {
		return nil, failures, &ComparisonError{Failures: failures}
	}
	return responses, failures, nil
}
