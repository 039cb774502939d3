// Package registry holds the table of models exposed by the playground:
// display names, API identifiers, and per-1K-token pricing.
package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// Pricing holds the price per 1000 tokens, in dollars, for a model.
type Pricing struct {
	Input  float64 `json:"input_price"`
	Output float64 `json:"output_price"`
}

// Cost returns the dollar cost of a completion call:
// (prompt/1000)·input + (completion/1000)·output.
func (p Pricing) Cost(promptTokens, completionTokens int) float64 {
	inputCost := (float64(promptTokens) / 1000) * p.Input
	outputCost := (float64(completionTokens) / 1000) * p.Output
	return inputCost + outputCost
}

// ProjectionScales are the display-only multipliers for projected costs.
var ProjectionScales = []int{10, 100, 1000}

// Projections returns base scaled by 10, 100, and 1000, keyed as
// "10x", "100x", "1000x". Display-time arithmetic only.
func Projections(base float64) map[string]float64 {
	out := make(map[string]float64, len(ProjectionScales))
	for _, scale := range ProjectionScales {
		out[fmt.Sprintf("%dx", scale)] = base * float64(scale)
	}
	return out
}

// ModelInfo describes one model in the registry. Immutable after the
// registry is built.
type ModelInfo struct {
	DisplayName string  `json:"display_name"`
	APIName     string  `json:"api_name"`
	Pricing     Pricing `json:"pricing"`
	Description string  `json:"description,omitempty"`
}

// Registry maps display names to model information. Construct one with
// Builtin or Load and pass it to whatever needs it; there is no
// package-level instance.
type Registry struct {
	models map[string]ModelInfo
	order  []string
}

// builtinModels is the curated default table. Prices are dollars per
// 1000 tokens.
var builtinModels = []ModelInfo{
	{DisplayName: "DeepSeek-R1", APIName: "deepseek-r1", Pricing: Pricing{0.00120, 0.00478}, Description: "DeepSeek R1 reasoning model"},
	{DisplayName: "DeepSeek-V3-0324", APIName: "DeepSeek-V3-0324", Pricing: Pricing{0.00101, 0.00404}, Description: "DeepSeek V3 model"},
	{DisplayName: "gpt-4.1", APIName: "gpt-4.1", Pricing: Pricing{0.00177, 0.00708}, Description: "GPT-4.1 model"},
	{DisplayName: "gpt-4.1-nano", APIName: "gpt-4.1-nano", Pricing: Pricing{0.00009, 0.00036}, Description: "GPT-4.1 Nano model"},
	{DisplayName: "GPT-4o", APIName: "gpt-4o", Pricing: Pricing{0.002212, 0.008848}, Description: "GPT-4o model"},
	{DisplayName: "GPT-4o-mini", APIName: "gpt-4o-mini", Pricing: Pricing{0.00013272, 0.0005309}, Description: "GPT-4o Mini model"},
	{DisplayName: "Llama-4-Scout-17B-16E-Instruct", APIName: "Llama-4-Scout-17B-16E-Instruct", Pricing: Pricing{0.001, 0.003}, Description: "Llama 4 Scout model"},
	{DisplayName: "mistral-medium-2505", APIName: "mistral-medium-2505", Pricing: Pricing{0.002, 0.006}, Description: "Mistral Medium model"},
	{DisplayName: "O1", APIName: "o1", Pricing: Pricing{0.0132720, 0.053087950}, Description: "OpenAI O1 model"},
	{DisplayName: "O3", APIName: "o3", Pricing: Pricing{0.00885, 0.03540}, Description: "OpenAI O3 model"},
	{DisplayName: "o4-mini", APIName: "o4-mini", Pricing: Pricing{0.00098, 0.00390}, Description: "OpenAI o4 Mini model"},
	{DisplayName: "Phi-4", APIName: "phi-4", Pricing: Pricing{0.000111, 0.00045}, Description: "Microsoft Phi-4 model"},
	{DisplayName: "Phi-4-mini-reasoning", APIName: "Phi-4-mini-reasoning", Pricing: Pricing{0.000067, 0.00027}, Description: "Microsoft Phi-4 Mini Reasoning model"},
}

// fallbackModel is the single entry used when a configured model table
// cannot be read.
var fallbackModel = ModelInfo{
	DisplayName: "GPT-4o-mini",
	APIName:     "gpt-4o-mini",
	Pricing:     Pricing{0.00013272, 0.0005309},
	Description: "GPT-4o Mini model",
}

// Builtin returns a registry populated with the built-in model table.
func Builtin() *Registry {
	r := &Registry{models: make(map[string]ModelInfo, len(builtinModels))}
	for _, m := range builtinModels {
		r.models[m.DisplayName] = m
		r.order = append(r.order, m.DisplayName)
	}
	return r
}

// tableEntry is the on-disk shape of one model in a table file.
type tableEntry struct {
	APIName     string  `json:"api_name"`
	InputPrice  float64 `json:"input_price"`
	OutputPrice float64 `json:"output_price"`
	Description string  `json:"description"`
}

// LoadFile reads a JSON model table mapping display names to entries.
// Names are listed alphabetically since JSON objects carry no order.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model table %s: %w", path, err)
	}

	var table map[string]tableEntry
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing model table %s: %w", path, err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("model table %s is empty", path)
	}

	r := &Registry{models: make(map[string]ModelInfo, len(table))}
	for name, entry := range table {
		if entry.APIName == "" {
			return nil, fmt.Errorf("model table %s: %q has no api_name", path, name)
		}
		r.models[name] = ModelInfo{
			DisplayName: name,
			APIName:     entry.APIName,
			Pricing:     Pricing{Input: entry.InputPrice, Output: entry.OutputPrice},
			Description: entry.Description,
		}
		r.order = append(r.order, name)
	}
	sort.Strings(r.order)
	return r, nil
}

// Load builds the registry for the given table path. An empty path means
// the built-in table. A configured path that is missing or malformed
// degrades to a single low-cost fallback entry with a logged warning.
func Load(tablePath string) *Registry {
	if tablePath == "" {
		return Builtin()
	}

	r, err := LoadFile(tablePath)
	if err != nil {
		slog.Warn("model table unusable, falling back to single built-in model",
			"path", tablePath, "error", err)
		fb := &Registry{models: map[string]ModelInfo{fallbackModel.DisplayName: fallbackModel}}
		fb.order = []string{fallbackModel.DisplayName}
		return fb
	}
	return r
}

// Get returns the model registered under the given display name.
func (r *Registry) Get(displayName string) (ModelInfo, bool) {
	m, ok := r.models[displayName]
	return m, ok
}

// APIName returns the identifier the remote service expects for a
// display name.
func (r *Registry) APIName(displayName string) (string, bool) {
	m, ok := r.models[displayName]
	if !ok {
		return "", false
	}
	return m.APIName, true
}

// GetPricing returns the pricing for a display name.
func (r *Registry) GetPricing(displayName string) (Pricing, bool) {
	m, ok := r.models[displayName]
	if !ok {
		return Pricing{}, false
	}
	return m.Pricing, true
}

// Names returns all display names in registry order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.models)
}
