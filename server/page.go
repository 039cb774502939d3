package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/promptlab-hq/promptlab/core/chain"
	"github.com/promptlab-hq/promptlab/core/registry"
	"github.com/promptlab-hq/promptlab/core/session"
	"github.com/promptlab-hq/promptlab/llm"
)

//go:embed ui/main.html ui/admin.html ui/chain.html
var uiFS embed.FS

// pageData is the JSON structure injected into the view templates.
type pageData struct {
	Version    string             `json:"version"`
	View       string             `json:"view"`
	Title      string             `json:"title"`
	Settings   pageSettings       `json:"settings"`
	Models     []pageModel        `json:"models"`
	Admin      bool               `json:"admin"`
	Response   *llm.ModelResponse `json:"response,omitempty"`
	Comparison []comparisonEntry  `json:"comparison,omitempty"`
	Failures   map[string]string  `json:"failures,omitempty"`
	Chain      *pageChain         `json:"chain,omitempty"`
}

type pageSettings struct {
	VisibleModels         []string `json:"visible_models"`
	ShowPricing           bool     `json:"show_pricing"`
	MaxTokens             int      `json:"max_tokens"`
	ComparisonMode        bool     `json:"comparison_mode"`
	GeneratePromptEnabled bool     `json:"generate_prompt_enabled"`
}

type pageModel struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputPrice  *float64           `json:"input_price,omitempty"`
	OutputPrice *float64           `json:"output_price,omitempty"`
	Projections map[string]float64 `json:"projections,omitempty"`
}

type comparisonEntry struct {
	Model    string             `json:"model"`
	Response *llm.ModelResponse `json:"response"`
}

type pageChain struct {
	Stage     int                        `json:"stage"`
	Statuses  []string                   `json:"statuses"`
	Responses map[int]*llm.ModelResponse `json:"responses,omitempty"`
	TotalCost *float64                   `json:"total_cost,omitempty"`
}

var viewFiles = map[View]string{
	ViewMain:  "ui/main.html",
	ViewAdmin: "ui/admin.html",
	ViewChain: "ui/chain.html",
}

// renderPage renders the HTML for a view with page data injected.
func (s *Server) renderPage(view View, sess *session.Session) (string, error) {
	tmplBytes, err := uiFS.ReadFile(viewFiles[view])
	if err != nil {
		return "", fmt.Errorf("reading view template: %w", err)
	}

	data := s.buildPageData(view, sess)

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshalling page data: %w", err)
	}

	// Inject data by replacing the __PROMPTLAB_DATA__ placeholder block.
	html := strings.Replace(
		string(tmplBytes),
		"const DATA = typeof __PROMPTLAB_DATA__ !== 'undefined' ? __PROMPTLAB_DATA__ : {};",
		"const DATA = "+string(dataJSON)+";",
		1,
	)

	return html, nil
}

func (s *Server) buildPageData(view View, sess *session.Session) pageData {
	data := pageData{
		Version: s.version,
		View:    view.String(),
		Title:   view.Title(),
		Admin:   sess.Admin,
	}

	// Before authentication the admin page gets nothing beyond the login
	// form; the page reloads after login and picks up the full payload.
	if view == ViewAdmin && !sess.Admin {
		return data
	}

	data.Settings = pageSettings{
		VisibleModels:         s.settings.VisibleModels(),
		ShowPricing:           s.settings.ShowPricing(),
		MaxTokens:             s.settings.MaxTokens(),
		ComparisonMode:        s.settings.ComparisonMode(),
		GeneratePromptEnabled: s.settings.GeneratePromptEnabled(),
	}

	showPricing := data.Settings.ShowPricing || view == ViewAdmin

	names := s.registry.Names()
	if view == ViewMain {
		names = visibleNames(s.registry, data.Settings.VisibleModels)
	}
	for _, name := range names {
		info, ok := s.registry.Get(name)
		if !ok {
			continue
		}
		m := pageModel{Name: info.DisplayName, Description: info.Description}
		if showPricing {
			in, out := info.Pricing.Input, info.Pricing.Output
			m.InputPrice = &in
			m.OutputPrice = &out
		}
		data.Models = append(data.Models, m)
	}

	switch view {
	case ViewMain:
		data.Response = sess.LastResponse
		for _, name := range sess.ComparisonOrder {
			data.Comparison = append(data.Comparison, comparisonEntry{
				Model:    name,
				Response: sess.Comparison[name],
			})
		}
		data.Failures = sess.ComparisonFailures
	case ViewChain:
		data.Chain = buildChainData(sess.Chain)
	}

	return data
}

func buildChainData(c *chain.Controller) *pageChain {
	if c == nil {
		return nil
	}
	pc := &pageChain{
		Stage:     c.Stage(),
		Responses: make(map[int]*llm.ModelResponse),
	}
	for stage := 1; stage <= chain.Stages; stage++ {
		pc.Statuses = append(pc.Statuses, c.Status(stage).String())
		if r, ok := c.Response(stage); ok {
			pc.Responses[stage] = r
		}
	}
	if total, ok := c.TotalCost(); ok {
		pc.TotalCost = &total
	}
	return pc
}

// visibleNames filters the settings' visible-model list down to names the
// registry actually knows, preserving registry order.
func visibleNames(reg *registry.Registry, visible []string) []string {
	want := make(map[string]bool, len(visible))
	for _, v := range visible {
		want[v] = true
	}
	var out []string
	for _, name := range reg.Names() {
		if want[name] {
			out = append(out, name)
		}
	}
	return out
}
