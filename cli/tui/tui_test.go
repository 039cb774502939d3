package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/promptlab-hq/promptlab/core/registry"
	"github.com/promptlab-hq/promptlab/core/settings"
	"github.com/promptlab-hq/promptlab/llm"
)

// stubGenerator returns a canned response or error.
type stubGenerator struct {
	resp  *llm.ModelResponse
	err   error
	calls []llm.GenerateRequest
}

func (g *stubGenerator) Generate(_ context.Context, req llm.GenerateRequest) (*llm.ModelResponse, error) {
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	if g.resp != nil {
		return g.resp, nil
	}
	return &llm.ModelResponse{ModelName: req.Model, Content: "stub output"}, nil
}

func testModel(t *testing.T, gen Generator) *Model {
	t.Helper()
	store := settings.New(filepath.Join(t.TempDir(), "settings.json"))
	return New(gen, registry.Builtin(), store)
}

func typeString(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// drainCmd executes a command tree, running batched commands in order
// and feeding their messages back into the model.
func drainCmd(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drainCmd(t, m, c)
		}
		return
	}
	switch msg.(type) {
	case completionMsg, chainMsg:
		m.Update(msg)
	}
}

func TestNewModel(t *testing.T) {
	m := testModel(t, &stubGenerator{})

	if m.state != composeView {
		t.Errorf("initial state = %d, want composeView (0)", m.state)
	}
	if len(m.models) == 0 {
		t.Fatal("expected models from the registry")
	}
	if m.CurrentModel() != m.models[0] {
		t.Errorf("initial model = %q, want first registry entry", m.CurrentModel())
	}
}

func TestModelCycle(t *testing.T) {
	m := testModel(t, &stubGenerator{})
	first := m.CurrentModel()

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.CurrentModel() == first {
		t.Error("expected tab to advance the model selection")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.CurrentModel() != first {
		t.Errorf("expected shift+tab to return to %q, got %q", first, m.CurrentModel())
	}
}

func TestModelCycleWraps(t *testing.T) {
	m := testModel(t, &stubGenerator{})
	first := m.CurrentModel()

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.CurrentModel() != m.models[len(m.models)-1] {
		t.Errorf("expected wrap to last model, got %q", m.CurrentModel())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.CurrentModel() != first {
		t.Errorf("expected wrap back to %q, got %q", first, m.CurrentModel())
	}
}

func TestSendWithEmptyPromptIsNoOp(t *testing.T) {
	m := testModel(t, &stubGenerator{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("expected no command for empty prompt")
	}
	if m.state != composeView {
		t.Errorf("state = %d, want composeView", m.state)
	}
}

func TestSendEntersLoadingState(t *testing.T) {
	m := testModel(t, &stubGenerator{})
	typeString(m, "hello")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected a command to run the completion")
	}
	if m.state != loadingView {
		t.Errorf("state = %d, want loadingView", m.state)
	}
}

func TestCompletionMsgShowsResponse(t *testing.T) {
	cost := 0.001
	m := testModel(t, &stubGenerator{})
	m.state = loadingView

	m.Update(completionMsg{resp: &llm.ModelResponse{
		ModelName: "GPT-4o",
		Content:   "the answer",
		Usage:     llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		Cost:      &cost,
	}})

	if m.state != responseView {
		t.Errorf("state = %d, want responseView", m.state)
	}
	view := m.View()
	if !strings.Contains(view, "the answer") {
		t.Error("expected response content in view")
	}
	if !strings.Contains(view, "15 tokens") {
		t.Error("expected token usage in view")
	}
	if !strings.Contains(view, "$0.001000") {
		t.Error("expected cost in view")
	}
}

func TestCompletionMsgShowsError(t *testing.T) {
	m := testModel(t, &stubGenerator{})
	m.state = loadingView

	m.Update(completionMsg{err: errors.New("connection refused")})

	if m.state != responseView {
		t.Errorf("state = %d, want responseView", m.state)
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Error("expected error message in view")
	}
}

func TestBackFromResponseKeepsPrompt(t *testing.T) {
	m := testModel(t, &stubGenerator{})
	typeString(m, "keep me")
	m.state = responseView
	m.response = &llm.ModelResponse{ModelName: "GPT-4o", Content: "x"}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != composeView {
		t.Errorf("state = %d, want composeView", m.state)
	}
	if m.prompt.Value() != "keep me" {
		t.Errorf("prompt = %q, want it preserved", m.prompt.Value())
	}
}

func TestClearResetsPrompt(t *testing.T) {
	m := testModel(t, &stubGenerator{})
	typeString(m, "old prompt")
	m.state = responseView
	m.response = &llm.ModelResponse{ModelName: "GPT-4o", Content: "x"}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.state != composeView {
		t.Errorf("state = %d, want composeView", m.state)
	}
	if m.prompt.Value() != "" {
		t.Errorf("prompt = %q, want empty after clear", m.prompt.Value())
	}
	if m.response != nil {
		t.Error("expected response cleared")
	}
}

func TestSystemPromptEditing(t *testing.T) {
	m := testModel(t, &stubGenerator{})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.state != systemView {
		t.Fatalf("state = %d, want systemView", m.state)
	}
	typeString(m, "be terse")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != composeView {
		t.Errorf("state = %d, want composeView", m.state)
	}
	if m.system.Value() != "be terse" {
		t.Errorf("system = %q, want %q", m.system.Value(), "be terse")
	}
}

func TestSendCarriesSystemPromptAndModel(t *testing.T) {
	gen := &stubGenerator{}
	m := testModel(t, gen)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	typeString(m, "be terse")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	typeString(m, "hello")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected a completion command")
	}
	drainCmd(t, m, cmd)

	if len(gen.calls) != 1 {
		t.Fatalf("expected 1 generate call, got %d", len(gen.calls))
	}
	req := gen.calls[0]
	if req.SystemPrompt != "be terse" {
		t.Errorf("system prompt = %q", req.SystemPrompt)
	}
	if req.UserPrompt != "hello" {
		t.Errorf("user prompt = %q", req.UserPrompt)
	}
	if req.Model != m.CurrentModel() {
		t.Errorf("model = %q, want %q", req.Model, m.CurrentModel())
	}
	if req.MaxTokens != 1000 {
		t.Errorf("max tokens = %d, want default ceiling 1000", req.MaxTokens)
	}
}

func TestTemperatureAdjust(t *testing.T) {
	gen := &stubGenerator{}
	m := testModel(t, gen)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlUp})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlUp})
	if got := m.temp; got < 0.89 || got > 0.91 {
		t.Errorf("temperature = %v, want 0.9", got)
	}

	typeString(m, "hello")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	drainCmd(t, m, cmd)
	if len(gen.calls) != 1 {
		t.Fatalf("expected 1 generate call, got %d", len(gen.calls))
	}
	if got := gen.calls[0].Temperature; got < 0.89 || got > 0.91 {
		t.Errorf("request temperature = %v, want 0.9", got)
	}
}

func TestTemperatureClampsAtZero(t *testing.T) {
	m := testModel(t, &stubGenerator{})
	for i := 0; i < 10; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyCtrlDown})
	}
	if m.temp != 0 {
		t.Errorf("temperature = %v, want clamped to 0", m.temp)
	}
}

func TestAdminToggleVisibility(t *testing.T) {
	m := testModel(t, &stubGenerator{})

	m.Update(tea.KeyMsg{Type: tea.KeyF2})
	if m.state != adminView {
		t.Fatalf("state = %d, want adminView", m.state)
	}

	// The second model is hidden by default; toggle it on and off again.
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	name := m.models[1]
	if contains(m.store.VisibleModels(), name) {
		t.Fatalf("expected %q hidden by default", name)
	}
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !contains(m.store.VisibleModels(), name) {
		t.Errorf("expected %q visible after toggle", name)
	}
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if contains(m.store.VisibleModels(), name) {
		t.Errorf("expected %q hidden after second toggle", name)
	}
}

func TestAdminTogglesOptions(t *testing.T) {
	m := testModel(t, &stubGenerator{})
	m.Update(tea.KeyMsg{Type: tea.KeyF2})

	// Move past the model rows to the show-pricing row.
	m.adminCursor = len(m.models)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !m.store.ShowPricing() {
		t.Error("expected show pricing enabled")
	}

	m.adminCursor = len(m.models) + 1
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !m.store.ComparisonMode() {
		t.Error("expected comparison mode enabled")
	}
}

func TestAdminAdjustsMaxTokens(t *testing.T) {
	m := testModel(t, &stubGenerator{})
	m.Update(tea.KeyMsg{Type: tea.KeyF2})
	m.adminCursor = m.adminRowCount() - 1

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.store.MaxTokens(); got != 1100 {
		t.Errorf("max tokens = %d, want 1100", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.store.MaxTokens(); got != 1000 {
		t.Errorf("max tokens = %d, want 1000", got)
	}
}

func TestChainRunsStages(t *testing.T) {
	gen := &stubGenerator{}
	m := testModel(t, gen)

	m.Update(tea.KeyMsg{Type: tea.KeyF3})
	if m.state != chainView {
		t.Fatalf("state = %d, want chainView", m.state)
	}
	typeString(m, "seed prompt")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected a command to run stage 1")
	}
	drainCmd(t, m, cmd)

	if m.chainCtl.Stage() != 2 {
		t.Fatalf("stage = %d, want 2 after start", m.chainCtl.Stage())
	}
	if m.chainBusy {
		t.Error("expected busy flag cleared")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	drainCmd(t, m, cmd)
	if m.chainCtl.Stage() != 3 {
		t.Fatalf("stage = %d, want 3 after continue", m.chainCtl.Stage())
	}
	if len(gen.calls) != 2 {
		t.Fatalf("expected 2 generate calls, got %d", len(gen.calls))
	}
	if gen.calls[1].UserPrompt != "stub output" {
		t.Errorf("stage 2 input = %q, want stage 1 output", gen.calls[1].UserPrompt)
	}
}

func TestChainEmptySeedShowsError(t *testing.T) {
	m := testModel(t, &stubGenerator{})
	m.Update(tea.KeyMsg{Type: tea.KeyF3})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	drainCmd(t, m, cmd)

	if m.chainCtl.Stage() != 1 {
		t.Errorf("stage = %d, want 1 after rejected seed", m.chainCtl.Stage())
	}
	if m.opErr == nil {
		t.Error("expected an error for the empty seed")
	}
}

func TestChainReset(t *testing.T) {
	gen := &stubGenerator{}
	m := testModel(t, gen)
	m.Update(tea.KeyMsg{Type: tea.KeyF3})
	typeString(m, "seed prompt")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	drainCmd(t, m, cmd)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.chainCtl.Stage() != 1 {
		t.Errorf("stage = %d, want 1 after reset", m.chainCtl.Stage())
	}
	if m.chainCtl.Completed() != 0 {
		t.Errorf("completed = %d, want 0 after reset", m.chainCtl.Completed())
	}
}

func TestQuitFromAnyState(t *testing.T) {
	for _, state := range []viewState{composeView, systemView, loadingView, responseView, adminView, chainView} {
		m := testModel(t, &stubGenerator{})
		m.state = state
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Errorf("state %d: expected quit command", state)
		}
	}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
