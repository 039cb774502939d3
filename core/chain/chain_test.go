package chain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/promptlab-hq/promptlab/llm"
)

// stubGenerator records requests and replies with canned responses.
type stubGenerator struct {
	responses []*llm.ModelResponse
	err       error
	calls     []llm.GenerateRequest
}

func (g *stubGenerator) Generate(_ context.Context, req llm.GenerateRequest) (*llm.ModelResponse, error) {
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	if len(g.responses) == 0 {
		return nil, errors.New("stub: no responses configured")
	}
	resp := g.responses[0]
	g.responses = g.responses[1:]
	return resp, nil
}

func response(text string, cost float64) *llm.ModelResponse {
	return &llm.ModelResponse{
		ModelName: "GPT-4o",
		Content:   text,
		Usage:     llm.Usage{PromptTokens: 10, CompletionTokens: 10, TotalTokens: 20},
		Cost:      &cost,
	}
}

func TestNew_InitialState(t *testing.T) {
	t.Parallel()

	c := New(&stubGenerator{})
	if c.Stage() != 1 {
		t.Errorf("Stage = %d, want 1", c.Stage())
	}
	if c.Completed() != 0 {
		t.Errorf("Completed = %d, want 0", c.Completed())
	}
	if got := c.Status(1); got != StatusReady {
		t.Errorf("Status(1) = %v, want ready", got)
	}
	if got := c.Status(2); got != StatusWaiting {
		t.Errorf("Status(2) = %v, want waiting", got)
	}
	if got := c.Status(3); got != StatusWaiting {
		t.Errorf("Status(3) = %v, want waiting", got)
	}
}

func TestStart_EmptySeedRejected(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{}
	c := New(gen)

	if err := c.Start(context.Background(), "  \n", StageConfig{Model: "GPT-4o"}, 100); !errors.Is(err, ErrEmptySeed) {
		t.Fatalf("expected ErrEmptySeed, got %v", err)
	}
	if len(gen.calls) != 0 {
		t.Error("no completion call should be made for an empty seed")
	}
}

func TestStart_AdvancesToStageTwo(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{responses: []*llm.ModelResponse{response("stage one out", 0.01)}}
	c := New(gen)

	err := c.Start(context.Background(), "analyze this", StageConfig{Model: "GPT-4o", Temperature: 0.5, SystemPrompt: "be brief"}, 200)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if c.Stage() != 2 {
		t.Errorf("Stage = %d, want 2", c.Stage())
	}
	if c.Seed() != "analyze this" {
		t.Errorf("Seed = %q", c.Seed())
	}
	if got := c.Status(1); got != StatusDone {
		t.Errorf("Status(1) = %v, want done", got)
	}
	if got := c.Status(2); got != StatusReady {
		t.Errorf("Status(2) = %v, want ready", got)
	}

	call := gen.calls[0]
	if call.UserPrompt != "analyze this" || call.Model != "GPT-4o" || call.MaxTokens != 200 {
		t.Errorf("unexpected stage 1 request: %+v", call)
	}
}

func TestContinue_BeforeStartRejected(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{}
	c := New(gen)

	if err := c.Continue(context.Background(), 2, StageConfig{Model: "GPT-4o"}, 100); !errors.Is(err, ErrStageNotReady) {
		t.Fatalf("expected ErrStageNotReady, got %v", err)
	}
	if len(gen.calls) != 0 {
		t.Error("gated continue must be a no-op")
	}
}

func TestContinue_ConsumesPreviousOutputVerbatim(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{responses: []*llm.ModelResponse{
		response("stage one out", 0.01),
		response("stage two out", 0.02),
	}}
	c := New(gen)

	if err := c.Start(context.Background(), "seed", StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}
	if err := c.Continue(context.Background(), 2, StageConfig{Model: "Phi-4"}, 100); err != nil {
		t.Fatal(err)
	}

	if got := gen.calls[1].UserPrompt; got != "stage one out" {
		t.Errorf("stage 2 input = %q, want stage 1 output verbatim", got)
	}
	if c.Stage() != 3 {
		t.Errorf("Stage = %d, want 3", c.Stage())
	}
}

func TestContinue_StageThreeIncludesOriginal(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{responses: []*llm.ModelResponse{
		response("one", 0),
		response("two", 0),
		response("three", 0),
	}}
	c := New(gen)
	c.SetIncludeOriginal(true)

	ctx := context.Background()
	if err := c.Start(ctx, "the seed", StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}
	if err := c.Continue(ctx, 2, StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}
	if err := c.Continue(ctx, 3, StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}

	input := gen.calls[2].UserPrompt
	if !strings.Contains(input, "Original Request:\nthe seed") {
		t.Errorf("stage 3 input missing original prompt: %q", input)
	}
	if !strings.Contains(input, "Previous Stage Output:\ntwo") {
		t.Errorf("stage 3 input missing stage 2 output: %q", input)
	}
	if c.Stage() != 3 {
		t.Errorf("Stage = %d, want 3 after final stage", c.Stage())
	}
}

func TestContinue_CompletedStageRejected(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{responses: []*llm.ModelResponse{
		response("one", 0),
		response("two", 0),
	}}
	c := New(gen)

	ctx := context.Background()
	if err := c.Start(ctx, "seed", StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}
	if err := c.Continue(ctx, 2, StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}

	if err := c.Continue(ctx, 2, StageConfig{Model: "GPT-4o"}, 100); !errors.Is(err, ErrStageDone) {
		t.Fatalf("expected ErrStageDone, got %v", err)
	}
}

func TestContinue_FailureLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{responses: []*llm.ModelResponse{response("one", 0)}}
	c := New(gen)

	ctx := context.Background()
	if err := c.Start(ctx, "seed", StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}

	gen.err = errors.New("api down")
	if err := c.Continue(ctx, 2, StageConfig{Model: "GPT-4o"}, 100); err == nil {
		t.Fatal("expected error")
	}

	// The user may retry: stage 2 is still ready, nothing stored.
	if c.Stage() != 2 {
		t.Errorf("Stage = %d, want 2", c.Stage())
	}
	if _, ok := c.Response(2); ok {
		t.Error("failed stage must not store a response")
	}
	if got := c.Status(2); got != StatusReady {
		t.Errorf("Status(2) = %v, want ready for retry", got)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{responses: []*llm.ModelResponse{response("one", 0.01)}}
	c := New(gen)

	if err := c.Start(context.Background(), "seed", StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}
	c.Reset()

	if c.Stage() != 1 {
		t.Errorf("Stage = %d, want 1", c.Stage())
	}
	if c.Completed() != 0 {
		t.Errorf("Completed = %d, want 0", c.Completed())
	}
	if c.Seed() != "" {
		t.Errorf("Seed = %q, want empty", c.Seed())
	}
}

func TestStart_RestartDiscardsEarlierRun(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{responses: []*llm.ModelResponse{
		response("one", 0),
		response("two", 0),
		response("fresh one", 0),
	}}
	c := New(gen)

	ctx := context.Background()
	if err := c.Start(ctx, "seed", StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}
	if err := c.Continue(ctx, 2, StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}

	if err := c.Start(ctx, "new seed", StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}

	if c.Completed() != 1 {
		t.Errorf("Completed = %d, want 1 after restart", c.Completed())
	}
	if _, ok := c.Response(2); ok {
		t.Error("restart must discard stage 2")
	}
	r, _ := c.Response(1)
	if r.Content != "fresh one" {
		t.Errorf("stage 1 = %q, want fresh run's output", r.Content)
	}
}

// The skipped status is unreachable through Start/Continue because both
// are gated on the previous stage, but the state model still represents
// it: this pins down the derivation rather than silently dropping it.
func TestStatus_SkippedStateIsRepresented(t *testing.T) {
	t.Parallel()

	c := New(&stubGenerator{})
	c.stage = 3
	c.responses = map[int]*llm.ModelResponse{1: response("one", 0)}

	if got := c.Status(2); got != StatusSkipped {
		t.Errorf("Status(2) = %v, want skipped", got)
	}
	if got := c.Status(3); got != StatusWaiting {
		t.Errorf("Status(3) = %v, want waiting (no stage 2 output)", got)
	}
	if StatusSkipped.String() != "skipped" {
		t.Errorf("String() = %q", StatusSkipped.String())
	}
}

func TestTotalCost(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{responses: []*llm.ModelResponse{
		response("one", 0.01),
		response("two", 0.02),
	}}
	c := New(gen)

	ctx := context.Background()
	if err := c.Start(ctx, "seed", StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}
	if err := c.Continue(ctx, 2, StageConfig{Model: "GPT-4o"}, 100); err != nil {
		t.Fatal(err)
	}

	total, ok := c.TotalCost()
	if !ok {
		t.Fatal("expected cost to be present")
	}
	if total < 0.0299 || total > 0.0301 {
		t.Errorf("TotalCost = %v, want 0.03", total)
	}

	c.Reset()
	if _, ok := c.TotalCost(); ok {
		t.Error("expected no cost after reset")
	}
}
