// Package chain implements the three-stage prompt pipeline: each stage
// feeds its output text into the next, advanced only by explicit user
// action.
package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/promptlab-hq/promptlab/llm"
)

// Stages is the fixed number of pipeline stages.
const Stages = 3

// StageStatus describes one stage of the pipeline.
type StageStatus int

const (
	// StatusWaiting means the stage's input is not yet available.
	StatusWaiting StageStatus = iota
	// StatusReady means the stage can be run next.
	StatusReady
	// StatusDone means the stage has a stored response.
	StatusDone
	// StatusSkipped means the pointer advanced past the stage without a
	// stored response. Gated transitions never produce this; it exists
	// so an inconsistent state is visible rather than silently
	// misreported as waiting.
	StatusSkipped
)

// String returns the status label shown in stage panels.
func (s StageStatus) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusDone:
		return "done"
	case StatusSkipped:
		return "skipped"
	default:
		return "waiting"
	}
}

// StageConfig carries the per-stage model selection, sampling
// temperature, and system prompt.
type StageConfig struct {
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	SystemPrompt string  `json:"system_prompt"`
}

// Generator is the completion surface the controller drives; satisfied
// by *llm.Client.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.ModelResponse, error)
}

// Transition errors.
var (
	// ErrEmptySeed rejects starting the chain with a blank prompt.
	ErrEmptySeed = errors.New("seed prompt must not be empty")
	// ErrStageNotReady rejects continuing to a stage whose predecessor
	// has not completed.
	ErrStageNotReady = errors.New("previous stage has no stored response")
	// ErrStageDone rejects re-running a completed stage; the only way to
	// redo a stage is a full reset.
	ErrStageDone = errors.New("stage already completed")
)

// Controller is the chain state machine. All mutation goes through
// Start, Continue, and Reset; there is no automatic advancement. Not
// safe for concurrent use — each session owns its own controller.
type Controller struct {
	gen Generator

	stage           int
	seed            string
	includeOriginal bool
	responses       map[int]*llm.ModelResponse
}

// New creates a Controller at stage 1 with no stored responses.
func New(gen Generator) *Controller {
	return &Controller{
		gen:       gen,
		stage:     1,
		responses: make(map[int]*llm.ModelResponse),
	}
}

// Stage returns the current stage pointer (1..3).
func (c *Controller) Stage() int {
	return c.stage
}

// Seed returns the original prompt the chain was started with.
func (c *Controller) Seed() string {
	return c.seed
}

// Completed returns how many stages have stored responses.
func (c *Controller) Completed() int {
	return len(c.responses)
}

// Response returns the stored response for a stage, if any.
func (c *Controller) Response(stage int) (*llm.ModelResponse, bool) {
	r, ok := c.responses[stage]
	return r, ok
}

// SetIncludeOriginal controls whether stage 3 prepends the original seed
// prompt to stage 2's output.
func (c *Controller) SetIncludeOriginal(include bool) {
	c.includeOriginal = include
}

// IncludeOriginal reports the stage 3 input option.
func (c *Controller) IncludeOriginal() bool {
	return c.includeOriginal
}

// Status derives the display status of a stage from the stored
// responses and the stage pointer.
func (c *Controller) Status(stage int) StageStatus {
	if _, ok := c.responses[stage]; ok {
		return StatusDone
	}
	if stage == c.stage && c.inputAvailable(stage) {
		return StatusReady
	}
	if stage < c.stage {
		return StatusSkipped
	}
	return StatusWaiting
}

// inputAvailable reports whether the stage's input exists: stage 1 takes
// the user's seed, stage N takes stage N-1's output.
func (c *Controller) inputAvailable(stage int) bool {
	if stage == 1 {
		return true
	}
	_, ok := c.responses[stage-1]
	return ok
}

// Start runs stage 1 with the seed prompt as user input. On success the
// response is stored under stage 1 and the pointer advances to stage 2.
// On failure all state is left unchanged so the user may retry.
func (c *Controller) Start(ctx context.Context, seed string, cfg StageConfig, maxTokens int) error {
	if strings.TrimSpace(seed) == "" {
		return ErrEmptySeed
	}

	resp, err := c.gen.Generate(ctx, llm.GenerateRequest{
		Model:        cfg.Model,
		SystemPrompt: cfg.SystemPrompt,
		UserPrompt:   seed,
		Temperature:  cfg.Temperature,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		return err
	}

	// Starting over discards any earlier run.
	c.responses = map[int]*llm.ModelResponse{1: resp}
	c.seed = seed
	c.stage = 2
	return nil
}

// Continue runs stage 2 or 3, consuming the previous stage's output text
// verbatim as its user input. Stage 3 optionally prepends the original
// seed prompt. On failure all state is left unchanged.
func (c *Controller) Continue(ctx context.Context, stage int, cfg StageConfig, maxTokens int) error {
	if stage < 2 || stage > Stages {
		return fmt.Errorf("stage must be 2..%d, got %d", Stages, stage)
	}
	if _, done := c.responses[stage]; done {
		return ErrStageDone
	}
	prev, ok := c.responses[stage-1]
	if !ok {
		return ErrStageNotReady
	}

	input := prev.Content
	if stage == Stages && c.includeOriginal {
		input = fmt.Sprintf("Original Request:\n%s\n\n---\n\nPrevious Stage Output:\n%s", c.seed, prev.Content)
	}

	resp, err := c.gen.Generate(ctx, llm.GenerateRequest{
		Model:        cfg.Model,
		SystemPrompt: cfg.SystemPrompt,
		UserPrompt:   input,
		Temperature:  cfg.Temperature,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		return err
	}

	c.responses[stage] = resp
	if stage < Stages {
		c.stage = stage + 1
	} else {
		c.stage = Stages
	}
	return nil
}

// Reset discards all stored responses and returns the pointer to
// stage 1.
func (c *Controller) Reset() {
	c.stage = 1
	c.seed = ""
	c.responses = make(map[int]*llm.ModelResponse)
}

// TotalCost sums the cost of all stored responses. The bool reports
// whether any stage carried a cost at all.
func (c *Controller) TotalCost() (float64, bool) {
	var total float64
	var any bool
	for _, r := range c.responses {
		if r.Cost != nil {
			total += *r.Cost
			any = true
		}
	}
	return total, any
}
