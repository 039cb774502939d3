// Package tui provides an interactive terminal playground for running
// prompts against the model registry using the Bubble Tea framework.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/promptlab-hq/promptlab/core"
	"github.com/promptlab-hq/promptlab/core/chain"
	"github.com/promptlab-hq/promptlab/core/registry"
	"github.com/promptlab-hq/promptlab/core/settings"
	"github.com/promptlab-hq/promptlab/llm"
)

type viewState int

const (
	composeView viewState = iota
	systemView
	loadingView
	responseView
	adminView
	chainView
)

// completionMsg carries the result of an async completion call.
type completionMsg struct {
	resp *llm.ModelResponse
	err  error
}

// chainMsg carries the result of an async chain stage run.
type chainMsg struct {
	err error
}

// Generator is the completion surface the TUI drives; satisfied by
// *llm.Client.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.ModelResponse, error)
}

// Model is the root Bubble Tea model for the playground TUI.
type Model struct {
	state viewState

	gen      Generator
	reg      *registry.Registry
	store    *settings.Store
	models   []string
	modelIdx int
	temp     float64

	prompt   textarea.Model
	system   textarea.Model
	spin     spinner.Model
	response *llm.ModelResponse
	rendered string
	err      error

	adminCursor int

	chainCtl  *chain.Controller
	seed      textarea.Model
	chainBusy bool
	opErr     error

	width  int
	height int
}

// New creates a playground Model over the given generator, registry,
// and settings store.
func New(gen Generator, reg *registry.Registry, store *settings.Store) *Model {
	prompt := textarea.New()
	prompt.Placeholder = "Ask something..."
	prompt.Focus()
	prompt.SetHeight(5)

	system := textarea.New()
	system.Placeholder = "Optional system prompt..."
	system.SetHeight(3)

	seed := textarea.New()
	seed.Placeholder = "Seed prompt for stage 1..."
	seed.SetHeight(3)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		state:    composeView,
		gen:      gen,
		reg:      reg,
		store:    store,
		models:   reg.Names(),
		temp:     core.DefaultTemperature,
		prompt:   prompt,
		system:   system,
		seed:     seed,
		spin:     spin,
		chainCtl: chain.New(gen),
		width:    80,
		height:   24,
	}
}

// CurrentModel returns the display name of the selected model.
func (m *Model) CurrentModel() string {
	if len(m.models) == 0 {
		return ""
	}
	return m.models[m.modelIdx]
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.SetWidth(msg.Width - 4)
		m.system.SetWidth(msg.Width - 4)
		m.seed.SetWidth(msg.Width - 4)
		if m.response != nil {
			m.rendered = renderMarkdown(m.response.Content, m.width)
		}
		return m, nil

	case completionMsg:
		m.state = responseView
		m.response = msg.resp
		m.err = msg.err
		if msg.resp != nil {
			m.rendered = renderMarkdown(msg.resp.Content, m.width)
		}
		return m, nil

	case chainMsg:
		m.chainBusy = false
		m.opErr = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.state == loadingView || m.chainBusy {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	switch m.state {
	case composeView:
		return m.handleComposeKey(msg)
	case systemView:
		return m.handleSystemKey(msg)
	case responseView:
		return m.handleResponseKey(msg)
	case adminView:
		return m.handleAdminKey(msg)
	case chainView:
		return m.handleChainKey(msg)
	case loadingView:
		// Input is ignored while a request is in flight.
		return m, nil
	}
	return m, nil
}

func (m *Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Send):
		return m.send()

	case key.Matches(msg, keys.NextModel):
		m.cycleModel(1)
		return m, nil

	case key.Matches(msg, keys.PrevModel):
		m.cycleModel(-1)
		return m, nil

	case key.Matches(msg, keys.EditSys):
		m.state = systemView
		m.prompt.Blur()
		return m, m.system.Focus()

	case key.Matches(msg, keys.TempUp):
		m.adjustTemperature(tempStep)
		return m, nil

	case key.Matches(msg, keys.TempDown):
		m.adjustTemperature(-tempStep)
		return m, nil

	case key.Matches(msg, keys.Admin):
		m.state = adminView
		m.prompt.Blur()
		return m, nil

	case key.Matches(msg, keys.Chain):
		m.state = chainView
		m.prompt.Blur()
		return m, m.seed.Focus()
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) handleSystemKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.state = composeView
		m.system.Blur()
		return m, m.prompt.Focus()

	case key.Matches(msg, keys.Send):
		return m.send()
	}

	var cmd tea.Cmd
	m.system, cmd = m.system.Update(msg)
	return m, cmd
}

func (m *Model) handleResponseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Clear):
		m.state = composeView
		if key.Matches(msg, keys.Clear) {
			m.prompt.Reset()
			m.response = nil
			m.rendered = ""
			m.err = nil
		}
		return m, m.prompt.Focus()

	case key.Matches(msg, keys.Send):
		return m.send()

	case key.Matches(msg, keys.NextModel):
		m.cycleModel(1)
		return m, nil

	case key.Matches(msg, keys.PrevModel):
		m.cycleModel(-1)
		return m, nil
	}
	return m, nil
}

// tempStep is the increment for temperature adjustment.
const tempStep = 0.1

func (m *Model) adjustTemperature(delta float64) {
	next := m.temp + delta
	if next < 0 {
		next = 0
	}
	if next > 2 {
		next = 2
	}
	m.temp = next
}

func (m *Model) cycleModel(delta int) {
	if len(m.models) == 0 {
		return
	}
	m.modelIdx = (m.modelIdx + delta + len(m.models)) % len(m.models)
}

func (m *Model) send() (tea.Model, tea.Cmd) {
	prompt := m.prompt.Value()
	if prompt == "" || len(m.models) == 0 {
		return m, nil
	}

	m.state = loadingView
	m.err = nil

	req := llm.GenerateRequest{
		Model:        m.CurrentModel(),
		SystemPrompt: m.system.Value(),
		UserPrompt:   prompt,
		Temperature:  m.temp,
		MaxTokens:    m.store.MaxTokens(),
	}
	gen := m.gen

	return m, tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			resp, err := gen.Generate(context.Background(), req)
			return completionMsg{resp: resp, err: err}
		},
	)
}
