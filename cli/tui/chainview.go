package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/promptlab-hq/promptlab/core/chain"
)

func (m *Model) handleChainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.chainBusy {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		m.state = composeView
		m.seed.Blur()
		return m, m.prompt.Focus()

	case key.Matches(msg, keys.Admin):
		m.state = adminView
		m.seed.Blur()
		return m, nil

	case key.Matches(msg, keys.Reset):
		m.chainCtl.Reset()
		m.opErr = nil
		return m, nil

	case key.Matches(msg, keys.NextModel):
		m.cycleModel(1)
		return m, nil

	case key.Matches(msg, keys.PrevModel):
		m.cycleModel(-1)
		return m, nil

	case key.Matches(msg, keys.Send):
		return m.runChainStage()
	}

	var cmd tea.Cmd
	m.seed, cmd = m.seed.Update(msg)
	return m, cmd
}

// runChainStage runs the current ready stage: Start for stage 1 with
// the seed text, Continue for later stages.
func (m *Model) runChainStage() (tea.Model, tea.Cmd) {
	stage := m.chainCtl.Stage()
	if m.chainCtl.Status(stage) != chain.StatusReady {
		return m, nil
	}

	cfg := chain.StageConfig{
		Model:        m.CurrentModel(),
		Temperature:  m.temp,
		SystemPrompt: m.system.Value(),
	}
	maxTokens := m.store.MaxTokens()

	m.chainBusy = true
	m.opErr = nil

	ctl := m.chainCtl
	seed := m.seed.Value()
	return m, tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			var err error
			if stage == 1 {
				err = ctl.Start(context.Background(), seed, cfg, maxTokens)
			} else {
				err = ctl.Continue(context.Background(), stage, cfg, maxTokens)
			}
			return chainMsg{err: err}
		},
	)
}

func (m *Model) renderChain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Prompt chain"))
	b.WriteString("\n\n")

	for stage := 1; stage <= chain.Stages; stage++ {
		status := m.chainCtl.Status(stage)
		label := fmt.Sprintf("stage %d", stage)
		line := fmt.Sprintf("%s %s", stageGlyph(status), label)
		if status == chain.StatusReady {
			line = selectedModelStyle.Render(line)
		} else {
			line = subtleStyle.Render(line)
		}
		b.WriteString(line + "\n")
		if resp, ok := m.chainCtl.Response(stage); ok {
			b.WriteString(indent(truncateLine(resp.Content, m.width-8), 4) + "\n")
		}
	}

	if total, ok := m.chainCtl.TotalCost(); ok {
		b.WriteString("\n" + costStyle.Render(fmt.Sprintf("total cost: $%.6f", total)) + "\n")
	}

	if m.chainBusy {
		b.WriteString(fmt.Sprintf("\n%s running stage %d...\n", m.spin.View(), m.chainCtl.Stage()))
	}
	if m.opErr != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.opErr.Error()) + "\n")
	}

	if m.chainCtl.Stage() == 1 {
		b.WriteString("\n")
		b.WriteString(promptBoxStyle.Render(m.seed.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("ctrl+s run stage · tab model · ctrl+r reset · esc back · ctrl+c quit"))
	return b.String()
}

func stageGlyph(status chain.StageStatus) string {
	switch status {
	case chain.StatusDone:
		return "●"
	case chain.StatusReady:
		return "▶"
	case chain.StatusSkipped:
		return "○"
	default:
		return "·"
	}
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}
