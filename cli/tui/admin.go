package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// maxTokensStep is the increment for max-token adjustment.
const maxTokensStep = 100

// adminRow identifies one editable row on the admin screen: the model
// visibility toggles first, then the workshop options.
func (m *Model) adminRowCount() int {
	return len(m.models) + 4
}

func (m *Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.state = composeView
		return m, m.prompt.Focus()

	case key.Matches(msg, keys.Chain):
		m.state = chainView
		return m, m.seed.Focus()

	case key.Matches(msg, keys.Up):
		if m.adminCursor > 0 {
			m.adminCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.adminCursor < m.adminRowCount()-1 {
			m.adminCursor++
		}

	case key.Matches(msg, keys.Toggle):
		m.toggleAdminRow()

	case key.Matches(msg, keys.Increase):
		m.adjustMaxTokens(maxTokensStep)

	case key.Matches(msg, keys.Decrease):
		m.adjustMaxTokens(-maxTokensStep)
	}
	return m, nil
}

func (m *Model) toggleAdminRow() {
	if m.adminCursor < len(m.models) {
		name := m.models[m.adminCursor]
		visible := m.store.VisibleModels()
		var next []string
		var removed bool
		for _, v := range visible {
			if v == name {
				removed = true
				continue
			}
			next = append(next, v)
		}
		if !removed {
			next = append(visible, name)
		}
		m.opErr = m.store.SetVisibleModels(next)
		return
	}

	switch m.adminCursor - len(m.models) {
	case 0:
		m.opErr = m.store.SetShowPricing(!m.store.ShowPricing())
	case 1:
		m.opErr = m.store.SetComparisonMode(!m.store.ComparisonMode())
	case 2:
		m.opErr = m.store.SetGeneratePromptEnabled(!m.store.GeneratePromptEnabled())
	}
}

func (m *Model) adjustMaxTokens(delta int) {
	// Only the max-tokens row responds to left/right.
	if m.adminCursor != m.adminRowCount()-1 {
		return
	}
	next := m.store.MaxTokens() + delta
	if next < maxTokensStep {
		next = maxTokensStep
	}
	m.opErr = m.store.SetMaxTokens(next)
}

func (m *Model) renderAdmin() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Workshop settings"))
	b.WriteString("\n\n")

	visible := make(map[string]bool)
	for _, v := range m.store.VisibleModels() {
		visible[v] = true
	}

	for i, name := range m.models {
		check := "[ ]"
		if visible[name] {
			check = "[x]"
		}
		b.WriteString(m.adminLine(i, fmt.Sprintf("%s %s", check, name)))
	}
	b.WriteString("\n")

	base := len(m.models)
	b.WriteString(m.adminLine(base, fmt.Sprintf("%s show pricing", checkbox(m.store.ShowPricing()))))
	b.WriteString(m.adminLine(base+1, fmt.Sprintf("%s comparison mode", checkbox(m.store.ComparisonMode()))))
	b.WriteString(m.adminLine(base+2, fmt.Sprintf("%s prompt generation", checkbox(m.store.GeneratePromptEnabled()))))
	b.WriteString(m.adminLine(base+3, fmt.Sprintf("    max tokens: %d", m.store.MaxTokens())))

	if m.opErr != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.opErr.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("up/dn move · space toggle · left/right max tokens · esc back · ctrl+c quit"))
	return b.String()
}

func (m *Model) adminLine(row int, text string) string {
	if row == m.adminCursor {
		return selectedModelStyle.Render("> "+text) + "\n"
	}
	return "  " + text + "\n"
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
