package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// View implements tea.Model.
func (m *Model) View() string {
	switch m.state {
	case systemView:
		return m.renderSystem()
	case loadingView:
		return m.renderLoading()
	case responseView:
		return m.renderResponse()
	case adminView:
		return m.renderAdmin()
	case chainView:
		return m.renderChain()
	default:
		return m.renderCompose()
	}
}

func (m *Model) renderHeader() string {
	var models []string
	for i, name := range m.models {
		if i == m.modelIdx {
			models = append(models, selectedModelStyle.Render("["+name+"]"))
		} else {
			models = append(models, subtleStyle.Render(name))
		}
	}
	header := titleStyle.Render("promptlab") + "  " + strings.Join(models, " ")
	return headerStyle.Width(m.width).Render(header)
}

func (m *Model) renderCompose() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	if sys := m.system.Value(); sys != "" {
		b.WriteString(subtleStyle.Render("system: "+truncateLine(sys, m.width-10)) + "\n\n")
	}
	b.WriteString(promptBoxStyle.Render(m.prompt.View()))
	b.WriteString("\n\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("temperature %.1f · max tokens %d", m.temp, m.store.MaxTokens())))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("ctrl+s send · tab/shift+tab model · ctrl+t system prompt · ctrl+up/down temperature · f2 admin · f3 chain · ctrl+c quit"))
	return b.String()
}

func (m *Model) renderSystem() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("System prompt"))
	b.WriteString("\n\n")
	b.WriteString(promptBoxStyle.Render(m.system.View()))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("esc back · ctrl+s send · ctrl+c quit"))
	return b.String()
}

func (m *Model) renderLoading() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s waiting for %s...", m.spin.View(), modelStyle.Render(m.CurrentModel())))
	return b.String()
}

func (m *Model) renderResponse() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc back · ctrl+s retry · ctrl+c quit"))
		return b.String()
	}

	b.WriteString(m.rendered)
	b.WriteString("\n")

	usage := fmt.Sprintf("%s · %d prompt + %d completion = %d tokens",
		modelStyle.Render(m.response.ModelName),
		m.response.Usage.PromptTokens,
		m.response.Usage.CompletionTokens,
		m.response.Usage.TotalTokens)
	if m.response.Cost != nil {
		usage += " · " + costStyle.Render(fmt.Sprintf("$%.6f", *m.response.Cost))
	}
	b.WriteString(subtleStyle.Render(usage))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("esc back · ctrl+n new prompt · tab model · ctrl+s resend · ctrl+c quit"))
	return b.String()
}

// renderMarkdown renders response content for terminal display, falling
// back to the raw text when the renderer cannot be built.
func renderMarkdown(content string, width int) string {
	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

func truncateLine(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if max > 3 && len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// Run starts the TUI program and blocks until the user quits.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
