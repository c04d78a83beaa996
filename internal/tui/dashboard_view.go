package tui

import (
	"strings"

	"botnology/internal/render"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

var (
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func (m appModel) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	ws := m.view.Workspace

	var b strings.Builder
	b.WriteString(m.headerLine(width))
	b.WriteString("\n")
	b.WriteString(render.HeroCards(ws, width))
	b.WriteString("\n")

	leftW := max(width/2-2, 28)
	rightW := max(width-leftW-6, 28)

	var left strings.Builder
	left.WriteString(render.TabBar(m.tab))
	left.WriteString("\n\n")
	switch {
	case m.focus == focusPicker:
		left.WriteString(m.picker.View())
	case m.tab == render.TabSettings:
		left.WriteString(render.WorkspaceTab(ws, m.tab, leftW, m.now()))
	case len(m.list.Items()) == 0:
		left.WriteString(render.WorkspaceTab(ws, m.tab, leftW, m.now()))
	default:
		left.WriteString(m.list.View())
	}
	if m.focus == focusPrompt {
		left.WriteString("\n\n")
		left.WriteString(m.prompt.View())
	}

	var right strings.Builder
	right.WriteString(render.TutorContext(ws))
	right.WriteString("\n\n")
	right.WriteString(m.viewport.View())
	right.WriteString("\n")
	right.WriteString(m.chat.View())

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Width(leftW).Render(left.String()),
		paneStyle.Width(rightW).Render(right.String()),
	))
	b.WriteString("\n")
	if m.flash != "" {
		b.WriteString(flashStyle().Render(clip(m.flash, width)))
		b.WriteString("\n")
	}
	b.WriteString(m.footer(width))
	return b.String()
}

func (m appModel) headerLine(width int) string {
	ws := m.view.Workspace
	status := "Checking…"
	if m.healthKnown {
		status = m.health.Label() + " · " + m.health.Service()
	}
	parts := []string{
		headerStyle.Render("Botnology"),
		ws.StudentName,
		string(ws.Plan),
		"Tutor: " + status,
	}
	if m.user != "" {
		parts = append(parts, mutedStyle.Render(m.user))
	}
	return clip(strings.Join(parts, "  ·  "), width)
}

func (m appModel) footer(width int) string {
	h := help.New()
	h.Width = width
	if m.focus == focusChat {
		return mutedStyle.Render("enter send · pgup/pgdn scroll · esc back")
	}
	if m.focus == focusPrompt {
		return mutedStyle.Render("enter save · esc cancel")
	}
	return h.ShortHelpView(m.keys.footerBindings(string(m.tab)))
}

// clip cuts s to width columns, ANSI-aware.
func clip(s string, width int) string {
	if width <= 1 || xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Truncate(s, width-1, "…")
}
