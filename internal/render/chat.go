package render

import (
	"strings"

	"botnology/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Greeting is shown in place of an empty transcript.
const Greeting = "Hi, I'm Dr. Botonic. Ask me something."

// TutorContext lists the context sent along with every chat message.
func TutorContext(ws model.Workspace) string {
	snap := ws.Snapshot()
	line := func(label, v string) string {
		if strings.TrimSpace(v) == "" {
			v = "none"
		}
		return styleMuted().Render(label+": ") + v
	}
	return strings.Join([]string{
		line("Project", snap.Project),
		line("Folder", snap.Folder),
		line("Plan", snap.Plan),
	}, "\n")
}

// Transcript renders one bubble per turn, oldest first. Assistant turns go through markdown
// when md is set.
func Transcript(turns []model.ChatTurn, width int, md bool) string {
	if width <= 0 {
		width = 60
	}
	if len(turns) == 0 {
		return assistantBubble(Greeting, width, false)
	}
	out := make([]string, 0, len(turns))
	for _, t := range turns {
		if t.Role == model.RoleUser {
			out = append(out, userBubble(t.Text, width))
			continue
		}
		out = append(out, assistantBubble(t.Text, width, md))
	}
	return strings.Join(out, "\n\n")
}

// ErrorBubble renders a failed request inline, in place of a reply.
func ErrorBubble(msg string, width int) string {
	return lipgloss.NewStyle().
		Foreground(colorError).
		Width(bubbleWidth(width)).
		Render("Error: " + msg)
}

func bubbleWidth(width int) int {
	w := width * 4 / 5
	if w < 20 {
		w = 20
	}
	return w
}

func userBubble(text string, width int) string {
	b := lipgloss.NewStyle().
		Background(colorUserBg).
		Foreground(colorSurface).
		Padding(0, 1).
		Width(bubbleWidth(width)).
		Render(text)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, b)
}

func assistantBubble(text string, width int, md bool) string {
	w := bubbleWidth(width)
	body := text
	if md {
		body = Markdown(text, w-2)
	}
	label := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Dr. Botonic")
	return label + "\n" + lipgloss.NewStyle().Width(w).Render(body)
}
