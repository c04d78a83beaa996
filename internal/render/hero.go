package render

import (
	"strings"

	"botnology/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// HeroCardLimit is how many projects the summary strip shows.
const HeroCardLimit = 3

// HeroCards renders the first HeroCardLimit projects side by side. The active project gets
// the strong border.
func HeroCards(ws model.Workspace, width int) string {
	if len(ws.Projects) == 0 {
		return styleMuted().Render("No projects yet. Create one to get started.")
	}
	n := len(ws.Projects)
	if n > HeroCardLimit {
		n = HeroCardLimit
	}
	if width <= 0 {
		width = 80
	}
	cardW := width/HeroCardLimit - 2
	if cardW < 16 {
		cardW = 16
	}

	activeID := ""
	if ws.ActiveProjectID != nil {
		activeID = *ws.ActiveProjectID
	}

	cards := make([]string, 0, n)
	for _, p := range ws.Projects[:n] {
		inner := cardW - 4
		name := xansi.Truncate(p.Name, inner, "…")
		body := strings.Join([]string{
			styleHeading().Render(name),
			StatusBadge(p.Status),
			styleMuted().Render("Updated " + p.Updated),
		}, "\n")

		border := colorBorder
		if p.ID == activeID {
			border = colorActive
		}
		cards = append(cards, lipgloss.NewStyle().
			Width(cardW-2).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}
