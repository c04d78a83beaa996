package render

import (
	"strings"

	"botnology/internal/model"

	"github.com/charmbracelet/lipgloss"
)

type BadgeKind int

const (
	BadgeNeutral BadgeKind = iota
	BadgeOK
	BadgeWarn
)

// KindForStatus maps a project status to its badge: ACTIVE is ok, NEEDS LOVE is a warning and
// every other label is neutral.
func KindForStatus(status string) BadgeKind {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case model.StatusActive:
		return BadgeOK
	case model.StatusNeedsLove:
		return BadgeWarn
	default:
		return BadgeNeutral
	}
}

func (k BadgeKind) String() string {
	switch k {
	case BadgeOK:
		return "ok"
	case BadgeWarn:
		return "warn"
	default:
		return "neutral"
	}
}

func StatusBadge(status string) string {
	label := strings.TrimSpace(status)
	if label == "" {
		label = "-"
	}
	st := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	switch KindForStatus(status) {
	case BadgeOK:
		st = st.Background(colorOK).Foreground(colorOnBadge)
	case BadgeWarn:
		st = st.Background(colorWarn).Foreground(colorOnBadge)
	default:
		st = st.Foreground(colorMuted).Border(lipgloss.NormalBorder(), false, true).BorderForeground(colorBorder).Padding(0)
	}
	return st.Render(label)
}
