// Package render turns a workspace document into terminal text. Every function here is a pure
// projection of its inputs, so callers may re-run all of them after any change.
package render

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The dashboard must stay readable on light and dark backgrounds, so colors are adaptive and
// "faint" is only applied on dark ones.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted   lipgloss.TerminalColor = ac("240", "243")
	colorSurface lipgloss.TerminalColor = ac("235", "252")
	colorBorder  lipgloss.TerminalColor = ac("250", "243")
	colorActive  lipgloss.TerminalColor = ac("232", "255")
	colorAccent  lipgloss.TerminalColor = ac("27", "62")
	colorOK      lipgloss.TerminalColor = ac("28", "42")
	colorWarn    lipgloss.TerminalColor = ac("166", "214")
	colorError   lipgloss.TerminalColor = ac("160", "203")
	colorOnBadge lipgloss.TerminalColor = ac("255", "235")
	colorUserBg  lipgloss.TerminalColor = ac("254", "236")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeading() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurface)
}

// ApplyColorProfile sets the color profile for the dashboard. Only NO_COLOR is honored;
// CLICOLOR handling would otherwise disable colors inside the full-screen program.
func ApplyColorProfile() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// ApplyTheme picks the background variant.
//
// Priority: BOTNOLOGY_TUI_THEME=light|dark|auto, then the COLORFGBG "fg;bg" heuristic.
func ApplyTheme() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("BOTNOLOGY_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}

func markdownStyleName() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
