// Package tui is the interactive dashboard: hero cards, workspace tabs and the tutor panel.
package tui

import (
	"time"

	"botnology/internal/bridge"
	"botnology/internal/render"
	"botnology/internal/tutor"
	"botnology/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type Options struct {
	Manager *workspace.Manager
	Client  *tutor.Client
	Opener  bridge.Opener
	// User is shown in the header (the signed-in email).
	User           string
	HealthInterval time.Duration
	Log            zerolog.Logger
}

func Run(opts Options) error {
	render.ApplyColorProfile()
	render.ApplyTheme()
	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
