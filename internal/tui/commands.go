package tui

import (
	"context"
	"time"

	"botnology/internal/bridge"
	"botnology/internal/tutor"

	tea "github.com/charmbracelet/bubbletea"
)

type chatDoneMsg struct {
	reply string
	err   error
}

type healthMsg struct{ health bridge.Health }

type healthTickMsg struct{}

type checkoutDoneMsg struct {
	url string
	err error
}

type copiedMsg struct{ err error }

func sendChatCmd(s *tutor.Sender, text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := s.Send(context.Background(), text)
		return chatDoneMsg{reply: reply, err: err}
	}
}

func checkHealthCmd(c *tutor.Client) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		return healthMsg{health: bridge.CheckHealth(context.Background(), c)}
	}
}

func healthTickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg { return healthTickMsg{} })
}

func checkoutCmd(c *tutor.Client, plan string, open bridge.Opener) tea.Cmd {
	return func() tea.Msg {
		url, err := bridge.Checkout(context.Background(), c, plan, open)
		return checkoutDoneMsg{url: url, err: err}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: copyToClipboard(text)}
	}
}

