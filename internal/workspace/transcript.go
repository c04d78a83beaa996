package workspace

import (
	"context"
	"fmt"
	"strings"

	"botnology/internal/model"
)

// AppendTurn appends a chat turn, keeps only the most recent model.MaxTranscriptTurns and
// persists the result.
func (m *Manager) AppendTurn(ctx context.Context, role model.Role, text string, snap model.ContextSnapshot) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	m.mu.Lock()
	next := append(append([]model.ChatTurn(nil), m.turns...), model.ChatTurn{
		Role: role,
		Text: text,
		TS:   m.now().UTC(),
		Ctx:  snap,
	})
	if n := len(next) - model.MaxTranscriptTurns; n > 0 {
		next = next[n:]
	}
	if err := m.store.SaveTranscript(ctx, next); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("transcript: save: %w", err)
	}
	m.turns = next
	m.mu.Unlock()

	m.notify()
	return nil
}

// History returns the persisted turns, oldest first.
func (m *Manager) History() []model.ChatTurn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ChatTurn(nil), m.turns...)
}

func (m *Manager) ClearHistory(ctx context.Context) error {
	if err := m.store.SaveTranscript(ctx, nil); err != nil {
		return fmt.Errorf("transcript: clear: %w", err)
	}
	m.mu.Lock()
	m.turns = []model.ChatTurn{}
	m.mu.Unlock()
	m.notify()
	return nil
}
