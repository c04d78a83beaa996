package store

import (
	"context"
	"encoding/json"
	"strings"

	"botnology/internal/model"
)

// LoadTranscript returns the persisted chat turns. Missing or undecodable data reads as empty.
func (s Store) LoadTranscript(ctx context.Context) ([]model.ChatTurn, error) {
	raw, ok, err := s.Get(ctx, KeyChat)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.ChatTurn{}, nil
	}
	var turns []model.ChatTurn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return []model.ChatTurn{}, nil
	}
	if turns == nil {
		turns = []model.ChatTurn{}
	}
	return turns, nil
}

func (s Store) SaveTranscript(ctx context.Context, turns []model.ChatTurn) error {
	if turns == nil {
		turns = []model.ChatTurn{}
	}
	b, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	return s.Put(ctx, KeyChat, string(b))
}

// SetDisplayName stores the display-name override; an empty name removes it.
func (s Store) SetDisplayName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.Delete(ctx, KeyName)
	}
	return s.Put(ctx, KeyName, name)
}

// Clear removes the workspace document, the transcript and the display-name override.
func (s Store) Clear(ctx context.Context) error {
	return s.Delete(ctx, KeyState, KeyChat, KeyName)
}
