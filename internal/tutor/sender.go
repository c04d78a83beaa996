package tutor

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"botnology/internal/model"
)

// ErrBusy is returned while a previous message is still in flight.
var ErrBusy = errors.New("a message is already being sent")

// Conversation is the transcript the sender reads from and appends to.
type Conversation interface {
	Snapshot() model.ContextSnapshot
	History() []model.ChatTurn
	AppendTurn(ctx context.Context, role model.Role, text string, snap model.ContextSnapshot) error
}

type Chatter interface {
	Chat(ctx context.Context, history []model.ChatTurn, text string, snap model.ContextSnapshot) (string, error)
}

// Sender allows one chat request at a time.
type Sender struct {
	Chat Chatter
	Conv Conversation

	busy atomic.Bool
}

func (s *Sender) Busy() bool { return s.busy.Load() }

// Send records the user turn, asks the tutor and records the reply. Failed requests are
// returned to the caller and leave only the user turn in the transcript. A blank message is
// ignored.
func (s *Sender) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if !s.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer s.busy.Store(false)

	snap := s.Conv.Snapshot()
	history := s.Conv.History()
	if err := s.Conv.AppendTurn(ctx, model.RoleUser, text, snap); err != nil {
		return "", err
	}
	reply, err := s.Chat.Chat(ctx, history, text, snap)
	if err != nil {
		return "", err
	}
	if err := s.Conv.AppendTurn(ctx, model.RoleAssistant, reply, snap); err != nil {
		return reply, err
	}
	return reply, nil
}
