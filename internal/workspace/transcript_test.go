package workspace

import (
	"context"
	"fmt"
	"testing"

	"botnology/internal/model"
)

func TestAppendTurn_CapsAtMaxAndDropsOldest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	m := openTestManager(t, dir)

	for i := 0; i < model.MaxTranscriptTurns+1; i++ {
		if err := m.AppendTurn(ctx, model.RoleUser, fmt.Sprintf("msg %d", i), m.Snapshot()); err != nil {
			t.Fatalf("AppendTurn %d: %v", i, err)
		}
	}
	h := m.History()
	if len(h) != model.MaxTranscriptTurns {
		t.Fatalf("expected %d turns; got %d", model.MaxTranscriptTurns, len(h))
	}
	if h[0].Text != "msg 1" {
		t.Fatalf("expected oldest turn dropped; first=%q", h[0].Text)
	}
	if h[len(h)-1].Text != fmt.Sprintf("msg %d", model.MaxTranscriptTurns) {
		t.Fatalf("unexpected last turn %q", h[len(h)-1].Text)
	}

	again := openTestManager(t, dir)
	if got := len(again.History()); got != model.MaxTranscriptTurns {
		t.Fatalf("expected persisted cap; got %d", got)
	}
}

func TestAppendTurn_RecordsContextSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := openTestManager(t, t.TempDir())
	snap := m.Snapshot()

	if err := m.AppendTurn(ctx, model.RoleUser, "what is ATP?", snap); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	// Selecting another project afterwards does not rewrite history.
	ws := m.Workspace()
	if _, err := m.SelectProject(ctx, ws.Projects[2].ID); err != nil {
		t.Fatalf("SelectProject: %v", err)
	}
	h := m.History()
	if h[0].Ctx.Project != "Anatomy & Physiology" || h[0].Ctx.Plan != "FREE" {
		t.Fatalf("unexpected snapshot %+v", h[0].Ctx)
	}
	if h[0].TS.IsZero() {
		t.Fatalf("expected timestamp")
	}
}

func TestAppendTurn_IgnoresBlankText(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := openTestManager(t, t.TempDir())
	if err := m.AppendTurn(ctx, model.RoleUser, "  \n", m.Snapshot()); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if len(m.History()) != 0 {
		t.Fatalf("expected blank turn ignored")
	}
}

func TestClearHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	m := openTestManager(t, dir)
	if err := m.AppendTurn(ctx, model.RoleAssistant, "hi", m.Snapshot()); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if err := m.ClearHistory(ctx); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if len(openTestManager(t, dir).History()) != 0 {
		t.Fatalf("expected cleared transcript to persist")
	}
}
