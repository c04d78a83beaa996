// Package workspace owns the single workspace document handle. Every mutation is applied to a
// copy, persisted as a whole document and only then swapped in, after which all registered
// refresh callbacks run.
package workspace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"botnology/internal/model"
	"botnology/internal/mutate"
	"botnology/internal/store"

	"github.com/rs/zerolog"
)

// View is what refresh callbacks receive: copies that are safe to keep.
type View struct {
	Workspace  model.Workspace
	Transcript []model.ChatTurn
}

type RefreshFunc func(View)

type Manager struct {
	mu        sync.Mutex
	store     store.Store
	log       zerolog.Logger
	ws        *model.Workspace
	turns     []model.ChatTurn
	listeners []RefreshFunc

	now func() time.Time
}

// Open loads (or seeds) the document and transcript from s.
func Open(ctx context.Context, s store.Store, log zerolog.Logger) (*Manager, error) {
	ws, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	turns, err := s.LoadTranscript(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	return &Manager{
		store: s,
		log:   log.With().Str("component", "workspace").Logger(),
		ws:    ws,
		turns: turns,
		now:   time.Now,
	}, nil
}

func (m *Manager) Store() store.Store { return m.store }

// OnChange registers a refresh callback. Callbacks run in registration order after every
// persisted change, before the mutating call returns.
func (m *Manager) OnChange(fn RefreshFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Manager) Workspace() model.Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ws.Clone()
}

func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

func (m *Manager) viewLocked() View {
	return View{
		Workspace:  m.ws.Clone(),
		Transcript: append([]model.ChatTurn(nil), m.turns...),
	}
}

// Snapshot is the current {project, folder, plan} context.
func (m *Manager) Snapshot() model.ContextSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ws.Snapshot()
}

// apply runs fn against a copy of the document; the copy is persisted and published only when
// fn reports a change.
func (m *Manager) apply(ctx context.Context, op string, fn func(ws *model.Workspace) (mutate.Result, error)) (mutate.Result, error) {
	m.mu.Lock()
	next := m.ws.Clone()
	res, err := fn(&next)
	if err != nil || !res.Changed {
		m.mu.Unlock()
		if err == nil {
			m.log.Debug().Str("op", op).Msg("no change")
		}
		return res, err
	}
	if err := m.store.Save(ctx, &next); err != nil {
		m.mu.Unlock()
		m.log.Error().Err(err).Str("op", op).Msg("persist failed")
		return mutate.Result{}, fmt.Errorf("%s: save: %w", op, err)
	}
	m.ws = &next
	m.mu.Unlock()

	m.log.Debug().Str("op", op).Str("id", res.ID).Msg("applied")
	m.notify()
	return res, nil
}

func (m *Manager) notify() {
	m.mu.Lock()
	view := m.viewLocked()
	fns := append([]RefreshFunc(nil), m.listeners...)
	m.mu.Unlock()
	for _, fn := range fns {
		fn(view)
	}
}

func (m *Manager) CreateProject(ctx context.Context, name string) (mutate.Result, error) {
	if strings.TrimSpace(name) == "" {
		return mutate.Result{}, nil
	}
	id, err := store.NewID("proj")
	if err != nil {
		return mutate.Result{}, err
	}
	return m.apply(ctx, "project.create", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.CreateProject(ws, id, name)
	})
}

func (m *Manager) RenameProject(ctx context.Context, id, name string) (mutate.Result, error) {
	return m.apply(ctx, "project.rename", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.RenameProject(ws, id, name)
	})
}

func (m *Manager) SetProjectStatus(ctx context.Context, id, status string) (mutate.Result, error) {
	return m.apply(ctx, "project.status", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.SetProjectStatus(ws, id, status)
	})
}

func (m *Manager) DeleteProject(ctx context.Context, id string) (mutate.Result, error) {
	return m.apply(ctx, "project.delete", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.DeleteProject(ws, id)
	})
}

func (m *Manager) SelectProject(ctx context.Context, id string) (mutate.Result, error) {
	return m.apply(ctx, "project.select", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.SelectProject(ws, id)
	})
}

func (m *Manager) CreateFolder(ctx context.Context, name string) (mutate.Result, error) {
	if strings.TrimSpace(name) == "" {
		return mutate.Result{}, nil
	}
	id, err := store.NewID("fold")
	if err != nil {
		return mutate.Result{}, err
	}
	return m.apply(ctx, "folder.create", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.CreateFolder(ws, id, name)
	})
}

func (m *Manager) RenameFolder(ctx context.Context, id, name string) (mutate.Result, error) {
	return m.apply(ctx, "folder.rename", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.RenameFolder(ws, id, name)
	})
}

func (m *Manager) DeleteFolder(ctx context.Context, id string) (mutate.Result, error) {
	return m.apply(ctx, "folder.delete", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.DeleteFolder(ws, id)
	})
}

func (m *Manager) SelectFolder(ctx context.Context, id string) (mutate.Result, error) {
	return m.apply(ctx, "folder.select", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.SelectFolder(ws, id)
	})
}

// AddFiles records upload metadata; uploads without an id get a fresh one.
func (m *Manager) AddFiles(ctx context.Context, uploads []mutate.Upload) (mutate.Result, error) {
	prepared := make([]mutate.Upload, 0, len(uploads))
	for _, u := range uploads {
		if strings.TrimSpace(u.ID) == "" {
			id, err := store.NewID("file")
			if err != nil {
				return mutate.Result{}, err
			}
			u.ID = id
		}
		prepared = append(prepared, u)
	}
	now := m.now()
	return m.apply(ctx, "files.add", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.AddFiles(ws, prepared, now)
	})
}

func (m *Manager) RemoveFile(ctx context.Context, id string) (mutate.Result, error) {
	return m.apply(ctx, "files.remove", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.RemoveFile(ws, id)
	})
}

func (m *Manager) SetPlan(ctx context.Context, plan string) (mutate.Result, error) {
	return m.apply(ctx, "settings.plan", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.SetPlan(ws, plan)
	})
}

// SetStudentName updates the document and the display-name override together.
func (m *Manager) SetStudentName(ctx context.Context, name string) (mutate.Result, error) {
	res, err := m.apply(ctx, "settings.name", func(ws *model.Workspace) (mutate.Result, error) {
		return mutate.SetStudentName(ws, name)
	})
	if err != nil || !res.Changed {
		return res, err
	}
	if err := m.store.SetDisplayName(ctx, name); err != nil {
		return res, fmt.Errorf("settings.name: save override: %w", err)
	}
	return res, nil
}

// Import replaces the document with an exported one and refreshes every view.
func (m *Manager) Import(ctx context.Context, b []byte) error {
	ws, err := m.store.Import(ctx, b)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.ws = ws
	m.mu.Unlock()
	m.log.Info().Int("projects", len(ws.Projects)).Int("files", len(ws.Files)).Msg("imported workspace")
	m.notify()
	return nil
}

// ClearAll wipes the document, transcript and name override, then reseeds the demo document.
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	ws, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("clear: reseed: %w", err)
	}
	m.mu.Lock()
	m.ws = ws
	m.turns = []model.ChatTurn{}
	m.mu.Unlock()
	m.log.Info().Msg("cleared local data")
	m.notify()
	return nil
}
