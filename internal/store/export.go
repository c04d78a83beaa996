package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"botnology/internal/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Export returns the current document as indented JSON (the downloadable export format).
func (s Store) Export(ctx context.Context) ([]byte, error) {
	ws, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(ws, "", "  ")
}

// ExportToFile writes the export to path via temp file + rename.
func (s Store) ExportToFile(ctx context.Context, path string) error {
	path = filepath.Clean(strings.TrimSpace(path))
	if path == "" || path == "." {
		return errors.New("export: missing path")
	}
	b, err := s.Export(ctx)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(dir, filepath.Base(path)+".*.tmp", path, append(b, '\n'), 0o644)
}

// Import replaces the stored document with the given export. The document is validated and
// normalized before anything is written.
func (s Store) Import(ctx context.Context, b []byte) (*model.Workspace, error) {
	var ws model.Workspace
	if err := json.Unmarshal(b, &ws); err != nil {
		return nil, fmt.Errorf("import: invalid json: %w", err)
	}
	if err := validateWorkspace(&ws); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	normalizeWorkspace(&ws)
	if err := s.Save(ctx, &ws); err != nil {
		return nil, err
	}
	// The imported name wins over any previous override.
	if err := s.SetDisplayName(ctx, ws.StudentName); err != nil {
		return nil, err
	}
	return &ws, nil
}

func validateWorkspace(ws *model.Workspace) error {
	seen := map[string]bool{}
	unique := validation.By(func(v any) error {
		id, _ := v.(string)
		if seen[id] {
			return fmt.Errorf("duplicate id %s", id)
		}
		seen[id] = true
		return nil
	})
	for i := range ws.Projects {
		p := &ws.Projects[i]
		if err := validation.ValidateStruct(p,
			validation.Field(&p.ID, validation.Required, unique),
			validation.Field(&p.Name, validation.Required, validation.By(notBlank)),
		); err != nil {
			return fmt.Errorf("project %d: %w", i, err)
		}
	}
	for i := range ws.Folders {
		f := &ws.Folders[i]
		if err := validation.ValidateStruct(f,
			validation.Field(&f.ID, validation.Required, unique),
			validation.Field(&f.Name, validation.Required, validation.By(notBlank)),
		); err != nil {
			return fmt.Errorf("folder %d: %w", i, err)
		}
	}
	for i := range ws.Files {
		f := &ws.Files[i]
		if err := validation.ValidateStruct(f,
			validation.Field(&f.ID, validation.Required, unique),
			validation.Field(&f.Size, validation.Min(int64(0))),
		); err != nil {
			return fmt.Errorf("file %d: %w", i, err)
		}
	}
	return nil
}

func notBlank(v any) error {
	s, _ := v.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
