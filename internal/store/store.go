package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"botnology/internal/model"
)

// Keys in the local key/value table. They match the web app's storage keys, so exported
// documents interchange.
const (
	KeyState = "bn_state_v1"
	KeyChat  = "bn_chat_v1"
	KeyName  = "bn_name"
)

const sqliteFileName = "local.sqlite"

type Store struct {
	Dir string
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.botnology).
	if v := strings.TrimSpace(os.Getenv("BOTNOLOGY_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".botnology"), nil
}

func NormalizeProfileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("profile name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", errors.New("profile name must be a plain directory name")
	}
	return name, nil
}

// ProfileDir is the store directory for a named profile (one workspace document per profile).
func ProfileDir(name string) (string, error) {
	name, err := NormalizeProfileName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles", name), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// Load returns the workspace document. A missing document is seeded (and persisted); a document
// that cannot be decoded is replaced by the seed after keeping a .bak copy next to the database.
// Only failures of the database itself are returned as errors.
func (s Store) Load(ctx context.Context) (*model.Workspace, error) {
	raw, ok, err := s.Get(ctx, KeyState)
	if err != nil {
		return nil, err
	}

	var ws *model.Workspace
	if ok {
		decoded, derr := decodeWorkspace([]byte(raw))
		if derr == nil {
			ws = decoded
		} else {
			_ = atomicWriteFile(s.Dir, KeyState+".bak.*.tmp", filepath.Join(s.Dir, KeyState+".bak"), []byte(raw), 0o600)
		}
	}
	if ws == nil {
		seeded, err := DefaultWorkspace()
		if err != nil {
			return nil, err
		}
		if err := s.Save(ctx, seeded); err != nil {
			return nil, err
		}
		ws = seeded
	}

	if name, ok, err := s.Get(ctx, KeyName); err == nil && ok && strings.TrimSpace(name) != "" {
		ws.StudentName = strings.TrimSpace(name)
	}
	return ws, nil
}

// Save overwrites the whole document in a single transaction.
func (s Store) Save(ctx context.Context, ws *model.Workspace) error {
	if ws == nil {
		return errors.New("nil workspace")
	}
	b, err := json.Marshal(ws)
	if err != nil {
		return err
	}
	return s.Put(ctx, KeyState, string(b))
}

func decodeWorkspace(b []byte) (*model.Workspace, error) {
	var ws model.Workspace
	if err := json.Unmarshal(b, &ws); err != nil {
		return nil, err
	}
	normalizeWorkspace(&ws)
	return &ws, nil
}

// normalizeWorkspace fills defaults and re-points dangling active references.
func normalizeWorkspace(ws *model.Workspace) {
	if strings.TrimSpace(ws.StudentName) == "" {
		ws.StudentName = model.DefaultStudentName
	}
	if _, ok := model.ParsePlan(string(ws.Plan)); !ok {
		ws.Plan = model.PlanFree
	}
	if ws.Projects == nil {
		ws.Projects = []model.Project{}
	}
	if ws.Folders == nil {
		ws.Folders = []model.Folder{}
	}
	if ws.Files == nil {
		ws.Files = []model.FileRecord{}
	}
	if ws.ActiveProjectID != nil {
		if _, ok := ws.FindProject(*ws.ActiveProjectID); !ok {
			ws.ActiveProjectID = nil
			if len(ws.Projects) > 0 {
				ws.ActiveProjectID = model.IDPtr(ws.Projects[0].ID)
			}
		}
	}
	if ws.ActiveFolderID != nil {
		if _, ok := ws.FindFolder(*ws.ActiveFolderID); !ok {
			ws.ActiveFolderID = nil
			if len(ws.Folders) > 0 {
				ws.ActiveFolderID = model.IDPtr(ws.Folders[0].ID)
			}
		}
	}
}
