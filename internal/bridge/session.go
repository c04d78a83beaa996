// Package bridge connects the dashboard to its external collaborators: the auth provider's
// session, the API health probe and the hosted checkout.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const SessionFileName = "session.json"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is what the auth provider hands back after sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	User         User   `json:"user"`
}

func (s *Session) Expired(now time.Time) bool {
	if s == nil || strings.TrimSpace(s.AccessToken) == "" {
		return true
	}
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}

// SessionFile persists a Session as JSON with owner-only permissions.
type SessionFile struct {
	Path string
}

func SessionFileIn(dir string) SessionFile {
	return SessionFile{Path: filepath.Join(dir, SessionFileName)}
}

// Load returns nil (and no error) when no usable session file exists.
func (f SessionFile) Load() (*Session, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		// Best-effort; if corrupted, treat as signed out.
		return nil, nil
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return nil, nil
	}
	return &s, nil
}

func (f SessionFile) Save(s Session) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (f SessionFile) Remove() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
