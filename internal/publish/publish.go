// Package publish writes the workspace and transcript as markdown files.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"botnology/internal/model"
)

const (
	WorkspaceFile  = "workspace.md"
	TranscriptFile = "transcript.md"
)

type WriteOptions struct {
	Overwrite bool
	// SkipTranscript writes only the workspace summary.
	SkipTranscript bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

func Write(ws model.Workspace, turns []model.ChatTurn, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	files := []struct {
		name string
		body string
	}{
		{WorkspaceFile, RenderWorkspaceMarkdown(ws)},
	}
	if !opt.SkipTranscript {
		files = append(files, struct {
			name string
			body string
		}{TranscriptFile, RenderTranscriptMarkdown(turns)})
	}

	// Check every target first so a refusal never leaves a half-written export.
	if !opt.Overwrite {
		for _, f := range files {
			p := filepath.Join(toDir, f.name)
			if _, err := os.Stat(p); err == nil {
				return WriteResult{}, errors.New("file exists (use --overwrite): " + p)
			}
		}
	}

	var written []string
	for _, f := range files {
		p := filepath.Join(toDir, f.name)
		if err := os.WriteFile(p, []byte(f.body), 0o644); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}
