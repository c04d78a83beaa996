package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"botnology/internal/mutate"

	"github.com/gabriel-vasile/mimetype"
)

// UploadsFromPaths stats local files and sniffs their content type. Directories are rejected.
func UploadsFromPaths(paths []string) ([]mutate.Upload, error) {
	out := make([]mutate.Upload, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		typ := ""
		if mt, err := mimetype.DetectFile(p); err == nil && mt != nil {
			typ = mt.String()
		}
		out = append(out, mutate.Upload{
			Name: filepath.Base(p),
			Size: info.Size(),
			Type: typ,
		})
	}
	return out, nil
}

// AddPaths records metadata for the given local files against the current active context.
func (m *Manager) AddPaths(ctx context.Context, paths []string) (mutate.Result, error) {
	uploads, err := UploadsFromPaths(paths)
	if err != nil {
		return mutate.Result{}, err
	}
	return m.AddFiles(ctx, uploads)
}
