package mutate

import (
	"strings"
	"time"

	"botnology/internal/model"
)

// Upload describes an incoming file; only its metadata is recorded.
type Upload struct {
	ID   string
	Name string
	Size int64
	Type string
}

// AddFiles prepends one record per upload, newest first. Each record gets its own copy of the
// active project/folder ids so later selection changes or deletions never alter it.
func AddFiles(ws *model.Workspace, uploads []Upload, now time.Time) (Result, error) {
	if ws == nil || len(uploads) == 0 {
		return unchanged()
	}
	added := make([]model.FileRecord, 0, len(uploads))
	for _, u := range uploads {
		if strings.TrimSpace(u.ID) == "" {
			continue
		}
		typ := strings.TrimSpace(u.Type)
		if typ == "" {
			typ = "file"
		}
		size := u.Size
		if size < 0 {
			size = 0
		}
		rec := model.FileRecord{
			ID:        strings.TrimSpace(u.ID),
			Name:      strings.TrimSpace(u.Name),
			Size:      size,
			Type:      typ,
			ProjectID: model.CopyID(ws.ActiveProjectID),
			FolderID:  model.CopyID(ws.ActiveFolderID),
			Added:     now.UTC(),
		}
		// Prepend in upload order: the last upload ends up first.
		added = append([]model.FileRecord{rec}, added...)
	}
	if len(added) == 0 {
		return unchanged()
	}
	ws.Files = append(added, ws.Files...)
	return Result{Changed: true}, nil
}

func RemoveFile(ws *model.Workspace, id string) (Result, error) {
	id = strings.TrimSpace(id)
	if ws == nil {
		return unchanged()
	}
	out := ws.Files[:0:0]
	for _, f := range ws.Files {
		if f.ID != id {
			out = append(out, f)
		}
	}
	if len(out) == len(ws.Files) {
		return unchanged()
	}
	ws.Files = out
	return Result{Changed: true}, nil
}
