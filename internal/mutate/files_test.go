package mutate

import (
	"testing"
	"time"

)

func TestAddFiles_SnapshotsActiveContext(t *testing.T) {
	t.Parallel()

	ws := newTestWorkspace()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	if _, err := AddFiles(ws, []Upload{{ID: "file-1", Name: "notes.pdf", Size: 10, Type: "application/pdf"}}, now); err != nil {
		t.Fatalf("AddFiles: %v", err)
	}
	if _, err := DeleteProject(ws, "p1"); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, err := SelectFolder(ws, "f2"); err != nil {
		t.Fatalf("SelectFolder: %v", err)
	}

	f, ok := ws.FindFile("file-1")
	if !ok {
		t.Fatalf("file not found")
	}
	if f.ProjectID == nil || *f.ProjectID != "p1" {
		t.Fatalf("expected projectId snapshot p1; got %v", f.ProjectID)
	}
	if f.FolderID == nil || *f.FolderID != "f1" {
		t.Fatalf("expected folderId snapshot f1; got %v", f.FolderID)
	}
	if !f.Added.Equal(now) {
		t.Fatalf("expected added=%v; got %v", now, f.Added)
	}
}

func TestAddFiles_NewestFirstAndDefaults(t *testing.T) {
	t.Parallel()

	ws := newTestWorkspace()
	ws.ActiveProjectID = nil
	now := time.Now()

	if _, err := AddFiles(ws, []Upload{{ID: "file-old", Name: "old"}}, now); err != nil {
		t.Fatalf("AddFiles: %v", err)
	}
	if _, err := AddFiles(ws, []Upload{{ID: "file-a", Name: "a", Size: -5}, {ID: "file-b", Name: "b"}}, now); err != nil {
		t.Fatalf("AddFiles: %v", err)
	}

	var ids []string
	for _, f := range ws.Files {
		ids = append(ids, f.ID)
	}
	want := []string{"file-b", "file-a", "file-old"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("unexpected order: %v (want %v)", ids, want)
		}
	}
	a, _ := ws.FindFile("file-a")
	if a.Type != "file" || a.Size != 0 || a.ProjectID != nil {
		t.Fatalf("unexpected defaults: %+v", a)
	}
}

func TestRemoveFile(t *testing.T) {
	t.Parallel()

	ws := newTestWorkspace()
	_, _ = AddFiles(ws, []Upload{{ID: "file-1", Name: "a"}, {ID: "file-2", Name: "b"}}, time.Now())

	if res, _ := RemoveFile(ws, "file-1"); !res.Changed {
		t.Fatalf("expected change")
	}
	if _, ok := ws.FindFile("file-1"); ok {
		t.Fatalf("file-1 still present")
	}
	if res, _ := RemoveFile(ws, "file-1"); res.Changed {
		t.Fatalf("second removal should be a no-op")
	}
	if len(ws.Files) != 1 {
		t.Fatalf("expected 1 file; got %d", len(ws.Files))
	}
}
