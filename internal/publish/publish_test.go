package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"botnology/internal/model"
)

func sampleWorkspace() model.Workspace {
	return model.Workspace{
		StudentName: "Ada",
		Plan:        model.PlanPro,
		Projects: []model.Project{
			{ID: "proj-a", Name: "Calculus II", Status: model.StatusActive, Updated: "now"},
		},
		Folders: []model.Folder{{ID: "fold-a", Name: "Past Papers"}},
		Files: []model.FileRecord{{
			ID: "file-a", Name: "exam|2024.pdf", Size: 2048, Type: "application/pdf",
			ProjectID: model.IDPtr("proj-a"), FolderID: model.IDPtr("fold-gone"),
			Added: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		}},
		ActiveProjectID: model.IDPtr("proj-a"),
		ActiveFolderID:  model.IDPtr("fold-a"),
	}
}

func TestRenderWorkspaceMarkdown(t *testing.T) {
	t.Parallel()

	md := RenderWorkspaceMarkdown(sampleWorkspace())
	for _, want := range []string{
		"# Ada's workspace",
		"- Plan: PRO",
		"- Active project: Calculus II",
		"- Active folder: Past Papers",
		"- Calculus II (ACTIVE, updated now)",
		`| exam\|2024.pdf | 2.0 KiB | application/pdf | Calculus II | fold-gone | 2026-03-01T09:00:00Z |`,
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
}

func TestRenderTranscriptMarkdown(t *testing.T) {
	t.Parallel()

	if md := RenderTranscriptMarkdown(nil); !strings.Contains(md, "No messages yet.") {
		t.Fatalf("expected empty placeholder; got %q", md)
	}

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	md := RenderTranscriptMarkdown([]model.ChatTurn{
		{Role: model.RoleUser, Text: "What is a limit?", TS: ts, Ctx: model.ContextSnapshot{Project: "Calculus II", Plan: "PRO"}},
		{Role: model.RoleAssistant, Text: "A **limit** is ...", TS: ts.Add(time.Minute)},
	})
	for _, want := range []string{
		"## You (2026-03-01T10:00:00Z)",
		"_Project: Calculus II · Plan: PRO_",
		"## Dr. Botonic (2026-03-01T10:01:00Z)",
		"A **limit** is ...",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
}

func TestWrite_RefusesToOverwrite(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	res, err := Write(sampleWorkspace(), nil, dir, WriteOptions{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("expected two files; got %v", res.Written)
	}

	if _, err := Write(sampleWorkspace(), nil, dir, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected overwrite refusal; got %v", err)
	}

	ws := sampleWorkspace()
	ws.StudentName = "Grace"
	if _, err := Write(ws, nil, dir, WriteOptions{Overwrite: true, SkipTranscript: true}); err != nil {
		t.Fatalf("Write overwrite: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, WorkspaceFile))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "# Grace's workspace") {
		t.Fatalf("expected overwritten summary; got %q", b)
	}
}

func TestWrite_MissingDir(t *testing.T) {
	t.Parallel()
	if _, err := Write(sampleWorkspace(), nil, "  ", WriteOptions{}); err == nil {
		t.Fatalf("expected missing --to error")
	}
}
