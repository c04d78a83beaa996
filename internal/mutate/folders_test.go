package mutate

import (
	"testing"

	"botnology/internal/model"
)

func TestFolderOps(t *testing.T) {
	t.Parallel()

	ws := newTestWorkspace()

	if res, _ := CreateFolder(ws, "f9", " "); res.Changed {
		t.Fatalf("blank folder name should be a no-op")
	}
	if res, err := CreateFolder(ws, "f9", "Flashcards"); err != nil || !res.Changed {
		t.Fatalf("CreateFolder: %+v, %v", res, err)
	}
	if ws.Folders[0].ID != "f9" || ws.ActiveFolderID == nil || *ws.ActiveFolderID != "f9" {
		t.Fatalf("expected f9 first and active; got %+v", ws.Folders)
	}

	if _, err := RenameFolder(ws, "f9", "Cards"); err != nil {
		t.Fatalf("RenameFolder: %v", err)
	}
	if f, _ := ws.FindFolder("f9"); f.Name != "Cards" {
		t.Fatalf("rename not applied: %+v", f)
	}

	if _, err := DeleteFolder(ws, "f9"); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}
	if ws.ActiveFolderID == nil || *ws.ActiveFolderID != "f1" {
		t.Fatalf("expected f1 active after deleting active folder; got %v", ws.ActiveFolderID)
	}

	if res, _ := SelectFolder(ws, "nope"); res.Changed {
		t.Fatalf("selecting an unknown folder should be a no-op")
	}

	_, _ = DeleteFolder(ws, "f1")
	_, _ = DeleteFolder(ws, "f2")
	if ws.ActiveFolderID != nil {
		t.Fatalf("expected nil active folder")
	}
}

func TestSetPlan_InvalidAndSemiPro(t *testing.T) {
	t.Parallel()

	ws := newTestWorkspace()
	if _, err := SetPlan(ws, "platinum"); err != ErrInvalidPlan {
		t.Fatalf("expected ErrInvalidPlan; got %v", err)
	}
	res, err := SetPlan(ws, "semi_pro")
	if err != nil || !res.Changed {
		t.Fatalf("SetPlan: %+v, %v", res, err)
	}
	if ws.Plan != model.PlanSemiPro {
		t.Fatalf("expected SEMI_PRO; got %q", ws.Plan)
	}
}
