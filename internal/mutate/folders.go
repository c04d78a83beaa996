package mutate

import (
	"strings"

	"botnology/internal/model"
)

func CreateFolder(ws *model.Workspace, id, name string) (Result, error) {
	name = strings.TrimSpace(name)
	if ws == nil || name == "" || strings.TrimSpace(id) == "" {
		return unchanged()
	}
	f := model.Folder{ID: strings.TrimSpace(id), Name: name}
	ws.Folders = append([]model.Folder{f}, ws.Folders...)
	ws.ActiveFolderID = model.IDPtr(f.ID)
	return Result{Changed: true, ID: f.ID}, nil
}

func RenameFolder(ws *model.Workspace, id, name string) (Result, error) {
	name = strings.TrimSpace(name)
	if ws == nil || name == "" {
		return unchanged()
	}
	f, ok := ws.FindFolder(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "folder", ID: strings.TrimSpace(id)}
	}
	if f.Name == name {
		return unchanged()
	}
	f.Name = name
	return Result{Changed: true}, nil
}

func DeleteFolder(ws *model.Workspace, id string) (Result, error) {
	id = strings.TrimSpace(id)
	if ws == nil {
		return unchanged()
	}
	idx := -1
	for i := range ws.Folders {
		if ws.Folders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return unchanged()
	}
	ws.Folders = append(ws.Folders[:idx:idx], ws.Folders[idx+1:]...)
	if ws.ActiveFolderID != nil && *ws.ActiveFolderID == id {
		ws.ActiveFolderID = nil
		if len(ws.Folders) > 0 {
			ws.ActiveFolderID = model.IDPtr(ws.Folders[0].ID)
		}
	}
	return Result{Changed: true}, nil
}

func SelectFolder(ws *model.Workspace, id string) (Result, error) {
	if ws == nil {
		return unchanged()
	}
	f, ok := ws.FindFolder(id)
	if !ok {
		return unchanged()
	}
	if ws.ActiveFolderID != nil && *ws.ActiveFolderID == f.ID {
		return unchanged()
	}
	ws.ActiveFolderID = model.IDPtr(f.ID)
	return Result{Changed: true}, nil
}
