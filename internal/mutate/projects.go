package mutate

import (
	"strings"

	"botnology/internal/model"
)

// CreateProject inserts a DRAFT project at the front and makes it active.
// id must be a fresh id; blank names are a no-op.
func CreateProject(ws *model.Workspace, id, name string) (Result, error) {
	name = strings.TrimSpace(name)
	if ws == nil || name == "" || strings.TrimSpace(id) == "" {
		return unchanged()
	}
	p := model.Project{
		ID:      strings.TrimSpace(id),
		Name:    name,
		Status:  model.StatusDraft,
		Updated: model.UpdatedNow,
	}
	ws.Projects = append([]model.Project{p}, ws.Projects...)
	ws.ActiveProjectID = model.IDPtr(p.ID)
	return Result{Changed: true, ID: p.ID}, nil
}

// RenameProject updates the name in place; the id (and so the active reference) is preserved.
func RenameProject(ws *model.Workspace, id, name string) (Result, error) {
	name = strings.TrimSpace(name)
	if ws == nil || name == "" {
		return unchanged()
	}
	p, ok := ws.FindProject(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "project", ID: strings.TrimSpace(id)}
	}
	if p.Name == name {
		return unchanged()
	}
	p.Name = name
	p.Updated = model.UpdatedNow
	return Result{Changed: true}, nil
}

// SetProjectStatus sets the free-form status label.
func SetProjectStatus(ws *model.Workspace, id, status string) (Result, error) {
	status = strings.TrimSpace(status)
	if ws == nil || status == "" {
		return unchanged()
	}
	p, ok := ws.FindProject(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "project", ID: strings.TrimSpace(id)}
	}
	if p.Status == status {
		return unchanged()
	}
	p.Status = status
	p.Updated = model.UpdatedNow
	return Result{Changed: true}, nil
}

// DeleteProject removes the project. When it was active, the first remaining project becomes
// active (or none). Unknown ids are a no-op. File records keep their project id snapshot.
func DeleteProject(ws *model.Workspace, id string) (Result, error) {
	id = strings.TrimSpace(id)
	if ws == nil {
		return unchanged()
	}
	idx := -1
	for i := range ws.Projects {
		if ws.Projects[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return unchanged()
	}
	ws.Projects = append(ws.Projects[:idx:idx], ws.Projects[idx+1:]...)
	if ws.ActiveProjectID != nil && *ws.ActiveProjectID == id {
		ws.ActiveProjectID = nil
		if len(ws.Projects) > 0 {
			ws.ActiveProjectID = model.IDPtr(ws.Projects[0].ID)
		}
	}
	return Result{Changed: true}, nil
}

// SelectProject makes id active; ids that do not exist are ignored.
func SelectProject(ws *model.Workspace, id string) (Result, error) {
	if ws == nil {
		return unchanged()
	}
	p, ok := ws.FindProject(id)
	if !ok {
		return unchanged()
	}
	if ws.ActiveProjectID != nil && *ws.ActiveProjectID == p.ID {
		return unchanged()
	}
	ws.ActiveProjectID = model.IDPtr(p.ID)
	return Result{Changed: true}, nil
}
