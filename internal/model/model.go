package model

import (
	"strings"
	"time"
)

type Plan string

const (
	PlanFree      Plan = "FREE"
	PlanSemiPro   Plan = "SEMI_PRO"
	PlanPro       Plan = "PRO"
	PlanYearlyPro Plan = "YEARLY_PRO"
)

// Plans lists every known plan in display order.
func Plans() []Plan {
	return []Plan{PlanFree, PlanSemiPro, PlanPro, PlanYearlyPro}
}

// ParsePlan accepts the upper-case ids as well as the lower-case checkout ids (e.g. "semi_pro").
func ParsePlan(s string) (Plan, bool) {
	p := Plan(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Plans() {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// CheckoutID is the identifier the checkout endpoint expects ("pro", "semi_pro", ...).
func (p Plan) CheckoutID() string { return strings.ToLower(string(p)) }

// Project status labels. Status is free-form; these are the documented values.
const (
	StatusActive    = "ACTIVE"
	StatusDraft     = "DRAFT"
	StatusNeedsLove = "NEEDS LOVE"
)

// UpdatedNow is the label stamped on a project whenever it changes.
const UpdatedNow = "now"

const DefaultStudentName = "Student"

type Project struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Updated string `json:"updated"`
}

type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FileRecord is upload metadata only; file contents are never stored.
// ProjectID/FolderID are copies of the active ids at upload time.
type FileRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Type      string    `json:"type"`
	ProjectID *string   `json:"projectId"`
	FolderID  *string   `json:"folderId"`
	Added     time.Time `json:"added"`
}

type Workspace struct {
	StudentName     string       `json:"studentName"`
	Plan            Plan         `json:"plan"`
	Projects        []Project    `json:"projects"`
	Folders         []Folder     `json:"folders"`
	Files           []FileRecord `json:"files"`
	ActiveProjectID *string      `json:"activeProjectId"`
	ActiveFolderID  *string      `json:"activeFolderId"`
}

func (w *Workspace) FindProject(id string) (*Project, bool) {
	id = strings.TrimSpace(id)
	for i := range w.Projects {
		if w.Projects[i].ID == id {
			return &w.Projects[i], true
		}
	}
	return nil, false
}

func (w *Workspace) FindFolder(id string) (*Folder, bool) {
	id = strings.TrimSpace(id)
	for i := range w.Folders {
		if w.Folders[i].ID == id {
			return &w.Folders[i], true
		}
	}
	return nil, false
}

func (w *Workspace) FindFile(id string) (*FileRecord, bool) {
	id = strings.TrimSpace(id)
	for i := range w.Files {
		if w.Files[i].ID == id {
			return &w.Files[i], true
		}
	}
	return nil, false
}

// ActiveProject returns the active project, or nil when none is set or the reference dangles.
func (w *Workspace) ActiveProject() *Project {
	if w.ActiveProjectID == nil {
		return nil
	}
	p, ok := w.FindProject(*w.ActiveProjectID)
	if !ok {
		return nil
	}
	return p
}

func (w *Workspace) ActiveFolder() *Folder {
	if w.ActiveFolderID == nil {
		return nil
	}
	f, ok := w.FindFolder(*w.ActiveFolderID)
	if !ok {
		return nil
	}
	return f
}

// Snapshot captures the current {project, folder, plan} context by name.
func (w *Workspace) Snapshot() ContextSnapshot {
	var s ContextSnapshot
	if p := w.ActiveProject(); p != nil {
		s.Project = p.Name
	}
	if f := w.ActiveFolder(); f != nil {
		s.Folder = f.Name
	}
	s.Plan = string(w.Plan)
	return s
}

// Clone returns a deep copy so callers can mutate without aliasing the original.
func (w Workspace) Clone() Workspace {
	out := w
	out.Projects = append([]Project(nil), w.Projects...)
	out.Folders = append([]Folder(nil), w.Folders...)
	out.Files = make([]FileRecord, len(w.Files))
	for i, f := range w.Files {
		f.ProjectID = CopyID(f.ProjectID)
		f.FolderID = CopyID(f.FolderID)
		out.Files[i] = f
	}
	out.ActiveProjectID = CopyID(w.ActiveProjectID)
	out.ActiveFolderID = CopyID(w.ActiveFolderID)
	if out.Projects == nil {
		out.Projects = []Project{}
	}
	if out.Folders == nil {
		out.Folders = []Folder{}
	}
	return out
}

// CopyID returns a fresh pointer holding the same id (nil stays nil).
func CopyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func IDPtr(id string) *string { return &id }

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ContextSnapshot struct {
	Project string `json:"project"`
	Folder  string `json:"folder"`
	Plan    string `json:"plan"`
}

type ChatTurn struct {
	Role Role            `json:"role"`
	Text string          `json:"text"`
	TS   time.Time       `json:"ts"`
	Ctx  ContextSnapshot `json:"ctx"`
}

// MaxTranscriptTurns caps the persisted transcript.
const MaxTranscriptTurns = 60
