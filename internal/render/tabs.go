package render

import (
	"fmt"
	"strings"
	"time"

	"botnology/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

type Tab string

const (
	TabProjects Tab = "projects"
	TabFolders  Tab = "folders"
	TabFiles    Tab = "files"
	TabSettings Tab = "settings"
)

func Tabs() []Tab { return []Tab{TabProjects, TabFolders, TabFiles, TabSettings} }

func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs() {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

func (t Tab) Title() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TabBar renders the tab strip with the current tab highlighted.
func TabBar(current Tab) string {
	parts := make([]string, 0, len(Tabs()))
	for _, t := range Tabs() {
		st := lipgloss.NewStyle().Padding(0, 1)
		if t == current {
			st = st.Bold(true).Foreground(colorOnBadge).Background(colorAccent)
		} else {
			st = st.Foreground(colorMuted)
		}
		parts = append(parts, st.Render(t.Title()))
	}
	return strings.Join(parts, " ")
}

// WorkspaceTab renders the body of one workspace tab. now is used for relative upload times.
func WorkspaceTab(ws model.Workspace, tab Tab, width int, now time.Time) string {
	if width <= 0 {
		width = 80
	}
	switch tab {
	case TabFolders:
		return foldersTab(ws, width)
	case TabFiles:
		return filesTab(ws, width, now)
	case TabSettings:
		return settingsTab(ws)
	default:
		return projectsTab(ws, width)
	}
}

func marker(active bool) string {
	if active {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("●")
	}
	return " "
}

func isActive(ref *string, id string) bool {
	return ref != nil && *ref == id
}

func projectsTab(ws model.Workspace, width int) string {
	if len(ws.Projects) == 0 {
		return styleMuted().Render("No projects.")
	}
	lines := make([]string, 0, len(ws.Projects))
	for _, p := range ws.Projects {
		name := xansi.Truncate(p.Name, max(width-30, 8), "…")
		lines = append(lines, fmt.Sprintf("%s %-*s %s  %s",
			marker(isActive(ws.ActiveProjectID, p.ID)),
			max(width-30, 8), name,
			StatusBadge(p.Status),
			styleMuted().Render(p.Updated),
		))
	}
	return strings.Join(lines, "\n")
}

func foldersTab(ws model.Workspace, width int) string {
	if len(ws.Folders) == 0 {
		return styleMuted().Render("No folders.")
	}
	counts := map[string]int{}
	for _, f := range ws.Files {
		if f.FolderID != nil {
			counts[*f.FolderID]++
		}
	}
	lines := make([]string, 0, len(ws.Folders))
	for _, f := range ws.Folders {
		name := xansi.Truncate(f.Name, max(width-20, 8), "…")
		lines = append(lines, fmt.Sprintf("%s %s %s",
			marker(isActive(ws.ActiveFolderID, f.ID)),
			name,
			styleMuted().Render(fmt.Sprintf("(%d %s)", counts[f.ID], plural(counts[f.ID], "file", "files"))),
		))
	}
	return strings.Join(lines, "\n")
}

func filesTab(ws model.Workspace, width int, now time.Time) string {
	if len(ws.Files) == 0 {
		return styleMuted().Render("No files uploaded. Metadata only; contents stay on your machine.")
	}
	lines := make([]string, 0, len(ws.Files))
	for _, f := range ws.Files {
		where := []string{}
		if f.ProjectID != nil {
			if p, ok := ws.FindProject(*f.ProjectID); ok {
				where = append(where, p.Name)
			}
		}
		if f.FolderID != nil {
			if fo, ok := ws.FindFolder(*f.FolderID); ok {
				where = append(where, fo.Name)
			}
		}
		loc := strings.Join(where, " / ")
		if loc == "" {
			loc = "unfiled"
		}
		name := xansi.Truncate(f.Name, max(width-40, 12), "…")
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			name,
			styleMuted().Render(humanize.IBytes(uint64(max64(f.Size, 0)))),
			styleMuted().Render(f.Type),
			styleMuted().Render(loc+" · "+humanize.RelTime(f.Added, now, "ago", "from now")),
		))
	}
	return strings.Join(lines, "\n")
}

func settingsTab(ws model.Workspace) string {
	rows := [][2]string{
		{"Student", ws.StudentName},
		{"Plan", string(ws.Plan)},
		{"Projects", fmt.Sprint(len(ws.Projects))},
		{"Folders", fmt.Sprint(len(ws.Folders))},
		{"Files", fmt.Sprint(len(ws.Files))},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, styleMuted().Render(fmt.Sprintf("%-9s", r[0]))+" "+r[1])
	}
	return strings.Join(lines, "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
