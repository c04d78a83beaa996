package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"botnology/internal/model"

	"github.com/dustin/go-humanize"
)

// RenderWorkspaceMarkdown summarises the workspace: settings, projects, folders and uploads.
func RenderWorkspaceMarkdown(ws model.Workspace) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(ws.StudentName) + "'s workspace")
	writeLn("")
	writeLn("- Plan: " + string(ws.Plan))
	if p := ws.ActiveProject(); p != nil {
		writeLn("- Active project: " + p.Name)
	}
	if f := ws.ActiveFolder(); f != nil {
		writeLn("- Active folder: " + f.Name)
	}

	if len(ws.Projects) > 0 {
		writeLn("")
		writeLn("## Projects")
		writeLn("")
		for _, p := range ws.Projects {
			writeLn(fmt.Sprintf("- %s (%s, updated %s)", p.Name, p.Status, p.Updated))
		}
	}

	if len(ws.Folders) > 0 {
		writeLn("")
		writeLn("## Folders")
		writeLn("")
		for _, f := range ws.Folders {
			writeLn("- " + f.Name)
		}
	}

	if len(ws.Files) > 0 {
		writeLn("")
		writeLn("## Files")
		writeLn("")
		writeLn("| Name | Size | Type | Project | Folder | Added |")
		writeLn("| --- | --- | --- | --- | --- | --- |")
		for _, f := range ws.Files {
			writeLn(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |",
				cell(f.Name),
				humanize.IBytes(uint64(max(f.Size, 0))),
				cell(f.Type),
				cell(projectName(ws, f.ProjectID)),
				cell(folderName(ws, f.FolderID)),
				f.Added.UTC().Format(time.RFC3339),
			))
		}
	}
	return buf.String()
}

// RenderTranscriptMarkdown writes one section per turn. Tutor replies are already markdown and
// are copied as is.
func RenderTranscriptMarkdown(turns []model.ChatTurn) string {
	var buf bytes.Buffer
	buf.WriteString("# Tutor transcript\n")
	if len(turns) == 0 {
		buf.WriteString("\nNo messages yet.\n")
		return buf.String()
	}
	for _, t := range turns {
		who := "You"
		if t.Role == model.RoleAssistant {
			who = "Dr. Botonic"
		}
		fmt.Fprintf(&buf, "\n## %s (%s)\n\n", who, t.TS.UTC().Format(time.RFC3339))
		if ctx := contextLine(t.Ctx); ctx != "" {
			buf.WriteString("_" + ctx + "_\n\n")
		}
		buf.WriteString(strings.TrimSpace(t.Text))
		buf.WriteString("\n")
	}
	return buf.String()
}

func contextLine(c model.ContextSnapshot) string {
	var parts []string
	if c.Project != "" {
		parts = append(parts, "Project: "+c.Project)
	}
	if c.Folder != "" {
		parts = append(parts, "Folder: "+c.Folder)
	}
	if c.Plan != "" {
		parts = append(parts, "Plan: "+c.Plan)
	}
	return strings.Join(parts, " · ")
}

func projectName(ws model.Workspace, id *string) string {
	if id == nil {
		return ""
	}
	if p, ok := ws.FindProject(*id); ok {
		return p.Name
	}
	return *id
}

func folderName(ws model.Workspace, id *string) string {
	if id == nil {
		return ""
	}
	if f, ok := ws.FindFolder(*id); ok {
		return f.Name
	}
	return *id
}

func cell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "|", `\|`)
}
