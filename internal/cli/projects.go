package cli

import (
	"strings"

	"botnology/internal/model"
	"botnology/internal/mutate"
	"botnology/internal/workspace"

	"github.com/spf13/cobra"
)

type projectRow struct {
	model.Project
	Active bool `json:"active"`
}

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsRenameCmd(app))
	cmd.AddCommand(newProjectsStatusCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	cmd.AddCommand(newProjectsSelectCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := m.Workspace()
			rows := make([]projectRow, 0, len(ws.Projects))
			for _, p := range ws.Projects {
				rows = append(rows, projectRow{Project: p, Active: ws.ActiveProjectID != nil && *ws.ActiveProjectID == p.ID})
			}
			return writeOut(cmd, app, rows)
		},
	}
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project and make it active",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := m.CreateProject(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeProjectResult(cmd, app, m, res, res.ID)
		},
	}
}

func newProjectsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project> <name>",
		Short: "Rename a project (by id or name)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id := resolveProjectOr(m, args[0])
			res, err := m.RenameProject(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeProjectResult(cmd, app, m, res, id)
		},
	}
}

func newProjectsStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <project> <status>",
		Short: "Set a project's status label (ACTIVE, DRAFT, NEEDS LOVE, ...)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id := resolveProjectOr(m, args[0])
			status := strings.ToUpper(strings.Join(args[1:], " "))
			res, err := m.SetProjectStatus(cmd.Context(), id, status)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeProjectResult(cmd, app, m, res, id)
		},
	}
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <project>",
		Aliases: []string{"rm"},
		Short:   "Delete a project; the first remaining project becomes active if it was active",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := workspace.ResolveProjectExact(m.Workspace(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := m.DeleteProject(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := m.Workspace()
			return writeOut(cmd, app, map[string]any{
				"changed":         res.Changed,
				"id":              id,
				"activeProjectId": ws.ActiveProjectID,
			})
		},
	}
}

func newProjectsSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select <project>",
		Short: "Make a project active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id := resolveProjectOr(m, args[0])
			res, err := m.SelectProject(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeProjectResult(cmd, app, m, res, id)
		},
	}
}

// resolveProjectOr maps a name or id to an id. Unresolvable references are passed through so
// the operation itself decides (selection of an unknown id is a no-op).
func resolveProjectOr(m *workspace.Manager, ref string) string {
	if id, err := workspace.ResolveProject(m.Workspace(), ref); err == nil {
		return id
	}
	return strings.TrimSpace(ref)
}

func writeProjectResult(cmd *cobra.Command, app *App, m *workspace.Manager, res mutate.Result, id string) error {
	out := map[string]any{"changed": res.Changed}
	ws := m.Workspace()
	if p, ok := ws.FindProject(id); ok {
		out["project"] = projectRow{Project: *p, Active: ws.ActiveProjectID != nil && *ws.ActiveProjectID == p.ID}
	}
	return writeOut(cmd, app, out)
}
