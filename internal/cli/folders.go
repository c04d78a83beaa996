package cli

import (
	"strings"

	"botnology/internal/model"
	"botnology/internal/mutate"
	"botnology/internal/workspace"

	"github.com/spf13/cobra"
)

type folderRow struct {
	model.Folder
	Active bool `json:"active"`
	Files  int  `json:"files"`
}

func folderRows(ws model.Workspace) []folderRow {
	counts := map[string]int{}
	for _, f := range ws.Files {
		if f.FolderID != nil {
			counts[*f.FolderID]++
		}
	}
	rows := make([]folderRow, 0, len(ws.Folders))
	for _, f := range ws.Folders {
		rows = append(rows, folderRow{
			Folder: f,
			Active: ws.ActiveFolderID != nil && *ws.ActiveFolderID == f.ID,
			Files:  counts[f.ID],
		})
	}
	return rows
}

func newFoldersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder"},
		Short:   "Folder commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, folderRows(m.Workspace()))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder and make it active",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := m.CreateFolder(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeFolderResult(cmd, app, m, res, res.ID)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rename <folder> <name>",
		Short: "Rename a folder (by id or name)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id := resolveFolderOr(m, args[0])
			res, err := m.RenameFolder(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeFolderResult(cmd, app, m, res, id)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "delete <folder>",
		Aliases: []string{"rm"},
		Short:   "Delete a folder; files keep their recorded folder id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := workspace.ResolveFolderExact(m.Workspace(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := m.DeleteFolder(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"changed":        res.Changed,
				"id":             id,
				"activeFolderId": m.Workspace().ActiveFolderID,
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "select <folder>",
		Short: "Make a folder active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id := resolveFolderOr(m, args[0])
			res, err := m.SelectFolder(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeFolderResult(cmd, app, m, res, id)
		},
	})
	return cmd
}

func resolveFolderOr(m *workspace.Manager, ref string) string {
	if id, err := workspace.ResolveFolder(m.Workspace(), ref); err == nil {
		return id
	}
	return strings.TrimSpace(ref)
}

func writeFolderResult(cmd *cobra.Command, app *App, m *workspace.Manager, res mutate.Result, id string) error {
	out := map[string]any{"changed": res.Changed}
	for _, row := range folderRows(m.Workspace()) {
		if row.ID == id {
			out["folder"] = row
		}
	}
	return writeOut(cmd, app, out)
}
