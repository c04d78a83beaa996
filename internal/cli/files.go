package cli

import (
	"strings"

	"botnology/internal/model"

	"github.com/spf13/cobra"
)

func newFilesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "files",
		Aliases: []string{"file"},
		Short:   "Uploaded file metadata (contents are never stored)",
	}

	var project, folder string
	list := &cobra.Command{
		Use:   "list",
		Short: "List uploaded files, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := m.Workspace()
			projectID := ""
			if strings.TrimSpace(project) != "" {
				projectID = resolveProjectOr(m, project)
			}
			folderID := ""
			if strings.TrimSpace(folder) != "" {
				folderID = resolveFolderOr(m, folder)
			}
			out := make([]model.FileRecord, 0, len(ws.Files))
			for _, f := range ws.Files {
				if projectID != "" && (f.ProjectID == nil || *f.ProjectID != projectID) {
					continue
				}
				if folderID != "" && (f.FolderID == nil || *f.FolderID != folderID) {
					continue
				}
				out = append(out, f)
			}
			return writeOut(cmd, app, out)
		},
	}
	list.Flags().StringVar(&project, "project", "", "Only files uploaded under this project")
	list.Flags().StringVar(&folder, "folder", "", "Only files uploaded under this folder")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "add <path>...",
		Short: "Record local files against the active project and folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			before := len(m.Workspace().Files)
			res, err := m.AddPaths(cmd.Context(), args)
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := m.Workspace()
			added := ws.Files[:len(ws.Files)-before]
			return writeOut(cmd, app, map[string]any{"changed": res.Changed, "files": added})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <file-id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a file record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := m.RemoveFile(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"changed": res.Changed, "id": strings.TrimSpace(args[0])})
		},
	})
	return cmd
}
