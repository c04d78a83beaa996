package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the workspace document as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			s := m.Store()
			if strings.TrimSpace(out) != "" {
				if err := s.ExportToFile(cmd.Context(), out); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"path": out})
			}
			b, err := s.Export(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to file instead of stdout")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the workspace document with an exported one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var b []byte
			var err error
			if args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := m.Import(cmd.Context(), b); err != nil {
				return writeErr(cmd, err)
			}
			ws := m.Workspace()
			return writeOut(cmd, app, map[string]any{
				"imported": true,
				"projects": len(ws.Projects),
				"folders":  len(ws.Folders),
				"files":    len(ws.Files),
			})
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all local data (workspace, transcript, name) and reseed the demo workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to clear local data without --yes"))
			}
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := m.ClearAll(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"cleared": true})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm")
	return cmd
}
