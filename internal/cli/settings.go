package cli

import (
	"strings"

	"botnology/internal/model"

	"github.com/spf13/cobra"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Student name and plan",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, settingsView(app, m.Workspace()))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "name <name>",
		Short: "Set the student name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := m.SetStudentName(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			out := settingsView(app, m.Workspace())
			out["changed"] = res.Changed
			return writeOut(cmd, app, out)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "plan <FREE|SEMI_PRO|PRO|YEARLY_PRO>",
		Short:     "Set the displayed plan (cosmetic; use checkout to subscribe)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: planNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := m.SetPlan(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, errUsage("%v: %q (expected one of %s)", err, args[0], strings.Join(planNames(), ", ")))
			}
			out := settingsView(app, m.Workspace())
			out["changed"] = res.Changed
			return writeOut(cmd, app, out)
		},
	})
	return cmd
}

func planNames() []string {
	out := make([]string, 0, len(model.Plans()))
	for _, p := range model.Plans() {
		out = append(out, string(p))
	}
	return out
}

func settingsView(app *App, ws model.Workspace) map[string]any {
	return map[string]any{
		"studentName": ws.StudentName,
		"plan":        ws.Plan,
		"profile":     app.Profile,
		"dir":         app.Dir,
	}
}
