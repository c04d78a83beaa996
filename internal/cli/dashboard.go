package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"botnology/internal/bridge"
	"botnology/internal/render"
	"botnology/internal/tui"

	"github.com/spf13/cobra"
)

// requireSession enforces the login gate shared by both dashboard surfaces. Without a usable
// session it prints where to sign in and returns the *bridge.LoginRequiredError.
func requireSession(cmd *cobra.Command, app *App) (*bridge.Session, error) {
	ctx := cmd.Context()
	a, err := app.auth(ctx)
	if err != nil {
		return nil, writeErr(cmd, err)
	}
	sess, err := a.Gate(ctx)
	if err != nil {
		var lre *bridge.LoginRequiredError
		if errors.As(err, &lre) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\nRun `botnology login` or sign in at %s\n", err.Error(), lre.URL)
			return nil, err
		}
		return nil, writeErr(cmd, err)
	}
	return sess, nil
}

// runTUI starts the interactive dashboard.
func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	sess, err := requireSession(cmd, app)
	if err != nil {
		return err
	}

	m, err := app.openWorkspace(ctx)
	if err != nil {
		return writeErr(cmd, err)
	}
	client, err := app.tutorClient(ctx)
	if err != nil {
		return writeErr(cmd, err)
	}
	user := sess.User.Email
	app.log.Info().Str("dir", app.Dir).Str("user", user).Msg("dashboard start")
	return tui.Run(tui.Options{
		Manager:        m,
		Client:         client,
		Opener:         app.browser(),
		User:           user,
		HealthInterval: app.config().TUI.HealthInterval,
		Log:            app.log,
	})
}

// newDashboardCmd prints a static render of the dashboard, for scripts and terminals without a TTY.
func newDashboardCmd(app *App) *cobra.Command {
	var tab string
	var width int
	var withHealth bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard (hero cards, one tab, tutor panel) without the TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := render.ParseTab(tab)
			if !ok {
				return writeErr(cmd, errUsage("unknown tab %q (expected one of %s)", tab, strings.Join(tabNames(), ", ")))
			}
			if width <= 0 {
				return writeErr(cmd, errUsage("width must be positive"))
			}
			if _, err := requireSession(cmd, app); err != nil {
				return err
			}
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			v := m.View()
			render.ApplyColorProfile()
			render.ApplyTheme()

			var b strings.Builder
			b.WriteString(render.HeroCards(v.Workspace, width))
			b.WriteString("\n\n")
			b.WriteString(render.TabBar(t))
			b.WriteString("\n\n")
			b.WriteString(render.WorkspaceTab(v.Workspace, t, width, time.Now()))
			b.WriteString("\n\n")
			if withHealth {
				client, err := app.tutorClient(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				h := bridge.CheckHealth(cmd.Context(), client)
				fmt.Fprintf(&b, "Tutor: %s · %s\n", h.Label(), h.Service())
			}
			b.WriteString(render.TutorContext(v.Workspace))
			b.WriteString("\n\n")
			b.WriteString(render.Transcript(v.Transcript, width, true))
			b.WriteString("\n")
			_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(render.TabProjects), "Tab to print (projects|folders|files|settings)")
	cmd.Flags().IntVar(&width, "width", 100, "Render width in columns")
	cmd.Flags().BoolVar(&withHealth, "health", false, "Probe the tutor service and print its status")
	return cmd
}

func tabNames() []string {
	var out []string
	for _, t := range render.Tabs() {
		out = append(out, string(t))
	}
	return out
}
