package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"botnology/internal/bridge"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the tutor API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.tutorClient(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			h := bridge.CheckHealth(cmd.Context(), client)
			out := map[string]any{
				"status":    h.Label(),
				"service":   h.Service(),
				"checkedAt": h.CheckedAt.UTC().Format(time.RFC3339),
			}
			if h.Detail != "" {
				out["detail"] = h.Detail
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newCheckoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "checkout <pro|semi_pro|yearly_pro>",
		Short:     "Open the hosted checkout for a subscription plan",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pro", "semi_pro", "yearly_pro"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.tutorClient(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			url, err := bridge.Checkout(cmd.Context(), client, args[0], app.browser())
			if err != nil {
				if url != "" {
					return writeErr(cmd, fmt.Errorf("%w (open %s manually)", err, url))
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"url": url, "opened": true})
		},
	}
}

func newLoginCmd(app *App) *cobra.Command {
	var email string
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if strings.TrimSpace(email) == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
				line, _ := in.ReadString('\n')
				email = strings.TrimSpace(line)
			}
			password, err := readPassword(cmd, in, passwordStdin)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := app.auth(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := a.Login(cmd.Context(), email, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, sessionView(s))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func readPassword(cmd *cobra.Command, in *bufio.Reader, fromStdin bool) (string, error) {
	if !fromStdin {
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(cmd.ErrOrStderr())
			return string(b), err
		}
	}
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", errUsage("no password on stdin")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.auth(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := a.Logout(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"loggedOut": true})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.auth(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := a.Gate(cmd.Context())
			if err != nil {
				if meta := loginHint(err); meta != nil {
					return writeOutMeta(cmd, app, nil, meta)
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, sessionView(s))
		},
	}
}

func sessionView(s *bridge.Session) map[string]any {
	out := map[string]any{
		"id":    s.User.ID,
		"email": s.User.Email,
	}
	if s.ExpiresAt > 0 {
		out["expiresAt"] = time.Unix(s.ExpiresAt, 0).UTC().Format(time.RFC3339)
	}
	return out
}
