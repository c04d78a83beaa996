package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"botnology/internal/bridge"
	"botnology/internal/config"
	"botnology/internal/format"
	"botnology/internal/logging"
	"botnology/internal/store"
	"botnology/internal/tutor"
	"botnology/internal/workspace"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultProfile = "default"

type App struct {
	Dir        string
	Profile    string
	ConfigPath string
	PrettyJSON bool
	Format     string
	Verbose    bool

	cfg       *config.Config
	log       zerolog.Logger
	logCloser io.Closer
	// opener is replaced in tests so checkout never launches a browser.
	opener bridge.Opener
}

// Execute runs the root command. The log file is closed even when the command fails, since
// cobra skips post-run hooks on error.
func Execute() error {
	app := &App{}
	return app.execute(newRootCmd(app))
}

func (app *App) execute(cmd *cobra.Command) error {
	defer app.closeLog()
	return cmd.Execute()
}

func (app *App) closeLog() {
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
}

func newRootCmd(app *App) *cobra.Command {
	app.log = zerolog.Nop()

	cmd := &cobra.Command{
		Use:          "botnology",
		Short:        "Botnology study workspace and tutor (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  botnology

  # Scriptable commands
  botnology projects list
  botnology chat ask "Explain the Krebs cycle"

  # Select a project directly (shortcut for: botnology projects select <proj-id>)
  botnology proj-abc123
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		app.log, app.logCloser = logging.Open(logging.Options{
			Level:   cfg.Log.Level,
			File:    cfg.Log.File,
			Verbose: app.Verbose,
		})
		app.log.Debug().Str("cmd", cmd.CommandPath()).Msg("start")
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.closeLog()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("BOTNOLOGY_DIR", ""), "Path to store dir (overrides --profile)")
	cmd.PersistentFlags().StringVar(&app.Profile, "profile", envOr("BOTNOLOGY_PROFILE", defaultProfile), "Profile name; each profile has its own workspace")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("BOTNOLOGY_CONFIG", ""), "Config file (default: ~/.botnology/config.yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("BOTNOLOGY_FORMAT", format.JSON), "Output format (json|edn)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log to stderr")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newFoldersCmd(app))
	cmd.AddCommand(newFilesCmd(app))
	cmd.AddCommand(newChatCmd(app))
	cmd.AddCommand(newSettingsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newHealthCmd(app))
	cmd.AddCommand(newCheckoutCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newDashboardCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newPublishCmd(app))

	return cmd
}

// storeDir resolves the store directory: --dir/BOTNOLOGY_DIR, then the profile dir.
func (app *App) storeDir() (string, error) {
	if dir := strings.TrimSpace(app.Dir); dir != "" {
		return dir, nil
	}
	profile := strings.TrimSpace(app.Profile)
	if profile == "" {
		profile = defaultProfile
	}
	dir, err := store.ProfileDir(profile)
	if err != nil {
		return "", err
	}
	app.Dir = dir
	return dir, nil
}

func (app *App) openWorkspace(ctx context.Context) (*workspace.Manager, error) {
	dir, err := app.storeDir()
	if err != nil {
		return nil, err
	}
	return workspace.Open(ctx, store.Store{Dir: dir}, app.log)
}

func (app *App) config() *config.Config {
	if app.cfg == nil {
		app.cfg = config.Default()
	}
	return app.cfg
}

func (app *App) auth(ctx context.Context) (*bridge.Auth, error) {
	cfg := app.config()
	dir, err := store.ConfigDir()
	if err != nil {
		return nil, err
	}
	a := &bridge.Auth{
		SupabaseURL: cfg.Auth.SupabaseURL,
		AnonKey:     cfg.Auth.AnonKey,
		AppURL:      cfg.App.BaseURL,
		Sessions:    bridge.SessionFileIn(dir),
		Log:         app.log,
	}
	if cfg.Auth.JWKSURL != "" {
		v, err := bridge.NewJWKSVerifier(ctx, cfg.Auth.JWKSURL)
		if err != nil {
			return nil, err
		}
		a.Verifier = v
	}
	return a, nil
}

// tutorClient forwards the stored session token when there is one.
func (app *App) tutorClient(ctx context.Context) (*tutor.Client, error) {
	cfg := app.config()
	c := tutor.NewClient(cfg.API.BaseURL, cfg.API.Timeout, app.log)
	a, err := app.auth(ctx)
	if err != nil {
		return nil, err
	}
	c.Tokens = a
	return c, nil
}

func (app *App) browser() bridge.Opener {
	if app.opener != nil {
		return app.opener
	}
	return bridge.BrowserOpener{}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), format.Envelope{Data: v}, app.Format, app.PrettyJSON)
}

func writeOutMeta(cmd *cobra.Command, app *App, v any, meta map[string]any) error {
	return format.Write(cmd.OutOrStdout(), format.Envelope{Data: v, Meta: meta}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// loginHint adds the login URL to errors that need a session.
func loginHint(err error) map[string]any {
	var lre *bridge.LoginRequiredError
	if errors.As(err, &lre) && lre.URL != "" {
		return map[string]any{"loginUrl": lre.URL}
	}
	return nil
}
