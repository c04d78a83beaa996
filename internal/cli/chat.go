package cli

import (
	"io"
	"strings"

	"botnology/internal/tutor"

	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the tutor",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ask <message>",
		Short: "Send a message with the current project/folder/plan as context (use - to read stdin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return writeErr(cmd, err)
				}
				text = string(b)
			}
			if strings.TrimSpace(text) == "" {
				return writeErr(cmd, errUsage("message is empty"))
			}
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			client, err := app.tutorClient(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			s := &tutor.Sender{Chat: client, Conv: m}
			snap := m.Snapshot()
			reply, err := s.Send(cmd.Context(), text)
			if err != nil {
				app.log.Warn().Err(err).Msg("chat failed")
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"reply": reply, "context": snap})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "Show the saved transcript (most recent 60 turns)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, m.History())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the saved transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := m.ClearHistory(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"cleared": true})
		},
	})
	return cmd
}
