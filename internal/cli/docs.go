package cli

import (
	"fmt"

	"botnology/internal/docs"
	"botnology/internal/render"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	var pretty bool
	var width int

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show help topics (shortcuts, chat, plans, data)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"topics": docs.Topics()})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `botnology docs` to list topics)", topic))
			}
			switch {
			case pretty:
				render.ApplyColorProfile()
				render.ApplyTheme()
				_, err := fmt.Fprintln(cmd.OutOrStdout(), render.Markdown(body, width))
				return err
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, map[string]any{"topic": topic, "markdown": body})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	cmd.Flags().BoolVar(&pretty, "render", false, "Render markdown for the terminal")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")
	return cmd
}
