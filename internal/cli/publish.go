package cli

import (
	"botnology/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var to string
	var opt publish.WriteOptions

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the workspace summary and tutor transcript as markdown files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.Write(m.Workspace(), m.History(), to, opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Strs("written", res.Written).Msg("published")
			return writeOut(cmd, app, res)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().BoolVar(&opt.Overwrite, "overwrite", false, "Replace existing files")
	cmd.Flags().BoolVar(&opt.SkipTranscript, "no-transcript", false, "Only write the workspace summary")
	return cmd
}
