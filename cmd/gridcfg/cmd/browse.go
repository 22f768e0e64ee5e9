package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gridcfg.io/console/cmd/gridcfg/ui"
)

func (a *app) newBrowseCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse clusters and preview their bundles interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := a.platformVersion()
			if err != nil {
				return err
			}

			c, closeConsole, err := a.openConsole(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeConsole()

			model := ui.New(cmd.Context(), c, ui.Options{
				OutputDir:       outputDir,
				PlatformVersion: version,
			})

			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := program.Run(); err != nil {
				return err
			}

			a.reportSession(cmd.ErrOrStderr(), c)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "directory to write downloaded bundles to")
	return cmd
}
