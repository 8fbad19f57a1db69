package cmd

import (
	"github.com/spf13/cobra"

	"github.com/humanitec/cursor-reset/internal/cleaner"
)

var tuiCmd = &cobra.Command{
	Use:       "tui [full|cache|identity]",
	Short:     "Run a mode in the terminal progress view",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"full", "cache", "identity"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := cleaner.ModeFull
		if len(args) == 1 {
			var err error
			if mode, err = cleaner.ParseMode(args[0]); err != nil {
				return err
			}
		}
		return runMode(cmd.Context(), mode, true)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
