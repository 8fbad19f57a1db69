package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/humanitec/cursor-reset/internal/message"
	"github.com/humanitec/cursor-reset/internal/session"
)

var clearHistory bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previous runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := session.DefaultDir()
		if err != nil {
			return err
		}

		if clearHistory {
			if err := session.Reset(dir); err != nil {
				return err
			}
			message.Success("History cleared")
			return nil
		}

		state, err := session.Load(dir)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if len(state.Runs) == 0 {
			message.Info("No runs recorded")
			return nil
		}

		message.Title("Last %d runs", len(state.Runs))
		for i := len(state.Runs) - 1; i >= 0; i-- {
			line := formatRun(state.Runs[i])
			if state.Runs[i].Success {
				message.Success("%s", line)
			} else {
				message.Error("%s", line)
			}
		}
		return nil
	},
}

func formatRun(run session.Run) string {
	line := fmt.Sprintf("%s  %-13s  %s", run.StartedAt.Local().Format(time.DateTime), run.Mode, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	if run.BackupDir != "" {
		line += "  backup: " + run.BackupDir
	}
	for _, s := range run.Steps {
		if s.Error != "" {
			line += fmt.Sprintf("\n    %s: %s", s.Name, s.Error)
		}
	}
	return line
}

func init() {
	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "delete the recorded history")
	rootCmd.AddCommand(historyCmd)
}
