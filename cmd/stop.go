package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/humanitec/cursor-reset/internal/message"
	"github.com/humanitec/cursor-reset/internal/paths"
)

var stopWait bool
var stopTimeout time.Duration

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running editor",
	Long:  `It force-kills the editor's processes, matching the executable name first and the process pattern second.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := paths.Detect()
		if err != nil {
			return err
		}
		probe := newProbe(o)
		name := cfg.AppName

		if !probe.IsRunning() {
			message.Info("%s is not running", name)
			return nil
		}

		message.Info("Stopping %s...", name)
		if !probe.RequestStop() {
			return fmt.Errorf("failed to stop %s, please close it manually", name)
		}

		if stopWait {
			if !probe.WaitForExit(cmd.Context(), stopTimeout, 500*time.Millisecond) {
				return fmt.Errorf("%s is still running after %s", name, stopTimeout)
			}
		}
		message.Success("%s stopped", name)
		return nil
	},
}

func init() {
	stopCmd.Flags().BoolVar(&stopWait, "wait", true, "wait until the processes are gone")
	stopCmd.Flags().DurationVar(&stopTimeout, "timeout", 10*time.Second, "how long to wait")
	rootCmd.AddCommand(stopCmd)
}
