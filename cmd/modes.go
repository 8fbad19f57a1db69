package cmd

import (
	"github.com/spf13/cobra"

	"github.com/humanitec/cursor-reset/internal/cleaner"
)

var fullCmd = &cobra.Command{
	Use:   "full",
	Short: "Reset identifiers and remove all local state",
	Long:  `It resets the machine identifiers, then removes the state database, cache, workspace storage and logs. Every step runs even if an earlier one failed.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd.Context(), cleaner.ModeFull, false)
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Remove the cache directory only",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd.Context(), cleaner.ModeCacheOnly, false)
	},
}

var identityCmd = &cobra.Command{
	Use:     "identity",
	Aliases: []string{"machine-id"},
	Short:   "Reset the machine identifiers only",
	Long:    `It replaces telemetry.machineId and telemetry.devDeviceId in storage.json and keeps every other setting.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd.Context(), cleaner.ModeIdentityOnly, false)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show paths, identifiers and process status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd.Context(), cleaner.ModeInfo, false)
	},
}

func init() {
	rootCmd.AddCommand(fullCmd, cacheCmd, identityCmd, infoCmd)
}
