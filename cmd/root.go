package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/humanitec/cursor-reset/internal/cleaner"
	"github.com/humanitec/cursor-reset/internal/config"
	"github.com/humanitec/cursor-reset/internal/message"
	"github.com/humanitec/cursor-reset/internal/utils"
)

var silentMode bool
var verboseMode bool
var noEmoji bool
var noColor bool

var configPath string
var backupRoot string
var noBackup bool
var logFile string
var stopFirst bool

var fullMode bool
var cacheOnly bool
var identityOnly bool
var infoMode bool

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "cursor-reset",
	Short: "Reset Cursor's machine identifiers and local caches",
	Long: `It resets the machine identifiers stored in Cursor's settings and removes the
state database, cache, workspace storage and logs. Files are backed up before
they are rewritten or deleted.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		message.SetSilentMode(silentMode)
		message.SetVerboseMode(verboseMode)
		message.SetEmojiMode(!noEmoji && !noColor)
		message.SetColorMode(!noColor)

		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if noBackup {
			loaded.Backup = utils.Ref(false)
		}
		loaded.BackupRoot = utils.FirstNonEmpty(backupRoot, loaded.BackupRoot)
		loaded.LogFile = utils.FirstNonEmpty(logFile, loaded.LogFile)
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd.Context(), selectMode(fullMode, cacheOnly, identityOnly, infoMode), false)
	},
}

// selectMode maps the mutually exclusive mode flags to a mode. No flag means
// a full clean.
func selectMode(full, cache, identity, info bool) cleaner.Mode {
	switch {
	case cache:
		return cleaner.ModeCacheOnly
	case identity:
		return cleaner.ModeIdentityOnly
	case info:
		return cleaner.ModeInfo
	}
	return cleaner.ModeFull
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		// The progress view restores the terminal when ctx ends and its
		// command then fails, so Execute exits from the main goroutine.
		if progressActive.Load() {
			cancel()
			return
		}
		message.Warning("Interrupted")
		os.Exit(1)
	}()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		message.Error("failed to execute command: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&silentMode, "silent", false, "silent mode (hides everything except prompt/failure messages)")
	rootCmd.PersistentFlags().BoolVar(&verboseMode, "verbose", false, "verbose output (show everything, overrides silent mode)")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emojis")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors and emojis")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&backupRoot, "backup-root", "", "directory backups are written to (default from config, \"cursor_backup\")")
	rootCmd.PersistentFlags().BoolVar(&noBackup, "no-backup", false, "do not back up files before changing them")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write every message to this file")
	rootCmd.PersistentFlags().BoolVar(&stopFirst, "stop", false, "stop Cursor before changing anything")

	rootCmd.Flags().BoolVar(&fullMode, "full", false, cleaner.ModeFull.Description()+" (default)")
	rootCmd.Flags().BoolVar(&cacheOnly, "cache-only", false, cleaner.ModeCacheOnly.Description())
	rootCmd.Flags().BoolVar(&identityOnly, "identity-only", false, cleaner.ModeIdentityOnly.Description())
	rootCmd.Flags().BoolVar(&identityOnly, "machine-id-only", false, "alias for --identity-only")
	rootCmd.Flags().BoolVar(&infoMode, "info", false, cleaner.ModeInfo.Description())
	rootCmd.MarkFlagsMutuallyExclusive("full", "cache-only", "identity-only", "machine-id-only", "info")
}
