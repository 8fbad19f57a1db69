package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/humanitec/cursor-reset/internal/backup"
	"github.com/humanitec/cursor-reset/internal/message"
)

var purgeYes bool

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Manage the backups taken before each run",
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backup sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := resolvedBackupRoot()
		inv, err := backup.Scan(root)
		if err != nil {
			return fmt.Errorf("failed to scan backups: %w", err)
		}

		if len(inv.Sessions) == 0 {
			message.Info("No backups in %s", root)
			return nil
		}

		message.Title("Backups in %s", root)
		for _, s := range inv.Sessions {
			message.Info("%s  %d files  %s", s.Name, s.Files, backup.FormatSize(s.Bytes))
		}
		message.Info("Total: %d sessions, %d files, %s", len(inv.Sessions), inv.Files, backup.FormatSize(inv.Bytes))
		return nil
	},
}

var backupsOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the backup directory in the file manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := resolvedBackupRoot()
		if _, err := os.Stat(root); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("backup directory %s does not exist", root)
			}
			return err
		}

		if err := open.Run(root); err != nil {
			return fmt.Errorf("failed to open %s: %w", root, err)
		}
		return nil
	},
}

var backupsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every backup session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := resolvedBackupRoot()
		inv, err := backup.Scan(root)
		if err != nil {
			return fmt.Errorf("failed to scan backups: %w", err)
		}
		if len(inv.Sessions) == 0 {
			message.Info("No backups to delete")
			return nil
		}

		if !purgeYes {
			confirmed, err := message.BoolSelect(fmt.Sprintf("Delete %d backup sessions (%s) in %s?", len(inv.Sessions), backup.FormatSize(inv.Bytes), root))
			if err != nil {
				return err
			}
			if !confirmed {
				message.Info("Nothing deleted")
				return nil
			}
		}

		if err := backup.RemoveAll(root); err != nil {
			return fmt.Errorf("failed to delete backups: %w", err)
		}
		message.Success("Deleted %d backup sessions", len(inv.Sessions))
		return nil
	},
}

func init() {
	backupsPurgeCmd.Flags().BoolVarP(&purgeYes, "yes", "y", false, "do not ask for confirmation")
	backupsCmd.AddCommand(backupsListCmd, backupsOpenCmd, backupsPurgeCmd)
	rootCmd.AddCommand(backupsCmd)
}
