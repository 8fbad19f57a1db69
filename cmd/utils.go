package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/humanitec/cursor-reset/internal/backup"
	"github.com/humanitec/cursor-reset/internal/cleaner"
	"github.com/humanitec/cursor-reset/internal/message"
	"github.com/humanitec/cursor-reset/internal/paths"
	"github.com/humanitec/cursor-reset/internal/process"
	"github.com/humanitec/cursor-reset/internal/session"
	"github.com/humanitec/cursor-reset/internal/tui"
	"github.com/humanitec/cursor-reset/internal/utils"
)

var errOperationFailed = errors.New("operation finished with errors")

func newProbe(o paths.OS) *process.Probe {
	return process.NewProbe(o, cfg.ProcessName, cfg.Pattern())
}

func resolvedBackupRoot() string {
	return utils.FirstNonEmpty(cfg.BackupRoot, backup.DefaultRoot)
}

// openLog returns nil when no log file is configured.
func openLog() io.WriteCloser {
	if cfg.LogFile == "" {
		return nil
	}
	message.Debug("Writing log to %s", cfg.LogFile)
	return message.OpenLogFile(cfg.LogFile)
}

func buildCleaner(started time.Time) (*cleaner.Cleaner, error) {
	o, err := paths.Detect()
	if err != nil {
		return nil, err
	}

	var b cleaner.Backuper = backup.None{}
	if cfg.BackupEnabled() {
		b = backup.NewSession(resolvedBackupRoot(), started)
	} else {
		message.Debug("Backups are disabled")
	}

	return cleaner.New(cleaner.Options{
		OS:        o,
		App:       cfg.App(),
		Env:       paths.SystemEnvironment(),
		Probe:     newProbe(o),
		Backup:    b,
		StopFirst: stopFirst,
	}), nil
}

// progressActive is set while the progress view owns the terminal.
var progressActive atomic.Bool

// runMode runs mode, in the progress view when progress is set, and records
// the run in the history.
func runMode(ctx context.Context, mode cleaner.Mode, progress bool) error {
	started := time.Now()

	w := openLog()
	if w != nil {
		defer w.Close()
	}

	c, err := buildCleaner(started)
	if err != nil {
		return err
	}

	var report *cleaner.Report
	if progress {
		var mirror message.Logger
		if w != nil {
			mirror = message.NewFileLogger(w)
		}
		progressActive.Store(true)
		report, err = tui.Run(ctx, c, cfg.AppName, mode, mirror)
		progressActive.Store(false)
	} else {
		message.Title("%s: %s", cfg.AppName, mode)
		report, err = c.Run(mode, message.NewConsole(w))
	}
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", mode, err)
	}

	if mode != cleaner.ModeInfo {
		recordRun(report, started)
	}
	if !report.Success {
		return errOperationFailed
	}
	return nil
}

// recordRun appends the run to the history. Failures only warn.
func recordRun(report *cleaner.Report, started time.Time) {
	if !cfg.HistoryEnabled() {
		return
	}
	dir, err := session.DefaultDir()
	if err != nil {
		message.Warning("Run not recorded: %v", err)
		return
	}
	if err := session.Record(dir, historyRun(report, started, time.Now())); err != nil {
		message.Warning("Run not recorded: %v", err)
	}
}

func historyRun(report *cleaner.Report, started, finished time.Time) session.Run {
	run := session.NewRun(string(report.Mode), started)
	run.FinishedAt = finished
	run.Success = report.Success
	run.BackupDir = report.BackupDir
	for _, s := range report.Steps {
		st := session.StepState{Name: s.Name, Path: s.Path, Kind: s.Kind.String()}
		if s.Err != nil {
			st.Error = s.Err.Error()
		}
		run.Steps = append(run.Steps, st)
	}
	return run
}
