// Package purge deletes the editor's cache, state and log locations. Every
// operation treats an absent target as success.
package purge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/humanitec/cursor-reset/internal/message"
	"github.com/humanitec/cursor-reset/internal/step"
)

const (
	CacheStep            = "cache"
	StateDBStep          = "state_db"
	WorkspaceStorageStep = "workspace_storage"
	LogsStep             = "logs"
)

type Backuper interface {
	Backup(path string, log message.Logger) (string, error)
}

type Purger struct {
	Backup Backuper
	Log    message.Logger
}

func (p *Purger) CacheDir(path string) step.Result {
	return p.removeTree(CacheStep, "cache directory", path)
}

func (p *Purger) WorkspaceStorage(path string) step.Result {
	return p.removeTree(WorkspaceStorageStep, "workspace storage", path)
}

func (p *Purger) Logs(path string) step.Result {
	return p.removeTree(LogsStep, "logs directory", path)
}

// StateDB backs up and deletes the single state database file.
func (p *Purger) StateDB(path string) step.Result {
	res := step.Result{Name: StateDBStep, Path: path}

	exists, err := exists(path)
	if err != nil {
		p.Log.Error("Failed to clean state database %s: %v", path, err)
		res.Kind, res.Err = step.IOFailed, err
		return res
	}
	if !exists {
		p.Log.Info("State database not found: %s", path)
		res.Kind = step.Absent
		return res
	}

	_, backupErr := p.Backup.Backup(path, p.Log)

	if err := os.Remove(path); err != nil {
		p.Log.Error("Failed to clean state database %s: %v", path, err)
		res.Kind, res.Err = step.IOFailed, err
		return res
	}
	p.Log.Success("Removed state database: %s", path)

	if backupErr != nil {
		res.Kind = step.BackupFailed
		res.Err = fmt.Errorf("state database removed without a backup: %w", backupErr)
		return res
	}
	res.Kind = step.Done
	return res
}

func (p *Purger) removeTree(name, label, path string) step.Result {
	res := step.Result{Name: name, Path: path}

	exists, err := exists(path)
	if err != nil {
		p.Log.Error("Failed to clean %s %s: %v", label, path, err)
		res.Kind, res.Err = step.IOFailed, err
		return res
	}
	if !exists {
		p.Log.Info("No %s at %s", label, path)
		res.Kind = step.Absent
		return res
	}

	if err := os.RemoveAll(path); err != nil {
		p.Log.Error("Failed to clean %s %s: %v", label, path, err)
		res.Kind, res.Err = step.IOFailed, err
		return res
	}

	p.Log.Success("Removed %s: %s", label, path)
	res.Kind = step.Done
	return res
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
