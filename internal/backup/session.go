// Package backup copies files into a per-run timestamped directory before
// they are rewritten or deleted.
package backup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/humanitec/cursor-reset/internal/message"
)

const (
	// DefaultRoot is relative to the working directory.
	DefaultRoot = "cursor_backup"

	sessionLayout = "20060102_150405"
)

// Session is one run's backup directory. The directory is created on the
// first successful Backup call. Files with the same base name overwrite each
// other within a session.
type Session struct {
	dir     string
	created bool
}

func NewSession(root string, started time.Time) *Session {
	return &Session{
		dir: filepath.Join(root, started.Format(sessionLayout)),
	}
}

func (s *Session) Dir() string {
	return s.dir
}

// Created reports whether anything was backed up in this session.
func (s *Session) Created() bool {
	return s.created
}

// Backup copies path into the session directory and returns the copy's path.
// A missing source returns "" and a nil error. Progress and failures go to log.
func (s *Session) Backup(path string, log message.Logger) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		log.Error("Backup failed %s: %v", path, err)
		return "", err
	}
	if !info.Mode().IsRegular() {
		err := fmt.Errorf("%s is not a regular file", path)
		log.Error("Backup failed %s: %v", path, err)
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		err = fmt.Errorf("creating backup directory %s: %w", s.dir, err)
		log.Error("Backup failed %s: %v", path, err)
		return "", err
	}
	s.created = true

	dst := filepath.Join(s.dir, filepath.Base(path))
	if err := copyFile(path, dst, info); err != nil {
		log.Error("Backup failed %s: %v", path, err)
		return "", err
	}

	log.Info("Backed up: %s -> %s", path, dst)
	return dst, nil
}

func copyFile(src, dst string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting mode on %s: %w", dst, err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("setting times on %s: %w", dst, err)
	}
	return nil
}

// None is used when backups are turned off.
type None struct{}

func (None) Backup(string, message.Logger) (string, error) { return "", nil }
func (None) Dir() string                                   { return "" }
func (None) Created() bool                                 { return false }
