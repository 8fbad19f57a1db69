package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// SessionInfo summarises one backup directory.
type SessionInfo struct {
	Name  string
	Path  string
	Files int
	Bytes int64
}

// Inventory summarises everything under a backup root.
type Inventory struct {
	Root     string
	Sessions []SessionInfo
	Files    int
	Bytes    int64
}

// Scan walks root. A missing root yields an empty inventory.
func Scan(root string) (*Inventory, error) {
	inv := &Inventory{Root: root}

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return inv, nil
		}
		return nil, fmt.Errorf("reading directory %s: %w", root, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		s := SessionInfo{Name: entry.Name(), Path: filepath.Join(root, entry.Name())}
		err := filepath.WalkDir(s.Path, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			s.Files++
			s.Bytes += info.Size()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", s.Path, err)
		}
		inv.Sessions = append(inv.Sessions, s)
		inv.Files += s.Files
		inv.Bytes += s.Bytes
	}

	sort.Slice(inv.Sessions, func(i, j int) bool {
		return inv.Sessions[i].Name < inv.Sessions[j].Name
	})
	return inv, nil
}

// RemoveAll deletes the backup root and everything in it.
func RemoveAll(root string) error {
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("removing %s: %w", root, err)
	}
	return nil
}

// FormatSize renders a byte count the way the backup summary shows it.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
