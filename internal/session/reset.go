package session

import (
	"fmt"
	"os"
	"path/filepath"
)

func Reset(dir string) error {
	if err := os.RemoveAll(filepath.Join(dir, stateFileName)); err != nil {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}
