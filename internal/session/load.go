package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads the state in dir. A missing state file yields an empty state.
func Load(dir string) (*State, error) {
	state := &State{}

	stateFile, err := os.ReadFile(filepath.Join(dir, stateFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(stateFile, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state file: %w", err)
	}
	return state, nil
}
