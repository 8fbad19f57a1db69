package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func Save(dir string, state *State) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state file directory: %w", err)
	}

	stateFile, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, stateFileName), stateFile, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// Record loads the state in dir, appends run and saves it.
func Record(dir string, run Run) error {
	state, err := Load(dir)
	if err != nil {
		return err
	}
	state.Add(run)
	return Save(dir, state)
}
