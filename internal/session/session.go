// Package session keeps a short history of reset runs in the user's home
// directory.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	stateFileName      = "state.json"
	stateFileDirectory = ".cursor-reset"

	// MaxRuns is how many runs are kept.
	MaxRuns = 20
)

type State struct {
	Runs []Run `json:"runs"`
}

type Run struct {
	ID         string      `json:"id"`
	Mode       string      `json:"mode"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
	Success    bool        `json:"success"`
	BackupDir  string      `json:"backupDir,omitempty"`
	Steps      []StepState `json:"steps,omitempty"`
}

type StepState struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Error string `json:"error,omitempty"`
}

// NewRun returns a run with a fresh id.
func NewRun(mode string, started time.Time) Run {
	return Run{
		ID:        uuid.NewString(),
		Mode:      mode,
		StartedAt: started,
	}
}

// Add appends run and drops the oldest runs beyond MaxRuns.
func (s *State) Add(run Run) {
	s.Runs = append(s.Runs, run)
	if len(s.Runs) > MaxRuns {
		s.Runs = append([]Run(nil), s.Runs[len(s.Runs)-MaxRuns:]...)
	}
}

// Last returns the most recent run.
func (s *State) Last() (Run, bool) {
	if len(s.Runs) == 0 {
		return Run{}, false
	}
	return s.Runs[len(s.Runs)-1], true
}

// DefaultDir returns ~/.cursor-reset.
func DefaultDir() (string, error) {
	dirname, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(dirname, stateFileDirectory), nil
}
