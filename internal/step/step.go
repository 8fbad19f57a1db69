// Package step describes the outcome of a single reset step.
package step

import "fmt"

type Kind int

const (
	// Done means the step changed what it was supposed to change.
	Done Kind = iota
	// Absent means the target did not exist, which counts as success.
	Absent
	// Missing means a target the step needs to edit does not exist.
	Missing
	ParseFailed
	IOFailed
	// BackupFailed means the step went ahead but its backup copy could not be made.
	BackupFailed
)

func (k Kind) String() string {
	switch k {
	case Done:
		return "done"
	case Absent:
		return "absent"
	case Missing:
		return "missing"
	case ParseFailed:
		return "parse-failed"
	case IOFailed:
		return "io-failed"
	case BackupFailed:
		return "backup-failed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Result is what a step reports back to the orchestrator.
type Result struct {
	Name string
	Path string
	Kind Kind
	Err  error
}

func (r Result) OK() bool {
	return r.Kind == Done || r.Kind == Absent
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %s (%s): %v", r.Name, r.Kind, r.Path, r.Err)
	}
	return fmt.Sprintf("%s %s (%s)", r.Name, r.Kind, r.Path)
}

// AllOK reports whether every result succeeded.
func AllOK(results []Result) bool {
	for _, r := range results {
		if !r.OK() {
			return false
		}
	}
	return true
}
