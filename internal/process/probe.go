// Package process finds and stops the running editor.
package process

import (
	"context"
	"os"
	"regexp"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/humanitec/cursor-reset/internal/paths"
	"github.com/humanitec/cursor-reset/internal/utils"
)

// DefaultPattern is the broad fallback. It matches any executable whose name
// contains "cursor" or "Cursor", including unrelated ones.
var DefaultPattern = regexp.MustCompile(`[Cc]ursor`)

// DefaultName returns the editor's executable name on o.
func DefaultName(o paths.OS) string {
	if o == paths.Windows {
		return "cursor.exe"
	}
	return "cursor"
}

type Lister func() ([]ps.Process, error)

type Killer func(pid int) error

// Probe matches processes by exact executable name first and by Pattern
// second. A nil Pattern disables the second pass. Its own PID never matches.
type Probe struct {
	Name            string
	Pattern         *regexp.Regexp
	CaseInsensitive bool

	List Lister
	Kill Killer

	self int
}

// NewProbe builds a probe over the live process table. An empty name or nil
// pattern selects the defaults. Windows matches the executable name only and
// never uses a pattern.
func NewProbe(o paths.OS, name string, pattern *regexp.Regexp) *Probe {
	if name == "" {
		name = DefaultName(o)
	}
	switch {
	case o == paths.Windows:
		pattern = nil
	case pattern == nil:
		pattern = DefaultPattern
	}
	return &Probe{
		Name:            name,
		Pattern:         pattern,
		CaseInsensitive: o == paths.Windows,
		List:            ps.Processes,
		Kill:            killPID,
		self:            os.Getpid(),
	}
}

func killPID(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}

// IsRunning reports whether the editor appears in the process table. A
// failure to read the table counts as not running.
func (p *Probe) IsRunning() bool {
	procs, err := p.List()
	if err != nil {
		return false
	}
	return len(p.exact(procs)) > 0 || len(p.broad(procs)) > 0
}

// RequestStop force-kills the editor. It kills exact-name matches first and
// only falls back to pattern matches when there were none or a kill failed.
func (p *Probe) RequestStop() bool {
	procs, err := p.List()
	if err != nil {
		return true
	}

	exact := p.exact(procs)
	broad := p.broad(procs)
	if len(exact) == 0 && len(broad) == 0 {
		return true
	}

	if len(exact) > 0 && p.killAll(exact) {
		return true
	}
	if len(broad) == 0 {
		return false
	}
	return p.killAll(broad)
}

// WaitForExit polls until the editor is gone, the timeout passes or ctx ends.
func (p *Probe) WaitForExit(ctx context.Context, timeout, interval time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		if !p.IsRunning() {
			return true
		}
		if !utils.Sleep(ctx, interval) {
			return !p.IsRunning()
		}
	}
}

func (p *Probe) exact(procs []ps.Process) []int {
	var pids []int
	for _, proc := range procs {
		if proc.Pid() == p.self {
			continue
		}
		exe := proc.Executable()
		if exe == p.Name || (p.CaseInsensitive && strings.EqualFold(exe, p.Name)) {
			pids = append(pids, proc.Pid())
		}
	}
	return pids
}

func (p *Probe) broad(procs []ps.Process) []int {
	if p.Pattern == nil {
		return nil
	}
	var pids []int
	for _, proc := range procs {
		if proc.Pid() == p.self {
			continue
		}
		if p.Pattern.MatchString(proc.Executable()) {
			pids = append(pids, proc.Pid())
		}
	}
	return pids
}

func (p *Probe) killAll(pids []int) bool {
	ok := true
	for _, pid := range pids {
		if err := p.Kill(pid); err != nil {
			ok = false
		}
	}
	return ok
}
