// Package cleaner sequences the identity reset and purge steps into the
// named operation modes.
package cleaner

import (
	"fmt"
	"os"

	"github.com/humanitec/cursor-reset/internal/identity"
	"github.com/humanitec/cursor-reset/internal/message"
	"github.com/humanitec/cursor-reset/internal/paths"
	"github.com/humanitec/cursor-reset/internal/purge"
	"github.com/humanitec/cursor-reset/internal/step"
)

type Prober interface {
	IsRunning() bool
	RequestStop() bool
}

type Backuper interface {
	Backup(path string, log message.Logger) (string, error)
	Dir() string
	Created() bool
}

type Options struct {
	OS     paths.OS
	App    paths.App
	Env    paths.Environment
	Probe  Prober
	Backup Backuper
	// StopFirst asks the editor to stop before anything is changed.
	StopFirst bool
}

type Cleaner struct {
	opts Options
}

func New(opts Options) *Cleaner {
	return &Cleaner{opts: opts}
}

type PathStatus struct {
	Name   string
	Path   string
	Exists bool
}

type Info struct {
	OS       paths.OS
	Running  bool
	Paths    []PathStatus
	Identity *identity.Values
}

type Report struct {
	Mode    Mode
	Steps   []step.Result
	Success bool
	// Running is the editor's state when the run finished.
	Running   bool
	BackupDir string
	Info      *Info
}

// Failed returns the steps that did not succeed.
func (r *Report) Failed() []step.Result {
	var failed []step.Result
	for _, s := range r.Steps {
		if !s.OK() {
			failed = append(failed, s)
		}
	}
	return failed
}

// Run executes mode. The returned error is only set when the editor's paths
// cannot be resolved, in which case no step ran. Step failures never stop the
// sequence; they show up in the report.
func (c *Cleaner) Run(mode Mode, log message.Logger) (*Report, error) {
	p, err := paths.Resolve(c.opts.OS, c.opts.App, c.opts.Env)
	if err != nil {
		log.Error("Failed to resolve %s paths: %v", c.opts.App.DisplayName, err)
		return nil, err
	}

	report := &Report{Mode: mode}

	switch mode {
	case ModeInfo:
		report.Info = c.info(p, log)
		report.Running = report.Info.Running
		report.Success = true
		return report, nil
	case ModeCacheOnly:
		log.Info("Cleaning cache...")
		report.Steps = append(report.Steps, c.purger(log).CacheDir(p.Cache))
	case ModeIdentityOnly:
		log.Info("Resetting machine identifiers...")
		c.prepare(log)
		report.Steps = append(report.Steps, c.mutator(log).Reset(p.StorageJSON))
	case ModeFull:
		log.Info("Starting full clean...")
		c.prepare(log)
		purger := c.purger(log)

		log.Info("Updating machine identifiers...")
		report.Steps = append(report.Steps, c.mutator(log).Reset(p.StorageJSON))
		log.Info("Cleaning state database...")
		report.Steps = append(report.Steps, purger.StateDB(p.StateDB))
		log.Info("Cleaning cache directory...")
		report.Steps = append(report.Steps, purger.CacheDir(p.Cache))
		log.Info("Cleaning workspace storage...")
		report.Steps = append(report.Steps, purger.WorkspaceStorage(p.WorkspaceStorage))
		log.Info("Cleaning logs...")
		report.Steps = append(report.Steps, purger.Logs(p.Logs))
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	report.Success = step.AllOK(report.Steps)
	if c.opts.Backup.Created() {
		report.BackupDir = c.opts.Backup.Dir()
	}
	if mode != ModeCacheOnly {
		report.Running = c.opts.Probe.IsRunning()
	}
	c.summarize(report, log)
	return report, nil
}

// Outcome is what Start delivers.
type Outcome struct {
	Report *Report
	Err    error
}

// Start runs mode on its own goroutine. The channel receives exactly one
// Outcome and is then closed.
func (c *Cleaner) Start(mode Mode, log message.Logger) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		report, err := c.Run(mode, log)
		ch <- Outcome{Report: report, Err: err}
	}()
	return ch
}

// prepare warns about a running editor and stops it when asked to. The run
// continues either way.
func (c *Cleaner) prepare(log message.Logger) {
	if !c.opts.Probe.IsRunning() {
		return
	}
	name := c.opts.App.DisplayName

	if c.opts.StopFirst {
		log.Info("Stopping %s...", name)
		if c.opts.Probe.RequestStop() {
			log.Success("%s stopped", name)
			return
		}
		log.Warning("Could not stop %s, please close it manually", name)
	} else {
		log.Warning("%s is running", name)
		log.Warning("Close %s first so the changes are not overwritten", name)
	}
	log.Info("Continuing...")
}

func (c *Cleaner) info(p *paths.Paths, log message.Logger) *Info {
	info := &Info{
		OS:      c.opts.OS,
		Running: c.opts.Probe.IsRunning(),
	}

	log.Info("Operating system: %s", info.OS)
	if info.Running {
		log.Info("%s status: running", c.opts.App.DisplayName)
	} else {
		log.Info("%s status: not running", c.opts.App.DisplayName)
	}

	log.Info("%s paths:", c.opts.App.DisplayName)
	for _, e := range p.Entries() {
		_, err := os.Stat(e.Path)
		ps := PathStatus{Name: e.Name, Path: e.Path, Exists: err == nil}
		info.Paths = append(info.Paths, ps)
		if ps.Exists {
			log.Info("  %s: found %s", ps.Name, ps.Path)
		} else {
			log.Info("  %s: missing %s", ps.Name, ps.Path)
		}
	}

	values, err := identity.Read(p.StorageJSON)
	if err != nil {
		log.Debug("Identity not readable: %v", err)
		return info
	}
	info.Identity = values
	log.Info("  machineId: %s", values.MachineID)
	log.Info("  devDeviceId: %s", values.DeviceID)
	return info
}

func (c *Cleaner) summarize(r *Report, log message.Logger) {
	name := c.opts.App.DisplayName

	if !r.Success {
		for _, s := range r.Failed() {
			log.Error("Step %s failed: %v", s.Name, s.Err)
		}
		log.Warning("Finished with errors, check the messages above")
		return
	}

	log.Success("Done: %s", r.Mode)
	if r.BackupDir != "" {
		log.Info("Backups saved in: %s", r.BackupDir)
	}
	if r.Mode == ModeCacheOnly {
		return
	}
	if r.Running {
		log.Warning("%s is still running, restart it for the changes to take effect", name)
	} else {
		log.Info("Restart %s for the changes to take effect", name)
	}
}

func (c *Cleaner) purger(log message.Logger) *purge.Purger {
	return &purge.Purger{Backup: c.opts.Backup, Log: log}
}

func (c *Cleaner) mutator(log message.Logger) *identity.Mutator {
	return &identity.Mutator{Backup: c.opts.Backup, Log: log}
}
