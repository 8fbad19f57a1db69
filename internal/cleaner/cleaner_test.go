package cleaner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanitec/cursor-reset/internal/backup"
	"github.com/humanitec/cursor-reset/internal/identity"
	"github.com/humanitec/cursor-reset/internal/message"
	"github.com/humanitec/cursor-reset/internal/paths"
	"github.com/humanitec/cursor-reset/internal/step"
)

type fakeEnv struct {
	home string
	vars map[string]string
}

func (f fakeEnv) Getenv(key string) string { return f.vars[key] }

func (f fakeEnv) HomeDir() (string, error) { return f.home, nil }

type fakeProbe struct {
	running   bool
	stopOK    bool
	stopCalls int
}

func (f *fakeProbe) IsRunning() bool { return f.running }

func (f *fakeProbe) RequestStop() bool {
	f.stopCalls++
	if f.stopOK {
		f.running = false
	}
	return f.stopOK
}

type fixture struct {
	home    string
	paths   *paths.Paths
	session *backup.Session
	probe   *fakeProbe
	log     *message.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	home := filepath.Join(base, "home")
	p, err := paths.Resolve(paths.Linux, paths.DefaultApp, fakeEnv{home: home})
	require.NoError(t, err)

	rec := &message.Recorder{}
	return &fixture{
		home:    home,
		paths:   p,
		session: backup.NewSession(filepath.Join(base, "cursor_backup"), time.Date(2025, 5, 29, 10, 0, 0, 0, time.Local)),
		probe:   &fakeProbe{},
		log:     rec,
	}
}

func (f *fixture) cleaner(stopFirst bool) *Cleaner {
	return New(Options{
		OS:        paths.Linux,
		App:       paths.DefaultApp,
		Env:       fakeEnv{home: f.home},
		Probe:     f.probe,
		Backup:    f.session,
		StopFirst: stopFirst,
	})
}

func (f *fixture) populate(t *testing.T) {
	t.Helper()
	writeFile(t, f.paths.StorageJSON, `{"telemetry.machineId":"A","telemetry.devDeviceId":"B","keep":"me"}`)
	writeFile(t, f.paths.StateDB, "sqlite")
	writeFile(t, filepath.Join(f.paths.Cache, "Cache_Data", "data_0"), "x")
	writeFile(t, filepath.Join(f.paths.WorkspaceStorage, "abc", "workspace.json"), "{}")
	writeFile(t, filepath.Join(f.paths.Logs, "20250529", "main.log"), "log")
	writeFile(t, filepath.Join(f.paths.Extensions, "ext", "package.json"), "{}")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func stepKinds(r *Report) []step.Kind {
	var kinds []step.Kind
	for _, s := range r.Steps {
		kinds = append(kinds, s.Kind)
	}
	return kinds
}

func TestRun_Full(t *testing.T) {
	f := newFixture(t)
	f.populate(t)

	report, err := f.cleaner(false).Run(ModeFull, f.log)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, []step.Kind{step.Done, step.Done, step.Done, step.Done, step.Done}, stepKinds(report))

	assert.False(t, exists(f.paths.StateDB))
	assert.False(t, exists(f.paths.Cache))
	assert.False(t, exists(f.paths.WorkspaceStorage))
	assert.False(t, exists(f.paths.Logs))
	assert.True(t, exists(f.paths.Extensions), "extensions are never touched")

	values, err := identity.Read(f.paths.StorageJSON)
	require.NoError(t, err)
	assert.NotEqual(t, "A", values.MachineID)
	assert.NotEqual(t, "B", values.DeviceID)

	assert.Equal(t, f.session.Dir(), report.BackupDir)
	assert.True(t, exists(filepath.Join(report.BackupDir, "storage.json")))
	assert.True(t, exists(filepath.Join(report.BackupDir, "state.vscdb")))
}

func TestRun_FullContinuesAfterFailure(t *testing.T) {
	f := newFixture(t)
	f.populate(t)

	// make the state database step fail: os.Remove refuses a non-empty directory
	require.NoError(t, os.Remove(f.paths.StateDB))
	writeFile(t, filepath.Join(f.paths.StateDB, "blocker"), "x")

	report, err := f.cleaner(false).Run(ModeFull, f.log)
	require.NoError(t, err)
	assert.False(t, report.Success)
	require.Len(t, report.Steps, 5)

	assert.Equal(t, step.Done, report.Steps[0].Kind)
	assert.False(t, report.Steps[1].OK())
	assert.Equal(t, step.Done, report.Steps[2].Kind)
	assert.Equal(t, step.Done, report.Steps[3].Kind)
	assert.Equal(t, step.Done, report.Steps[4].Kind)

	assert.False(t, exists(f.paths.Cache))
	assert.False(t, exists(f.paths.WorkspaceStorage))
	assert.False(t, exists(f.paths.Logs))
	assert.Len(t, report.Failed(), 1)
	assert.Positive(t, f.log.Count(message.LevelError))
}

func TestRun_FullOnCleanMachine(t *testing.T) {
	f := newFixture(t)

	report, err := f.cleaner(false).Run(ModeFull, f.log)
	require.NoError(t, err)
	assert.False(t, report.Success, "a missing storage.json fails the identity step")
	assert.Equal(t, []step.Kind{step.Missing, step.Absent, step.Absent, step.Absent, step.Absent}, stepKinds(report))
	assert.Empty(t, report.BackupDir)
	assert.False(t, f.session.Created())
}

func TestRun_CacheOnly(t *testing.T) {
	f := newFixture(t)
	f.populate(t)

	report, err := f.cleaner(false).Run(ModeCacheOnly, f.log)
	require.NoError(t, err)
	assert.True(t, report.Success)
	require.Len(t, report.Steps, 1)

	assert.False(t, exists(f.paths.Cache))
	assert.True(t, exists(f.paths.StateDB))
	assert.True(t, exists(f.paths.Logs))

	values, err := identity.Read(f.paths.StorageJSON)
	require.NoError(t, err)
	assert.Equal(t, "A", values.MachineID)
}

func TestRun_IdentityOnlyWarnsWhenRunning(t *testing.T) {
	f := newFixture(t)
	f.populate(t)
	f.probe.running = true

	report, err := f.cleaner(false).Run(ModeIdentityOnly, f.log)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.True(t, report.Running)
	assert.Zero(t, f.probe.stopCalls)
	assert.GreaterOrEqual(t, f.log.Count(message.LevelWarning), 1)
	assert.True(t, exists(f.paths.Cache))

	data, err := os.ReadFile(f.paths.StorageJSON)
	require.NoError(t, err)
	var settings map[string]any
	require.NoError(t, json.Unmarshal(data, &settings))
	assert.Equal(t, "me", settings["keep"])
	assert.NotEqual(t, "A", settings[identity.MachineIDKey])
}

func TestRun_StopFirst(t *testing.T) {
	f := newFixture(t)
	f.populate(t)
	f.probe.running = true
	f.probe.stopOK = true

	report, err := f.cleaner(true).Run(ModeIdentityOnly, f.log)
	require.NoError(t, err)
	assert.Equal(t, 1, f.probe.stopCalls)
	assert.False(t, report.Running)
}

func TestRun_StopFirstFailureContinues(t *testing.T) {
	f := newFixture(t)
	f.populate(t)
	f.probe.running = true

	report, err := f.cleaner(true).Run(ModeFull, f.log)
	require.NoError(t, err)
	assert.Equal(t, 1, f.probe.stopCalls)
	assert.True(t, report.Success)
	assert.False(t, exists(f.paths.Cache))
}

func TestRun_Info(t *testing.T) {
	f := newFixture(t)
	f.populate(t)
	require.NoError(t, os.RemoveAll(f.paths.Logs))

	report, err := f.cleaner(false).Run(ModeInfo, f.log)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Empty(t, report.Steps)
	require.NotNil(t, report.Info)
	require.Len(t, report.Info.Paths, len(paths.Names))

	for _, ps := range report.Info.Paths {
		if ps.Name == paths.Logs {
			assert.False(t, ps.Exists)
		} else {
			assert.True(t, ps.Exists, ps.Name)
		}
	}
	require.NotNil(t, report.Info.Identity)
	assert.Equal(t, "A", report.Info.Identity.MachineID)
	assert.True(t, exists(f.paths.Cache), "info must not modify anything")
}

func TestRun_ConfigurationErrorAbortsEverything(t *testing.T) {
	f := newFixture(t)
	c := New(Options{
		OS:     paths.Windows,
		App:    paths.DefaultApp,
		Env:    fakeEnv{vars: map[string]string{}},
		Probe:  f.probe,
		Backup: f.session,
	})

	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			report, err := c.Run(mode, f.log)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, paths.ErrConfiguration)
		})
	}
	assert.False(t, f.session.Created())
}

func TestStart(t *testing.T) {
	f := newFixture(t)
	f.populate(t)

	ch := f.cleaner(false).Start(ModeCacheOnly, f.log)
	outcome, ok := <-ch
	require.True(t, ok)
	require.NoError(t, outcome.Err)
	assert.True(t, outcome.Report.Success)

	_, ok = <-ch
	assert.False(t, ok, "channel is closed after the outcome")
}

func TestStart_BackupLinesReachRunLogger(t *testing.T) {
	f := newFixture(t)
	f.populate(t)
	runLog := &message.Recorder{}

	outcome := <-f.cleaner(false).Start(ModeFull, runLog)
	require.NoError(t, outcome.Err)

	var backedUp []string
	for _, e := range runLog.Entries() {
		if strings.HasPrefix(e.Text, "Backed up: ") {
			backedUp = append(backedUp, e.Text)
		}
	}
	require.Len(t, backedUp, 2)
	assert.Contains(t, backedUp[0], f.paths.StorageJSON)
	assert.Contains(t, backedUp[1], f.paths.StateDB)
	assert.Empty(t, f.log.Entries(), "nothing goes to a logger other than the run's")
}

func TestRun_BackupFailureIsLoggedWithPath(t *testing.T) {
	f := newFixture(t)
	f.populate(t)
	require.NoError(t, os.Remove(f.paths.StateDB))
	writeFile(t, filepath.Join(f.paths.StateDB, "blocker"), "x")

	_, err := f.cleaner(false).Run(ModeFull, f.log)
	require.NoError(t, err)

	var found bool
	for _, e := range f.log.Entries() {
		if e.Level == message.LevelError && strings.HasPrefix(e.Text, "Backup failed "+f.paths.StateDB) {
			found = true
		}
	}
	assert.True(t, found, "backup failure is reported through the run's logger")
}

func TestParseMode(t *testing.T) {
	var tests = []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeFull, false},
		{"full", ModeFull, false},
		{"cache", ModeCacheOnly, false},
		{"cache-only", ModeCacheOnly, false},
		{"machine-id-only", ModeIdentityOnly, false},
		{"identity", ModeIdentityOnly, false},
		{"INFO", ModeInfo, false},
		{"everything", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMode(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
