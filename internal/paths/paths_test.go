package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnv struct {
	vars    map[string]string
	home    string
	homeErr error
}

func (f fakeEnv) Getenv(key string) string { return f.vars[key] }

func (f fakeEnv) HomeDir() (string, error) { return f.home, f.homeErr }

func TestResolve_AllPlatformsHaveSameKeys(t *testing.T) {
	base := t.TempDir()
	env := fakeEnv{
		vars: map[string]string{
			"APPDATA":      filepath.Join(base, "Roaming"),
			"LOCALAPPDATA": filepath.Join(base, "Local"),
		},
		home: filepath.Join(base, "home"),
	}

	for _, o := range []OS{Linux, MacOS, Windows} {
		t.Run(o.String(), func(t *testing.T) {
			p, err := Resolve(o, DefaultApp, env)
			require.NoError(t, err)

			m := p.Map()
			assert.Len(t, m, len(Names))
			for _, name := range Names {
				path, ok := m[name]
				require.True(t, ok, "missing key %s", name)
				assert.NotEmpty(t, path)
				assert.True(t, filepath.IsAbs(path), "%s = %q is not absolute", name, path)
			}
		})
	}
}

func TestResolve_PlatformLocations(t *testing.T) {
	base := t.TempDir()
	home := filepath.Join(base, "home")
	roaming := filepath.Join(base, "Roaming")
	local := filepath.Join(base, "Local")
	env := fakeEnv{
		vars: map[string]string{"APPDATA": roaming, "LOCALAPPDATA": local},
		home: home,
	}

	var tests = []struct {
		os       OS
		userData string
		cache    string
	}{
		{Linux, filepath.Join(home, ".config", "Cursor", "User"), filepath.Join(home, ".cache", "cursor")},
		{MacOS, filepath.Join(home, "Library", "Application Support", "Cursor", "User"), filepath.Join(home, "Library", "Caches", "cursor")},
		{Windows, filepath.Join(roaming, "Cursor", "User"), filepath.Join(local, "cursor")},
	}

	for _, tc := range tests {
		t.Run(tc.os.String(), func(t *testing.T) {
			p, err := Resolve(tc.os, DefaultApp, env)
			require.NoError(t, err)

			assert.Equal(t, tc.userData, p.UserData)
			assert.Equal(t, tc.cache, p.Cache)
			assert.Equal(t, filepath.Join(tc.userData, "globalStorage", "storage.json"), p.StorageJSON)
			assert.Equal(t, filepath.Join(tc.userData, "globalStorage", "state.vscdb"), p.StateDB)
			assert.Equal(t, filepath.Join(tc.userData, "workspaceStorage"), p.WorkspaceStorage)
			assert.Equal(t, filepath.Join(tc.userData, "extensions"), p.Extensions)
			assert.Equal(t, filepath.Join(filepath.Dir(tc.userData), "logs"), p.Logs)
		})
	}
}

func TestResolve_WindowsRequiresEnv(t *testing.T) {
	var tests = []struct {
		name    string
		vars    map[string]string
		missing string
	}{
		{"no APPDATA", map[string]string{"LOCALAPPDATA": "/local"}, "APPDATA"},
		{"no LOCALAPPDATA", map[string]string{"APPDATA": "/roaming"}, "LOCALAPPDATA"},
		{"neither", map[string]string{}, "APPDATA"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(Windows, DefaultApp, fakeEnv{vars: tc.vars})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)

			var missing *MissingEnvError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tc.missing, missing.Name)
		})
	}
}

func TestResolve_UnsupportedPlatform(t *testing.T) {
	_, err := Resolve(Unknown, DefaultApp, fakeEnv{home: t.TempDir()})
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestResolve_HomeDirFailure(t *testing.T) {
	_, err := Resolve(Linux, DefaultApp, fakeEnv{homeErr: errors.New("no home")})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestParseOS(t *testing.T) {
	var tests = []struct {
		in      string
		want    OS
		wantErr bool
	}{
		{"linux", Linux, false},
		{"darwin", MacOS, false},
		{"macos", MacOS, false},
		{"Windows", Windows, false},
		{"plan9", Unknown, true},
		{"", Unknown, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseOS(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedPlatform)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEntries_Order(t *testing.T) {
	p, err := Resolve(Linux, DefaultApp, fakeEnv{home: t.TempDir()})
	require.NoError(t, err)

	entries := p.Entries()
	require.Len(t, entries, len(Names))
	for i, e := range entries {
		assert.Equal(t, Names[i], e.Name)
	}
}
