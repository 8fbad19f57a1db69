// Package paths resolves the well-known locations the editor keeps its user
// data, caches and logs in. Resolution is a pure function of the OS variant
// and the environment; nothing here touches the filesystem.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrConfiguration       = errors.New("configuration error")
	ErrUnsupportedPlatform = fmt.Errorf("%w: unsupported platform", ErrConfiguration)
)

// MissingEnvError reports a required environment variable that is not set.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("required environment variable missing: %s", e.Name)
}

func (e *MissingEnvError) Unwrap() error {
	return ErrConfiguration
}

// Logical names of the resolved locations.
const (
	UserData         = "user_data"
	Cache            = "cache"
	StorageJSON      = "storage_json"
	StateDB          = "state_db"
	WorkspaceStorage = "workspace_storage"
	Extensions       = "extensions"
	Logs             = "logs"
)

// Names lists the logical names in reporting order.
var Names = []string{UserData, Cache, StorageJSON, StateDB, WorkspaceStorage, Extensions, Logs}

// App names the editor whose files are resolved. DisplayName is used for the
// capitalised user data folder ("Cursor"), DirName for the cache folder ("cursor").
type App struct {
	DisplayName string
	DirName     string
}

// DefaultApp is the Cursor editor.
var DefaultApp = App{DisplayName: "Cursor", DirName: "cursor"}

// Environment is the slice of the process environment the resolver reads.
type Environment interface {
	Getenv(key string) string
	HomeDir() (string, error)
}

type osEnvironment struct{}

func (osEnvironment) Getenv(key string) string { return os.Getenv(key) }

func (osEnvironment) HomeDir() (string, error) { return os.UserHomeDir() }

// SystemEnvironment reads the real process environment.
func SystemEnvironment() Environment {
	return osEnvironment{}
}

// Paths holds every resolved location.
type Paths struct {
	UserData         string
	Cache            string
	StorageJSON      string
	StateDB          string
	WorkspaceStorage string
	Extensions       string
	Logs             string
}

// Entry is one named location.
type Entry struct {
	Name string
	Path string
}

// Entries returns the locations keyed by logical name, in Names order.
func (p *Paths) Entries() []Entry {
	return []Entry{
		{UserData, p.UserData},
		{Cache, p.Cache},
		{StorageJSON, p.StorageJSON},
		{StateDB, p.StateDB},
		{WorkspaceStorage, p.WorkspaceStorage},
		{Extensions, p.Extensions},
		{Logs, p.Logs},
	}
}

// Map returns the locations as a name to path mapping.
func (p *Paths) Map() map[string]string {
	m := make(map[string]string, len(Names))
	for _, e := range p.Entries() {
		m[e.Name] = e.Path
	}
	return m
}

// Resolve computes the editor's locations for the given OS.
func Resolve(o OS, app App, env Environment) (*Paths, error) {
	var userData, cache string

	switch o {
	case Windows:
		appData := env.Getenv("APPDATA")
		if appData == "" {
			return nil, &MissingEnvError{Name: "APPDATA"}
		}
		localAppData := env.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			return nil, &MissingEnvError{Name: "LOCALAPPDATA"}
		}
		userData = filepath.Join(appData, app.DisplayName, "User")
		cache = filepath.Join(localAppData, app.DirName)
	case MacOS:
		home, err := homeDir(env)
		if err != nil {
			return nil, err
		}
		userData = filepath.Join(home, "Library", "Application Support", app.DisplayName, "User")
		cache = filepath.Join(home, "Library", "Caches", app.DirName)
	case Linux:
		home, err := homeDir(env)
		if err != nil {
			return nil, err
		}
		userData = filepath.Join(home, ".config", app.DisplayName, "User")
		cache = filepath.Join(home, ".cache", app.DirName)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, o)
	}

	globalStorage := filepath.Join(userData, "globalStorage")
	return &Paths{
		UserData:         userData,
		Cache:            cache,
		StorageJSON:      filepath.Join(globalStorage, "storage.json"),
		StateDB:          filepath.Join(globalStorage, "state.vscdb"),
		WorkspaceStorage: filepath.Join(userData, "workspaceStorage"),
		Extensions:       filepath.Join(userData, "extensions"),
		Logs:             filepath.Join(filepath.Dir(userData), "logs"),
	}, nil
}

func homeDir(env Environment) (string, error) {
	home, err := env.HomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: cannot determine home directory: %v", ErrConfiguration, err)
	}
	if home == "" {
		return "", fmt.Errorf("%w: empty home directory", ErrConfiguration)
	}
	return home, nil
}
