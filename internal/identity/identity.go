// Package identity regenerates the telemetry identifiers stored in the
// editor's global storage.json.
package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dchest/safefile"
	"github.com/google/uuid"

	"github.com/humanitec/cursor-reset/internal/message"
	"github.com/humanitec/cursor-reset/internal/step"
)

const (
	MachineIDKey = "telemetry.machineId"
	DeviceIDKey  = "telemetry.devDeviceId"

	StepName = "identity"
)

// GenerateMachineID returns two random UUIDs as 64 lowercase hex characters.
func GenerateMachineID() string {
	return hexUUID() + hexUUID()
}

// GenerateDeviceID returns a random UUID in canonical form.
func GenerateDeviceID() string {
	return uuid.NewString()
}

func hexUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type Backuper interface {
	Backup(path string, log message.Logger) (string, error)
}

// Mutator rewrites the identity fields. The ID generators default to
// GenerateMachineID and GenerateDeviceID when nil.
type Mutator struct {
	Backup       Backuper
	Log          message.Logger
	NewMachineID func() string
	NewDeviceID  func() string
}

// Reset replaces both identity fields in the settings file at path and keeps
// every other key. The file is only written after it parsed successfully.
func (m *Mutator) Reset(path string) step.Result {
	res := step.Result{Name: StepName, Path: path}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.Log.Warning("storage.json not found: %s", path)
			res.Kind = step.Missing
			res.Err = err
			return res
		}
		m.Log.Error("Failed to read %s: %v", path, err)
		res.Kind = step.IOFailed
		res.Err = err
		return res
	}

	_, backupErr := m.Backup.Backup(path, m.Log)

	data, err := os.ReadFile(path)
	if err != nil {
		m.Log.Error("Failed to read %s: %v", path, err)
		res.Kind = step.IOFailed
		res.Err = err
		return res
	}

	settings, err := parse(data)
	if err != nil {
		m.Log.Error("Failed to parse %s: %v", path, err)
		res.Kind = step.ParseFailed
		res.Err = err
		return res
	}

	machineID := m.machineID()
	deviceID := m.deviceID()
	settings[MachineIDKey] = machineID
	settings[DeviceIDKey] = deviceID

	out, err := encode(settings)
	if err != nil {
		m.Log.Error("Failed to encode %s: %v", path, err)
		res.Kind = step.IOFailed
		res.Err = err
		return res
	}

	if err := write(path, out, info.Mode().Perm()); err != nil {
		m.Log.Error("Failed to update %s: %v", path, err)
		res.Kind = step.IOFailed
		res.Err = err
		return res
	}

	m.Log.Success("Machine identifiers updated")
	m.Log.Info("  new machineId: %s", machineID)
	m.Log.Info("  new devDeviceId: %s", deviceID)

	if backupErr != nil {
		res.Kind = step.BackupFailed
		res.Err = fmt.Errorf("identity updated without a backup: %w", backupErr)
		return res
	}
	res.Kind = step.Done
	return res
}

func (m *Mutator) machineID() string {
	if m.NewMachineID != nil {
		return m.NewMachineID()
	}
	return GenerateMachineID()
}

func (m *Mutator) deviceID() string {
	if m.NewDeviceID != nil {
		return m.NewDeviceID()
	}
	return GenerateDeviceID()
}

// Values holds the identity fields currently on disk.
type Values struct {
	MachineID string
	DeviceID  string
}

// Read returns the current identity fields. Fields that are absent or not
// strings come back empty.
func Read(path string) (*Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	settings, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	v := &Values{}
	v.MachineID, _ = settings[MachineIDKey].(string)
	v.DeviceID, _ = settings[DeviceIDKey].(string)
	return v, nil
}

func parse(data []byte) (map[string]any, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("content is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var settings map[string]any
	if err := dec.Decode(&settings); err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, errors.New("top-level value is not a JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level object")
	}
	return settings, nil
}

func encode(settings map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func write(path string, data []byte, perm fs.FileMode) error {
	f, err := safefile.Create(path, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := f.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", path, err)
	}
	return nil
}
