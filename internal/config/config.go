// Package config loads the tool's own settings from ~/.cursor-reset.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v2"

	"github.com/humanitec/cursor-reset/internal/backup"
	"github.com/humanitec/cursor-reset/internal/paths"
	"github.com/humanitec/cursor-reset/internal/utils"
)

const fileName = ".cursor-reset.yaml"

type Config struct {
	AppName        string `yaml:"app_name"`
	AppDir         string `yaml:"app_dir"`
	ProcessName    string `yaml:"process_name"`
	ProcessPattern string `yaml:"process_pattern"`
	BackupRoot     string `yaml:"backup_root"`
	Backup         *bool  `yaml:"backup"`
	History        *bool  `yaml:"history"`
	LogFile        string `yaml:"log_file"`
}

// DefaultPath returns ~/.cursor-reset.yaml, or "" without a home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fileName)
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		AppName:        paths.DefaultApp.DisplayName,
		AppDir:         paths.DefaultApp.DirName,
		ProcessPattern: `[Cc]ursor`,
		BackupRoot:     backup.DefaultRoot,
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.merge(&file)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	c.AppName = utils.FirstNonEmpty(o.AppName, c.AppName)
	c.AppDir = utils.FirstNonEmpty(o.AppDir, c.AppDir)
	c.ProcessName = utils.FirstNonEmpty(o.ProcessName, c.ProcessName)
	c.ProcessPattern = utils.FirstNonEmpty(o.ProcessPattern, c.ProcessPattern)
	c.BackupRoot = utils.FirstNonEmpty(o.BackupRoot, c.BackupRoot)
	c.LogFile = utils.FirstNonEmpty(o.LogFile, c.LogFile)
	if o.Backup != nil {
		c.Backup = o.Backup
	}
	if o.History != nil {
		c.History = o.History
	}
}

func (c *Config) Validate() error {
	if c.AppName == "" || c.AppDir == "" {
		return errors.New("app_name and app_dir must not be empty")
	}
	if _, err := regexp.Compile(c.ProcessPattern); err != nil {
		return fmt.Errorf("process_pattern: %w", err)
	}
	return nil
}

func (c *Config) App() paths.App {
	return paths.App{DisplayName: c.AppName, DirName: c.AppDir}
}

// Pattern compiles ProcessPattern. Validate has already checked it.
func (c *Config) Pattern() *regexp.Regexp {
	if c.ProcessPattern == "" {
		return nil
	}
	return regexp.MustCompile(c.ProcessPattern)
}

func (c *Config) BackupEnabled() bool {
	return utils.DeRefOr(c.Backup, true)
}

func (c *Config) HistoryEnabled() bool {
	return utils.DeRefOr(c.History, true)
}
