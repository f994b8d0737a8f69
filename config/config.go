// Package config loads the TOML configuration file (~/.nizami/config.toml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/warp/nizami/attendance"
)

const (
	DriverSQLite = "sqlite"
	DriverJSON   = "json"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Payroll PayrollConfig `toml:"payroll"`
	Owner   OwnerConfig   `toml:"owner"`
}

type ServerConfig struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type StorageConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

type PayrollConfig struct {
	PayrollDay    int `toml:"payroll_day"`
	ShiftDuration int `toml:"shift_duration"`
}

type OwnerConfig struct {
	Passcode string `toml:"passcode"`
	Language string `toml:"language"`
}

func DefaultConfig() *Config {
	dir, _ := NizamiDir()
	defaults := attendance.DefaultSettings()
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   filepath.Join(dir, "db", "nizami.sqlite"),
		},
		Payroll: PayrollConfig{
			PayrollDay:    defaults.PayrollDay,
			ShiftDuration: defaults.ShiftDuration,
		},
		Owner: OwnerConfig{
			Passcode: defaults.OwnerPasscode,
			Language: string(defaults.Language),
		},
	}
}

func NizamiDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".nizami"), nil
}

func ConfigPath() (string, error) {
	dir, err := NizamiDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config at path, or at ConfigPath() when path is empty.
// A missing file is created with the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Storage.Driver {
	case DriverSQLite, DriverJSON:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverSQLite, DriverJSON, c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return errors.New("storage.path must not be empty")
	}
	return c.Settings().Validate()
}

// Settings returns the engine settings seeded from the file. They only
// apply to a store that has no settings yet.
func (c *Config) Settings() attendance.Settings {
	return attendance.Settings{
		PayrollDay:    c.Payroll.PayrollDay,
		OwnerPasscode: c.Owner.Passcode,
		ShiftDuration: c.Payroll.ShiftDuration,
		Language:      attendance.Language(c.Owner.Language),
	}
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
