// Package config loads CLI settings from defaults, a YAML file and flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// FileName is the config file looked up inside Dir().
const FileName = "config.yaml"

// Config holds every setting the CLI needs to assemble the application.
type Config struct {
	Backend    string        `yaml:"backend" validate:"oneof=file sqlite postgres memory"`
	DataDir    string        `yaml:"data_dir" validate:"required_if=Backend file"`
	DSN        string        `yaml:"dsn" validate:"required_if=Backend postgres"`
	SQLitePath string        `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
	Passphrase string        `yaml:"passphrase"`
	SessionTTL time.Duration `yaml:"session_ttl" validate:"gte=0s"`
	LogFile    string        `yaml:"log_file"`
	LogLevel   string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	PDFFont    string        `yaml:"pdf_font" validate:"omitempty,file"` // UTF-8 TTF for PDF export
}

var v = validator.New()

// Dir is $XDG_CONFIG_HOME/contactbook, falling back to ~/.config/contactbook.
func Dir() string {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "contactbook")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "contactbook")
}

// Default returns settings rooted at dir.
func Default(dir string) Config {
	return Config{
		Backend:    BackendFile,
		DataDir:    filepath.Join(dir, "data"),
		SQLitePath: filepath.Join(dir, "contactbook.db"),
		SessionTTL: 30 * 24 * time.Hour,
		LogFile:    filepath.Join(dir, "contactbook.log"),
		LogLevel:   "info",
	}
}

// Load overlays the YAML file at path onto Default(dir). An empty path means
// dir/config.yaml, which may be absent; an explicit path must exist.
func Load(dir, path string) (Config, error) {
	cfg := Default(dir)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return cfg, nil
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first batch of invalid settings.
func (c Config) Validate() error {
	err := v.Struct(c)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
