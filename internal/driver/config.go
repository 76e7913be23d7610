package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"declower/internal/trace"
)

// ConfigFileName is looked up from the working directory upwards.
const ConfigFileName = "declower.toml"

// Config is the decoded declower.toml.
type Config struct {
	Lower LowerConfig `toml:"lower"`
	Trace TraceConfig `toml:"trace"`
	Run   RunConfig   `toml:"run"`
}

type LowerConfig struct {
	// Jobs limits parallel units; 0 means GOMAXPROCS.
	Jobs           int `toml:"jobs"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Mode   string `toml:"mode"`
}

type RunConfig struct {
	Entry string `toml:"entry"`
}

// DefaultConfig is used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Lower: LowerConfig{MaxDiagnostics: 100},
		Trace: TraceConfig{Level: "off", Output: "-", Mode: "stream"},
	}
}

// FindConfig walks up from startDir looking for ConfigFileName.
func FindConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig decodes path over DefaultConfig. Keys missing from the file
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("lower", "jobs") && cfg.Lower.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [lower].jobs must not be negative", path)
	}
	if meta.IsDefined("lower", "max_diagnostics") && cfg.Lower.MaxDiagnostics <= 0 {
		return Config{}, fmt.Errorf("%s: [lower].max_diagnostics must be positive", path)
	}
	if _, err := trace.ParseLevel(cfg.Trace.Level); err != nil {
		return Config{}, fmt.Errorf("%s: [trace].level: %w", path, err)
	}
	if _, err := trace.ParseMode(cfg.Trace.Mode); err != nil {
		return Config{}, fmt.Errorf("%s: [trace].mode: %w", path, err)
	}
	return cfg, nil
}

// TracerConfig converts the [trace] table.
func (c TraceConfig) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{Level: level, Mode: mode, Output: c.Output}, nil
}
