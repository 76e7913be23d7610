package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"declower/internal/driver"
)

// loadConfig reads --config or the nearest declower.toml, then applies the
// global flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (driver.Config, error) {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return driver.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, err := driver.FindConfig(".")
		if err != nil {
			return driver.Config{}, err
		}
		if ok {
			path = found
		}
	}

	cfg := driver.DefaultConfig()
	if path != "" {
		if cfg, err = driver.LoadConfig(path); err != nil {
			return driver.Config{}, err
		}
	}

	if flags.Changed("max-diagnostics") {
		n, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return driver.Config{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		if n > 0 {
			cfg.Lower.MaxDiagnostics = n
		}
	}
	if flags.Changed("jobs") {
		n, err := flags.GetInt("jobs")
		if err != nil {
			return driver.Config{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		if n < 0 {
			return driver.Config{}, fmt.Errorf("--jobs must not be negative")
		}
		cfg.Lower.Jobs = n
	}
	for flag, dst := range map[string]*string{
		"trace":       &cfg.Trace.Output,
		"trace-level": &cfg.Trace.Level,
		"trace-mode":  &cfg.Trace.Mode,
	} {
		if !flags.Changed(flag) {
			continue
		}
		v, err := flags.GetString(flag)
		if err != nil {
			return driver.Config{}, fmt.Errorf("failed to get %s flag: %w", flag, err)
		}
		*dst = v
	}
	// --trace без уровня включает фазы
	if flags.Changed("trace") && !flags.Changed("trace-level") && cfg.Trace.Level == "off" {
		cfg.Trace.Level = "phase"
	}
	return cfg, nil
}

// setupColor resolves --color and sets color.NoColor for the whole process.
func setupColor(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	var useColor bool
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		out, ok := cmd.OutOrStdout().(*os.File)
		useColor = ok && isTerminal(out)
	case "on":
		useColor = true
	case "off":
		useColor = false
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	color.NoColor = !useColor
	return useColor, nil
}
