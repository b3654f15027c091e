package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tokflow/internal/config"
	"tokflow/internal/library"
)

// loadConfig reads --config or the nearest tokflow.toml and applies the
// persistent flags the user set on top of it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	pf := cmd.Root().PersistentFlags()
	path, err := pf.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadNearest(".")
	}
	var unknown *config.UnknownKeysError
	if errors.As(err, &unknown) {
		// Unknown keys are reported but do not stop the run.
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", unknown)
	} else if err != nil {
		return config.Config{}, err
	}

	if pf.Changed("lang") {
		cfg.Analysis.Lang, _ = pf.GetString("lang")
	}
	if pf.Changed("jobs") {
		cfg.Analysis.Jobs, _ = pf.GetInt("jobs")
	}
	for flag, dst := range map[string]*string{
		"trace":        &cfg.Trace.Output,
		"trace-level":  &cfg.Trace.Level,
		"trace-mode":   &cfg.Trace.Mode,
		"trace-format": &cfg.Trace.Format,
	} {
		if pf.Changed(flag) {
			*dst, _ = pf.GetString(flag)
		}
	}
	if pf.Changed("trace-ring-size") {
		cfg.Trace.RingSize, _ = pf.GetInt("trace-ring-size")
	}
	// --trace alone implies a useful level.
	if pf.Changed("trace") && !pf.Changed("trace-level") && cfg.Trace.Level == "off" {
		cfg.Trace.Level = "phase"
		if !pf.Changed("trace-mode") {
			cfg.Trace.Mode = "stream"
		}
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadLibrary merges the built-in rules with [[library.function]].
func loadLibrary(cfg config.Config) (*library.Library, error) {
	lib := library.Std()
	user, err := library.FromConfig(cfg.Library)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Path, err)
	}
	lib.Merge(user)
	return lib, nil
}
