package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokflow/internal/config"
	"tokflow/internal/driver"
	"tokflow/internal/pipeline"
	"tokflow/internal/ui"
)

type runRequest struct {
	cfg     config.Config
	paths   []string
	stop    pipeline.Stage
	title   string
	timings bool
	cache   bool
}

// runDriver expands paths, builds driver options from flags and config
// and runs the driver, with the progress view when enabled.
func runDriver(cmd *cobra.Command, req runRequest) (*driver.Result, error) {
	pf := cmd.Root().PersistentFlags()
	maxDiagnostics, err := pf.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := pf.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	uiValue, err := pf.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return nil, err
	}

	paths, err := driver.ExpandPaths(req.paths)
	if err != nil {
		return nil, err
	}
	lib, err := loadLibrary(req.cfg)
	if err != nil {
		return nil, err
	}
	opts := driver.Options{
		Analysis:       req.cfg.Analysis,
		Library:        lib,
		MaxDiagnostics: maxDiagnostics,
		Stop:           req.stop,
		Timings:        req.timings,
		CrashDump:      os.Stderr,
	}
	if req.cache {
		cache, err := driver.OpenDiskCache(req.cfg.Analysis.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open token cache: %w", err)
		}
		opts.Cache = cache
	}

	ctx := cmd.Context()
	if !shouldUseTUI(mode, len(paths), quiet) {
		return driver.Analyze(ctx, paths, opts)
	}
	return runWithUI(ctx, req.title, paths, opts)
}

type analyzeOutcome struct {
	result *driver.Result
	err    error
}

func runWithUI(ctx context.Context, title string, paths []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		opts.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.Analyze(ctx, paths, opts)
		outcomeCh <- analyzeOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(ctx, os.Stderr, title, paths, events)
	if uiErr != nil {
		// keep the producer from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
