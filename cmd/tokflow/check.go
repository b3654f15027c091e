package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tokflow/internal/diag"
	"tokflow/internal/diagfmt"
	"tokflow/internal/driver"
	"tokflow/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|directory>...",
	Short: "Run the value-based checks on C/C++ sources",
	Long:  `Check tokenizes every file, seeds literal facts and reports invalid library-call arguments and divisions by zero`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("no-warnings", false, "report only known values, not possible ones")
	checkCmd.Flags().Bool("inconclusive", false, "also report inconclusive values")
	checkCmd.Flags().Bool("warnings-as-errors", false, "exit with failure on warnings")
	checkCmd.Flags().Bool("timings", false, "print stage timings")
	checkCmd.Flags().Bool("cache", false, "reuse linked token lists from the disk cache")
	checkCmd.Flags().Bool("clear-cache", false, "drop the disk cache before running")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	pathModeValue, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeValue)
	if !ok {
		return fmt.Errorf("invalid --path-mode %q", pathModeValue)
	}
	withNotes, _ := cmd.Flags().GetBool("with-notes")
	noWarnings, _ := cmd.Flags().GetBool("no-warnings")
	warningsAsErrors, _ := cmd.Flags().GetBool("warnings-as-errors")
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	showTimings, _ := cmd.Flags().GetBool("timings")
	useCache, _ := cmd.Flags().GetBool("cache")
	clearCache, _ := cmd.Flags().GetBool("clear-cache")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if noWarnings {
		cfg.Analysis.Warnings = false
	}
	if cmd.Flags().Changed("inconclusive") {
		cfg.Analysis.Inconclusive, _ = cmd.Flags().GetBool("inconclusive")
	}
	if clearCache {
		cache, err := driver.OpenDiskCache(cfg.Analysis.CacheDir)
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	res, err := runDriver(cmd, runRequest{
		cfg:     cfg,
		paths:   args,
		stop:    pipeline.StageCheck,
		title:   "checking",
		cache:   useCache || clearCache,
		timings: showTimings && format == "json",
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		opts := diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stdout),
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		}
		for _, u := range res.Units {
			u.Bag.Sort()
			diagfmt.Pretty(out, u.Bag, res.FileSet, opts)
		}
	case "short":
		var all []diag.Diagnostic
		for _, u := range res.Units {
			all = append(all, u.Bag.Items()...)
		}
		if s := diag.FormatShortDiagnostics(all, res.FileSet, withNotes); s != "" {
			fmt.Fprintln(out, s)
		}
	case "json":
		if err := writeCheckJSON(out, res, diagfmt.JSONOpts{PathMode: pathMode, IncludeNotes: withNotes}); err != nil {
			return err
		}
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if showTimings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	if !quiet && format == "pretty" {
		printSummary(cmd.ErrOrStderr(), res)
	}

	if res.HasErrors() {
		return exitError{code: 1}
	}
	if warningsAsErrors {
		for _, u := range res.Units {
			if u.Bag.HasWarnings() {
				return exitError{code: 1}
			}
		}
	}
	return nil
}

func writeCheckJSON(w io.Writer, res *driver.Result, opts diagfmt.JSONOpts) error {
	output := make(map[string]diagfmt.DiagnosticsOutput, len(res.Units))
	for _, u := range res.Units {
		output[u.Path] = diagfmt.BuildDiagnosticsOutput(u.Bag, res.FileSet, opts)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func printSummary(w io.Writer, res *driver.Result) {
	var errs, warns, findings, cached int
	for _, u := range res.Units {
		for _, d := range u.Bag.Items() {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				warns++
			}
		}
		findings += u.Findings
		if u.Cached {
			cached++
		}
	}
	fmt.Fprintf(w, "%d file(s), %d finding(s), %d error(s), %d warning(s)", len(res.Units), findings, errs, warns)
	if cached > 0 {
		fmt.Fprintf(w, ", %d from cache", cached)
	}
	fmt.Fprintln(w)
}

func printStageTimings(w io.Writer, timings pipeline.Timings) {
	for _, stage := range pipeline.Stages {
		if timings.Has(stage) {
			fmt.Fprintf(w, "%-9s %7.1f ms\n", stage, toMillis(timings.Duration(stage)))
		}
	}
	fmt.Fprintf(w, "%-9s %7.1f ms\n", "total", toMillis(timings.Sum(pipeline.Stages...)))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
