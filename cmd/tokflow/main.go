package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tokflow/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "tokflow",
	Short:         "Token and value-flow core of a C/C++ static analyzer",
	Long:          `tokflow tokenizes C and C++ sources, links brackets, seeds literal facts and runs value-based checks`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd == versionCmd {
			return nil
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if traceCleanup != nil {
			traceCleanup()
			traceCleanup = nil
		}
	},
}

var traceCleanup func()

// exitError carries a process exit code without printing anything more.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	pf.String("config", "", "path to tokflow.toml (default: nearest one above the working directory)")
	pf.String("lang", "", "force the language (c|c++); default is by file extension")
	pf.Int("jobs", 0, "max parallel files (0 = GOMAXPROCS)")
	pf.String("ui", "auto", "progress UI (auto|on|off)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "", "trace storage (stream|ring|both)")
	pf.String("trace-format", "", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 0, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")

	err := rootCmd.Execute()
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "tokflow:", err)
		os.Exit(2)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(f)
}
