package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokflow/internal/diagfmt"
	"tokflow/internal/pipeline"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] file...",
	Short: "Dump the token list and value-flow facts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().Bool("xml", false, "emit the dump as XML")
	dumpCmd.Flags().Bool("values", false, "include value-flow facts")
}

func runDump(cmd *cobra.Command, args []string) error {
	xmlOut, err := cmd.Flags().GetBool("xml")
	if err != nil {
		return fmt.Errorf("failed to get xml flag: %w", err)
	}
	withValues, err := cmd.Flags().GetBool("values")
	if err != nil {
		return fmt.Errorf("failed to get values flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := runDriver(cmd, runRequest{cfg: cfg, paths: args, stop: pipeline.StageSeed, title: "dumping"})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	names := res.FileSet.Names()
	if xmlOut {
		fmt.Fprintln(out, `<?xml version="1.0"?>`)
		fmt.Fprintln(out, "<dump>")
	}
	for _, u := range res.Units {
		if u.Bag.Len() > 0 {
			u.Bag.Sort()
			diagfmt.Pretty(cmd.ErrOrStderr(), u.Bag, res.FileSet, diagfmt.PrettyOpts{
				Color:   useColor(cmd, os.Stderr),
				Context: 1,
			})
		}
		if u.List == nil || u.List.Front() == nil {
			continue
		}
		front := u.List.Front()
		if xmlOut {
			err = front.PrintOutXML(out, u.Path, names)
		} else {
			err = front.PrintOut(out, u.Path, names)
		}
		if err == nil && withValues {
			err = front.PrintValueFlow(out, xmlOut)
		}
		if err != nil {
			return err
		}
	}
	if xmlOut {
		fmt.Fprintln(out, "</dump>")
	}
	if res.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}
