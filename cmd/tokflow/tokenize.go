package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokflow/internal/diagfmt"
	"tokflow/internal/pipeline"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Tokenize a C/C++ source file",
	Long:  `Tokenize splits a source file into tokens, links its brackets and prints the result`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := runDriver(cmd, runRequest{cfg: cfg, paths: args, stop: pipeline.StageLink, title: "tokenizing"})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if len(res.Units) == 0 {
		return fmt.Errorf("no source files in %s", args[0])
	}
	u := res.Units[0]

	if u.Bag.Len() > 0 {
		u.Bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), u.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:   useColor(cmd, os.Stderr),
			Context: 2,
		})
	}
	if u.List != nil {
		switch format {
		case "pretty":
			err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), u.List, res.FileSet)
		case "json":
			err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), u.List, res.FileSet)
		}
		if err != nil {
			return err
		}
	}
	if res.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}
