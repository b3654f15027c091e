package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokflow/internal/pipeline"
	"tokflow/internal/tokens"
)

var matchCmd = &cobra.Command{
	Use:   "match [flags] pattern file...",
	Short: "Print every token where a pattern matches",
	Long: `Match compiles a token pattern such as "%name% ( %num% )" and prints
the position and text of each token the pattern matches at`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().Uint32("varid", 0, "variable id for %varid% patterns")
	matchCmd.Flags().Int("width", 8, "number of tokens printed after a match")
}

func runMatch(cmd *cobra.Command, args []string) error {
	varid, err := cmd.Flags().GetUint32("varid")
	if err != nil {
		return fmt.Errorf("failed to get varid flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	pat, err := tokens.CompilePattern(args[0])
	if err != nil {
		return fmt.Errorf("bad pattern: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := runDriver(cmd, runRequest{cfg: cfg, paths: args[1:], stop: pipeline.StageLink, title: "matching"})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	found := 0
	for _, u := range res.Units {
		if u.List == nil {
			continue
		}
		for tok := range u.List.All() {
			if !pat.MatchVarID(tok, varid) {
				continue
			}
			found++
			pos := tok.Pos()
			fmt.Fprintf(out, "%s:%d:%d: %s\n", u.Path, pos.Line, pos.Col, snippet(tok, width))
		}
	}
	if found == 0 {
		return exitError{code: 1}
	}
	return nil
}

func snippet(tok *tokens.Token, width int) string {
	s := tok.Str()
	for i, t := 1, tok.Next(); t != nil && i < width; i, t = i+1, t.Next() {
		s += " " + t.Str()
	}
	return s
}
