package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"tokflow/internal/source"
	"tokflow/internal/tokens"
)

type TokenOutput struct {
	Index  uint32 `json:"index"`
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	File   string `json:"file"`
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
	Link   uint32 `json:"link,omitempty"`
	VarID  uint32 `json:"varid,omitempty"`
}

// FormatTokensPretty prints one token per line: index, kind, text and position.
func FormatTokensPretty(w io.Writer, l *tokens.List, fs *source.FileSet) error {
	i := 0
	for tok := range l.All() {
		i++
		if _, err := fmt.Fprintf(w, "%3d: %-15s %q at %s:%d:%d", i, tok.Kind(), tok.Str(),
			formatPath(fs, source.FileID(tok.FileIndex()), PathModeAuto), tok.Line(), tok.Column()); err != nil {
			return err
		}
		if link := tok.Link(); link != nil {
			fmt.Fprintf(w, " (link %d:%d)", link.Line(), link.Column())
		}
		fmt.Fprintln(w)
	}
	return nil
}

// FormatTokensJSON prints the token list as a JSON array.
func FormatTokensJSON(w io.Writer, l *tokens.List, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, l.Len())
	for tok := range l.All() {
		out := TokenOutput{
			Index:  tok.Index(),
			Kind:   tok.Kind().String(),
			Text:   tok.Str(),
			File:   formatPath(fs, source.FileID(tok.FileIndex()), PathModeAuto),
			Line:   tok.Line(),
			Column: tok.Column(),
			VarID:  tok.VarID(),
		}
		if link := tok.Link(); link != nil {
			out.Link = link.Index()
		}
		output = append(output, out)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
