package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tokflow/internal/diag"
	"tokflow/internal/source"
)

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgHiBlack),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.loc, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes bag.Items() (sorted by the caller) as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with a caret under the column, and the
// notes when opts.ShowNotes is set.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := fmt.Sprintf("%s:%d:%d:", formatPath(fs, d.Primary.File, opts.PathMode), d.Primary.Line, d.Primary.Col)
		fmt.Fprintf(w, "%s %s %s: %s\n", p.loc.Sprint(loc), p.severity(d.Severity).Sprint(d.Severity), d.Code.ID(), d.Message)
		writeContext(w, fs, d.Primary, opts, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
				formatPath(fs, n.Pos.File, opts.PathMode), n.Pos.Line, n.Pos.Col, n.Msg)
		}
	}
}

func writeContext(w io.Writer, fs *source.FileSet, pos source.Pos, opts PrettyOpts, p palette) {
	if fs == nil || !pos.IsValid() {
		return
	}
	f := fs.Get(pos.File)
	if f == nil {
		return
	}
	first := pos.Line
	if opts.Context > 0 && uint32(opts.Context) < first {
		first -= uint32(opts.Context)
	} else if opts.Context > 0 {
		first = 1
	}
	width := len(fmt.Sprint(pos.Line))
	for ln := first; ln <= pos.Line; ln++ {
		text := clip(f.GetLine(ln), opts.Width)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, ln), text)
	}
	line := f.GetLine(pos.Line)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), caretPad(line, pos.Col), p.caret.Sprint("^"))
}

// caretPad returns the blanks that put a caret under byte column col of
// line, keeping tabs and counting wide runes by their display width.
func caretPad(line string, col uint32) string {
	if col == 0 {
		return ""
	}
	n := int(col - 1)
	if n > len(line) {
		n = len(line)
	}
	var sb strings.Builder
	for _, r := range line[:n] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
