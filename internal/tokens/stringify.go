package tokens

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"tokflow/internal/token"
)

// ExprIDUnique marks an expression id that no other expression shares.
const ExprIDUnique uint32 = 1 << 30

// StringifyOptions select what Stringify and StringifyList render besides
// the token text.
type StringifyOptions struct {
	VarID       bool // "@<varid>" suffix
	ExprID      bool // "@<exprid>" suffix when there is no varid suffix
	IDType      bool // "var"/"expr" before the id
	Attributes  bool // unsigned/signed/_Complex/long qualifiers
	Macro       bool // '$' before expanded macro tokens
	LineNumbers bool
	LineBreaks  bool
	Files       bool // "##file" markers
}

func ForDebug() StringifyOptions {
	return StringifyOptions{Attributes: true, Macro: true, LineNumbers: true, LineBreaks: true, Files: true}
}

func ForDebugVarID() StringifyOptions {
	o := ForDebug()
	o.VarID = true
	return o
}

func ForDebugExprID() StringifyOptions {
	o := ForDebug()
	o.ExprID = true
	return o
}

func ForPrintOut() StringifyOptions {
	o := ForDebug()
	o.ExprID = true
	o.VarID = true
	o.IDType = true
	return o
}

// Stringify renders t alone.
func (t *Token) Stringify(opts StringifyOptions) string {
	var sb strings.Builder
	if opts.Attributes {
		if t.IsUnsigned() {
			sb.WriteString("unsigned ")
		} else if t.IsSigned() {
			sb.WriteString("signed ")
		}
		if t.IsComplex() {
			sb.WriteString("_Complex ")
		}
		if t.IsLong() && t.kind != token.String && t.kind != token.Char {
			sb.WriteString("long ")
		}
	}
	if opts.Macro && t.IsExpandedMacro() {
		sb.WriteByte('$')
	}
	switch {
	case t.IsName() && strings.IndexByte(t.str, ' ') >= 0:
		sb.WriteString(strings.ReplaceAll(t.str, " ", ""))
	case t.str != "" && t.str[0] == '"' && strings.IndexByte(t.str, 0) >= 0:
		sb.WriteString(strings.ReplaceAll(t.str, "\x00", `\0`))
	default:
		sb.WriteString(t.str)
	}
	switch {
	case opts.VarID && t.impl.varID != 0:
		sb.WriteByte('@')
		if opts.IDType {
			sb.WriteString("var")
		}
		sb.WriteString(strconv.FormatUint(uint64(t.impl.varID), 10))
	case opts.ExprID && t.impl.exprID != 0:
		sb.WriteByte('@')
		if opts.IDType {
			sb.WriteString("expr")
		}
		if t.impl.exprID&ExprIDUnique != 0 {
			sb.WriteString("UNIQUE")
		} else {
			sb.WriteString(strconv.FormatUint(uint64(t.impl.exprID), 10))
		}
	}
	return sb.String()
}

// StringifyList renders t up to, not including, end (nil for the rest of
// the list). fileNames resolves file indexes for "##file" markers.
func (t *Token) StringifyList(opts StringifyOptions, fileNames []string, end *Token) string {
	if t == end {
		return ""
	}
	var sb strings.Builder

	lineNumber := t.impl.line
	if opts.LineNumbers {
		lineNumber--
	}
	const noFile = ^uint32(0)
	fileIndex := t.impl.fileIndex
	if opts.Files {
		fileIndex = noFile
	}
	lineNumbers := map[uint32]uint32{}

	for tok := t; tok != end; tok = tok.Next() {
		if tok == nil {
			break
		}
		fileChange := false
		if tok.impl.fileIndex != fileIndex {
			if fileIndex != noFile {
				lineNumbers[fileIndex] = lineNumber
			}
			fileIndex = tok.impl.fileIndex
			if opts.Files {
				sb.WriteString("\n\n##file ")
				if int(fileIndex) < len(fileNames) {
					sb.WriteString(fileNames[fileIndex])
				} else {
					sb.WriteString(strconv.FormatUint(uint64(fileIndex), 10))
				}
				sb.WriteByte('\n')
			}
			lineNumber = lineNumbers[fileIndex]
			fileChange = true
		}

		if opts.LineBreaks && (lineNumber != tok.impl.line || fileChange) {
			line := tok.impl.line
			switch {
			case lineNumber+4 < line && fileIndex == tok.impl.fileIndex:
				fmt.Fprintf(&sb, "\n%d:\n|\n%d:\n%d: ", lineNumber+1, line-1, line)
			case tok == t && opts.LineNumbers:
				fmt.Fprintf(&sb, "%d: ", line)
			case lineNumber > line:
				lineNumber = line
				sb.WriteByte('\n')
				if opts.LineNumbers {
					fmt.Fprintf(&sb, "%d: ", lineNumber)
				}
			default:
				for lineNumber < line {
					lineNumber++
					sb.WriteByte('\n')
					if opts.LineNumbers {
						sb.WriteString(strconv.FormatUint(uint64(lineNumber), 10))
						sb.WriteByte(':')
						if lineNumber == line {
							sb.WriteByte(' ')
						}
					}
				}
			}
			lineNumber = line
		}

		sb.WriteString(tok.Stringify(opts))
		if n := tok.Next(); n != end && n != nil &&
			(!opts.LineBreaks || (n.impl.line == tok.impl.line && n.impl.fileIndex == tok.impl.fileIndex)) {
			sb.WriteByte(' ')
		}
	}
	if opts.LineBreaks && (opts.Files || opts.LineNumbers) {
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PrintOut writes the list from t on with ForPrintOut options and an optional title.
func (t *Token) PrintOut(w io.Writer, title string, fileNames []string) error {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "\n### %s ###\n", title)
	}
	sb.WriteString(t.StringifyList(ForPrintOut(), fileNames, nil))
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// PrintOutXML is PrintOut wrapped in a <file> CDATA element.
func (t *Token) PrintOutXML(w io.Writer, title string, fileNames []string) error {
	var sb strings.Builder
	sb.WriteString("<file>\n<![CDATA[")
	if title != "" {
		fmt.Fprintf(&sb, "\n### %s ###\n", title)
	}
	sb.WriteString(t.StringifyList(ForPrintOut(), fileNames, nil))
	sb.WriteString("\n]]>\n</file>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// PrintLines writes the tokens of the next lines source lines starting at t.
func (t *Token) PrintLines(w io.Writer, lines uint32) error {
	end := t
	for end != nil && end.impl.line < lines+t.impl.line {
		end = end.Next()
	}
	_, err := io.WriteString(w, t.StringifyList(ForDebugExprID(), nil, end)+"\n")
	return err
}
