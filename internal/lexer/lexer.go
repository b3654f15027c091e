package lexer

import (
	"tokflow/internal/diag"
	"tokflow/internal/source"
	"tokflow/internal/tokens"
)

// Lexeme is one significant token: its exact text and where it starts.
type Lexeme struct {
	Text string
	Pos  source.Pos
}

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	// atLineStart is true until the first significant byte of a line.
	atLineStart bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		atLineStart: true,
	}
}

// Next returns the next significant token. Whitespace, comments and
// preprocessor directives are skipped. ok is false at end of input.
func (lx *Lexer) Next() (lex Lexeme, ok bool) {
	for {
		lx.skipTrivia()
		if lx.cursor.EOF() {
			return Lexeme{}, false
		}
		start := lx.cursor.Mark()
		pos := lx.file.Pos(uint32(start))
		ch := lx.cursor.Peek()

		var text string
		switch {
		case isStringPrefixStart(ch) && lx.literalPrefixLen() > 0:
			text = lx.scanQuoted(start, pos)
		case ch == '"' || ch == '\'':
			text = lx.scanQuoted(start, pos)
		case isIdentStartByte(ch) || ch >= utf8RuneSelf:
			text = lx.scanIdent(start, pos)
		case isDec(ch) || (ch == '.' && isDec(lx.cursor.PeekAt(1))):
			text = lx.scanNumber(start)
		default:
			text = lx.scanOperator(start, pos)
		}
		lx.atLineStart = false
		if text == "" {
			continue
		}
		if lx.opts.MaxTokenLen > 0 && len(text) > lx.opts.MaxTokenLen {
			diag.ReportWarning(lx.opts.Reporter, diag.LexInfo, pos, "token too long, truncated").Emit()
			text = text[:lx.opts.MaxTokenLen]
		}
		return Lexeme{Text: text, Pos: pos}, true
	}
}

// All scans the rest of the file.
func (lx *Lexer) All() []Lexeme {
	var out []Lexeme
	for {
		lex, ok := lx.Next()
		if !ok {
			return out
		}
		out = append(out, lex)
	}
}

// Tokenize appends the tokens of file to l and returns how many were added.
// Brackets are linked as they arrive; unmatched ones are left for
// List.LinkBrackets.
func Tokenize(file *source.File, l *tokens.List, opts Options) int {
	lx := New(file, opts)
	n := 0
	for {
		lex, ok := lx.Next()
		if !ok {
			return n
		}
		l.AddToken(lex.Text, lex.Pos)
		n++
	}
}
