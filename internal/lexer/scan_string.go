package lexer

import (
	"tokflow/internal/diag"
	"tokflow/internal/source"
)

func isStringPrefixStart(b byte) bool {
	return b == 'L' || b == 'u' || b == 'U'
}

// literalPrefixLen returns the length of an encoding prefix (L, u, U, u8)
// directly followed by a quote, 0 otherwise.
func (lx *Lexer) literalPrefixLen() uint32 {
	c := &lx.cursor
	n := uint32(1)
	if c.Peek() == 'u' && c.PeekAt(1) == '8' {
		n = 2
	}
	if q := c.PeekAt(n); q == '"' || q == '\'' {
		return n
	}
	return 0
}

// scanQuoted scans a string or character literal including its prefix.
// An unterminated literal ends at the newline and is reported.
func (lx *Lexer) scanQuoted(start Mark, pos source.Pos) string {
	c := &lx.cursor
	if q := c.Peek(); q != '"' && q != '\'' {
		for range lx.literalPrefixLen() {
			c.Bump()
		}
	}
	quote := c.Bump()
	for !c.EOF() {
		b := c.Peek()
		switch {
		case b == quote:
			c.Bump()
			return c.TextFrom(start)
		case b == '\\':
			c.Bump()
			c.Bump()
		case b == '\n':
			lx.reportUnterminated(quote, pos)
			return c.TextFrom(start) + string(quote)
		default:
			c.Bump()
		}
	}
	lx.reportUnterminated(quote, pos)
	return c.TextFrom(start) + string(quote)
}

func (lx *Lexer) reportUnterminated(quote byte, pos source.Pos) {
	if quote == '\'' {
		lx.errLex(diag.LexUnterminatedChar, pos, "unterminated character literal")
		return
	}
	lx.errLex(diag.LexUnterminatedString, pos, "unterminated string literal")
}
