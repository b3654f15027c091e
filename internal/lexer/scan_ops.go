package lexer

import (
	"tokflow/internal/diag"
	"tokflow/internal/source"
	"tokflow/internal/token"
)

// Punctuators by length, longest first. C++-only spellings are gated on
// the language.
var (
	ops3 = []string{"<<=", ">>=", "...", "->*", "<=>"}
	ops2 = []string{
		"::", "->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", ".*", "##",
	}
	cppOnly = map[string]bool{"->*": true, "<=>": true, ".*": true, "::": true}
)

const ops1 = "+-*/%=!<>&|^~?:;,.()[]{}#"

func (lx *Lexer) scanOperator(start Mark, pos source.Pos) string {
	c := &lx.cursor
	for _, set := range [][]string{ops3, ops2} {
		for _, op := range set {
			if cppOnly[op] && lx.opts.Lang != token.LangCPP {
				continue
			}
			if c.EatString(op) {
				return op
			}
		}
	}
	b := c.Bump()
	for i := range len(ops1) {
		if ops1[i] == b {
			return c.TextFrom(start)
		}
	}
	lx.errLex(diag.LexUnknownChar, pos, "unexpected character "+quoteByte(b))
	return ""
}

func quoteByte(b byte) string {
	if b < 0x20 || b >= 0x7f {
		const hex = "0123456789abcdef"
		return "'\\x" + string(hex[b>>4]) + string(hex[b&0xf]) + "'"
	}
	return "'" + string(b) + "'"
}
