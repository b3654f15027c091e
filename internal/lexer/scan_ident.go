package lexer

import (
	"golang.org/x/text/unicode/norm"

	"tokflow/internal/diag"
	"tokflow/internal/source"
)

// scanIdent scans an identifier or keyword. Non-ASCII identifiers are
// NFC-normalised so visually equal spellings compare equal.
func (lx *Lexer) scanIdent(start Mark, pos source.Pos) string {
	r, sz := lx.peekRune()
	if r >= utf8RuneSelf && (sz <= 1 || !isIdentStartRune(r)) {
		lx.bumpRune()
		if sz <= 1 {
			lx.errLex(diag.LexInvalidUTF8, pos, "invalid UTF-8 sequence")
		} else {
			lx.errLex(diag.LexUnknownChar, pos, "unexpected character "+string(r))
		}
		return ""
	}

	ascii := true
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, sz := lx.peekRune()
		if sz <= 1 || !isIdentContinueRune(r) {
			break
		}
		ascii = false
		lx.bumpRune()
	}
	text := lx.cursor.TextFrom(start)
	if !ascii {
		text = norm.NFC.String(text)
	}
	return text
}
