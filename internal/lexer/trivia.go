package lexer

import "tokflow/internal/diag"

// skipTrivia consumes whitespace, line splices, comments and whole
// preprocessor directive lines.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\n':
			lx.cursor.Bump()
			lx.atLineStart = true
		case b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v':
			lx.cursor.Bump()
		case b == '\\' && lx.cursor.PeekAt(1) == '\n':
			lx.cursor.Bump()
			lx.cursor.Bump()
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			lx.skipLineComment()
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			lx.skipBlockComment()
		case b == '#' && lx.atLineStart:
			lx.skipDirective()
		default:
			return
		}
	}
}

// skipLineComment stops before the newline; a backslash-newline continues the comment.
func (lx *Lexer) skipLineComment() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			return
		}
		if b == '\\' && lx.cursor.PeekAt(1) == '\n' {
			lx.cursor.Bump()
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) skipBlockComment() {
	pos := lx.file.Pos(lx.cursor.Off)
	lx.cursor.Bump()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return
		}
		lx.cursor.Bump()
	}
	lx.errLex(diag.LexUnterminatedBlockComment, pos, "unterminated block comment")
}

// skipDirective drops a "#..." line including its continuations. Comments
// inside the directive are honoured so a "/*" cannot leak past it.
func (lx *Lexer) skipDirective() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\n':
			return
		case b == '\\' && lx.cursor.PeekAt(1) == '\n':
			lx.cursor.Bump()
			lx.cursor.Bump()
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			lx.skipBlockComment()
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			lx.skipLineComment()
		default:
			lx.cursor.Bump()
		}
	}
}
