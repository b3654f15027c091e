package lexer

import (
	"tokflow/internal/diag"
	"tokflow/internal/source"
	"tokflow/internal/token"
)

type Options struct {
	Lang     token.Lang
	Reporter diag.Reporter // may be nil; errors are then dropped but scanning continues
	// MaxTokenLen cuts pathological tokens; 0 means no limit.
	MaxTokenLen int
}

func (lx *Lexer) errLex(code diag.Code, pos source.Pos, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, pos, msg).Emit()
	}
}
