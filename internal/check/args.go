package check

import (
	"fmt"

	"tokflow/internal/diag"
	"tokflow/internal/library"
	"tokflow/internal/tokens"
	"tokflow/internal/valueflow"
)

// InvalidArguments reports calls to library functions whose argument holds
// a value outside the function's valid range. It returns the number of
// reports.
func InvalidArguments(l *tokens.List, lib *library.Library, settings valueflow.Settings, r diag.Reporter) int {
	if lib == nil || lib.Len() == 0 {
		return 0
	}
	n := 0
	for ftok := range l.All() {
		if !lib.IsFunction(ftok) || tokens.Match(ftok.Previous(), ".|->|::") {
			continue
		}
		argnr := 1
		for arg := ftok.TokAt(2); arg != nil && arg.Str() != ")"; arg = arg.NextArgument() {
			if vt := argValueToken(arg); vt != nil {
				if v := vt.GetInvalidValue(ftok, argnr, lib, settings); v != nil {
					reportInvalidArg(r, lib, ftok, argnr, vt, v)
					n++
				}
			}
			argnr++
		}
	}
	return n
}

// argValueToken returns the token holding the value of a whole argument,
// or nil when the argument has a shape the checks do not evaluate.
func argValueToken(arg *tokens.Token) *tokens.Token {
	vt, after := valueToken(arg)
	if tokens.Match(after, ",|)") {
		return vt
	}
	// c ? a : b
	if q := arg.Next(); q != nil && q.Str() == "?" && q.Next() != nil {
		if _, colon := valueToken(q.Next()); colon != nil && colon.Str() == ":" {
			if _, end := valueToken(colon.Next()); tokens.Match(end, ",|)") {
				return q
			}
		}
	}
	return nil
}

func reportInvalidArg(r diag.Reporter, lib *library.Library, ftok *tokens.Token, argnr int, vt *tokens.Token, v *valueflow.Value) {
	rule, _ := lib.Rule(ftok.Str(), argnr)
	val := v.Format(ftok.List())
	if v.IsKnown() {
		msg := fmt.Sprintf("invalid %s() argument nr %d: the value is %s but the valid values are '%s'", ftok.Str(), argnr, val, rule.Valid)
		diag.ReportError(r, diag.CheckInvalidFunctionArg, vt.Pos(), msg).Emit()
		return
	}
	msg := fmt.Sprintf("either the condition is redundant or %s() argument nr %d can have invalid value %s; valid values are '%s'", ftok.Str(), argnr, val, rule.Valid)
	b := diag.ReportWarning(r, diag.CheckInvalidFunctionArg, vt.Pos(), msg)
	if cond := ftok.Deref(v.Condition); v.Condition != 0 && cond != nil {
		b.WithNote(cond.Pos(), "assuming this condition can be true")
	}
	b.Emit()
}
