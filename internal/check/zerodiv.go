package check

import (
	"tokflow/internal/diag"
	"tokflow/internal/tokens"
	"tokflow/internal/valueflow"
)

// ZeroDivision reports "/", "%", "/=" and "%=" whose right operand can be
// zero. Float divisors are ignored.
func ZeroDivision(l *tokens.List, settings valueflow.Settings, r diag.Reporter) int {
	n := 0
	for op := range l.All() {
		if !tokens.Match(op, "/|%|/=|%=") {
			continue
		}
		vt, after := divisorToken(op.Next())
		if vt == nil || tokens.Match(after, "(|[|.|->|::") {
			continue
		}
		v := valueflow.FindValue(vt.Values(), settings, func(v *valueflow.Value) bool {
			return v.IsIntValue() && !v.IsImpossible() && v.IntValue == 0
		})
		if v == nil {
			continue
		}
		if v.IsKnown() {
			diag.ReportError(r, diag.CheckZeroDivision, op.Pos(), "division by zero").Emit()
		} else {
			b := diag.ReportWarning(r, diag.CheckZeroDivision, op.Pos(), "either the condition is redundant or there is division by zero")
			if v.Condition != 0 {
				if cond := op.Deref(v.Condition); cond != nil {
					b.WithNote(cond.Pos(), "assuming this condition can be true")
				}
			}
			b.Emit()
		}
		n++
	}
	return n
}

// divisorToken is valueToken extended to a parenthesised operand.
func divisorToken(start *tokens.Token) (*tokens.Token, *tokens.Token) {
	if start != nil && start.Str() == "(" && start.Link() != nil {
		inner, after := valueToken(start.Next())
		if after == start.Link() {
			return inner, start.Link().Next()
		}
		if vt := ternaryIn(start); vt != nil {
			return vt, start.Link().Next()
		}
		return nil, nil
	}
	return valueToken(start)
}

// ternaryIn returns "?" of "( c ? a : b )".
func ternaryIn(open *tokens.Token) *tokens.Token {
	q := open.Next().Next()
	if q == nil || q.Str() != "?" {
		return nil
	}
	_, colon := valueToken(q.Next())
	if colon == nil || colon.Str() != ":" {
		return nil
	}
	if _, end := valueToken(colon.Next()); end != open.Link() {
		return nil
	}
	return q
}
