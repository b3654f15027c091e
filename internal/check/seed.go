package check

import (
	"tokflow/internal/token"
	"tokflow/internal/tokens"
	"tokflow/internal/valueflow"
)

func known(v valueflow.Value) valueflow.Value { return v.WithKind(valueflow.Known) }

// Seed attaches facts that follow from the text alone and returns how many
// were added:
//
//   - number, char and boolean literals get their value;
//   - string literals get a token fact pointing at themselves;
//   - a unary minus before a number gets the negated value;
//   - uses of "const T name = literal ;" get the literal value;
//   - "c ? a : b" with single-valued branches gets both as possible
//     values on "?", conditioned on c.
//
// Const propagation is by name and ignores shadowing.
func Seed(l *tokens.List) int {
	n := 0
	add := func(t *tokens.Token, v valueflow.Value) {
		if addFact(t, v) {
			n++
		}
	}
	for tok := range l.All() {
		switch tok.Kind() {
		case token.Number:
			if i, ok := token.IntLiteralValue(tok.Str()); ok {
				add(tok, known(valueflow.NewInt(i)))
			} else if f, ok := token.FloatLiteralValue(tok.Str()); ok {
				add(tok, known(valueflow.NewFloat(f)))
			}
		case token.Char:
			if i, ok := tokens.CharLiteralValue(tok); ok {
				add(tok, known(valueflow.NewInt(i)))
			}
		case token.String:
			add(tok, known(valueflow.NewTok(tok.Ref())))
		case token.Boolean:
			var b int64
			if tok.Str() == "true" {
				b = 1
			}
			add(tok, known(valueflow.NewInt(b)))
		}
	}
	for tok := range l.All() {
		if tok.Str() == "-" && isUnaryMinus(tok) {
			if v := negated(tok.Next()); v != nil {
				add(tok, *v)
			}
		}
	}
	n += propagateConsts(l)
	for tok := range l.All() {
		if tok.Str() != "?" {
			continue
		}
		a, b := ternaryBranches(tok)
		if a == nil || b == nil {
			continue
		}
		for _, v := range []*valueflow.Value{a, b} {
			p := v.WithKind(valueflow.Possible)
			p.Condition = tok.Previous().Ref()
			add(tok, p)
		}
	}
	return n
}

func isUnaryMinus(tok *tokens.Token) bool {
	prev := tok.Previous()
	return prev == nil || tokens.Match(prev, "(|,|[|{|;|=|?|:|return|case|%op%")
}

func negated(num *tokens.Token) *valueflow.Value {
	if num == nil || !num.IsNumber() || !num.HasKnownValue() {
		return nil
	}
	v := num.Values()[0]
	switch {
	case v.IsIntValue():
		v.IntValue, v.VarValue = -v.IntValue, -v.VarValue
	case v.IsFloatValue():
		v.FloatValue = -v.FloatValue
	default:
		return nil
	}
	return &v
}

// valueToken returns the token that carries the value of the operand
// starting at start, and the token after the operand.
func valueToken(start *tokens.Token) (*tokens.Token, *tokens.Token) {
	if start == nil {
		return nil, nil
	}
	if start.Str() == "-" && start.Next() != nil && start.Next().IsNumber() {
		return start, start.Next().Next()
	}
	return start, start.Next()
}

func singleKnown(start *tokens.Token) (*valueflow.Value, *tokens.Token) {
	vt, after := valueToken(start)
	if vt == nil || !vt.HasKnownValue() {
		return nil, after
	}
	v := vt.Values()[0]
	if !v.IsIntValue() && !v.IsFloatValue() {
		return nil, after
	}
	return &v, after
}

func ternaryBranches(q *tokens.Token) (*valueflow.Value, *valueflow.Value) {
	if q.Previous() == nil {
		return nil, nil
	}
	a, colon := singleKnown(q.Next())
	if a == nil || colon == nil || colon.Str() != ":" {
		return nil, nil
	}
	b, end := singleKnown(colon.Next())
	if b == nil || end == nil || !tokens.Match(end, ",|)|;|]|}") {
		return nil, nil
	}
	return a, b
}

func propagateConsts(l *tokens.List) int {
	consts := map[string]valueflow.Value{}
	n := 0
	for tok := range l.All() {
		if tok.Str() == "const" {
			if name, v := constDecl(tok); name != nil {
				consts[name.Str()] = *v
			}
			continue
		}
		if !tok.IsName() || tok.IsKeyword() {
			continue
		}
		v, ok := consts[tok.Str()]
		if !ok || isDeclarator(tok) || tokens.Match(tok.Next(), "=|(") {
			continue
		}
		if addFact(tok, v) {
			n++
		}
	}
	return n
}

// addFact adds v to t unless t already carries the same fact, so seeding a
// list twice adds nothing.
func addFact(t *tokens.Token, v valueflow.Value) bool {
	vals := t.Values()
	for i := range vals {
		if vals[i].Equal(&v, t.List()) {
			return false
		}
	}
	return t.AddValue(v)
}

func isDeclarator(tok *tokens.Token) bool {
	prev := tok.Previous()
	if prev == nil {
		return false
	}
	return tokens.Match(prev, ".|->|::") || prev.Kind() == token.Type || prev.Kind() == token.Name
}

// constDecl matches "const T... name = literal ;" and returns name.
func constDecl(tok *tokens.Token) (*tokens.Token, *valueflow.Value) {
	t := tok.Next()
	for t != nil && tokens.Match(t, "%name% %name%") {
		t = t.Next()
	}
	if t == nil || !t.IsName() || !tokens.SimpleMatch(t.Next(), "=") {
		return nil, nil
	}
	v, end := singleKnown(t.TokAt(2))
	if v == nil || end == nil || end.Str() != ";" {
		return nil, nil
	}
	return t, v
}
