package tokens

import (
	"math"

	"tokflow/internal/token"
	"tokflow/internal/trace"
	"tokflow/internal/valueflow"
)

// ExprID implements valueflow.Env.
func (l *List) ExprID(ref valueflow.Ref) uint32 {
	if t := l.Get(ID(ref)); t != nil {
		return t.impl.exprID
	}
	return 0
}

// Expr implements valueflow.Env.
func (l *List) Expr(ref valueflow.Ref) string {
	if t := l.Get(ID(ref)); t != nil {
		return t.ExpressionString()
	}
	return ""
}

// Ref returns the handle facts use to point at t.
func (t *Token) Ref() valueflow.Ref { return valueflow.Ref(t.id) }

// Deref resolves a fact reference in the list of t.
func (t *Token) Deref(ref valueflow.Ref) *Token { return t.get(ID(ref)) }

// AddValue inserts a fact. It reports false when the fact was redundant,
// contradicted by a known fact, or the token already holds MaxValues facts.
func (t *Token) AddValue(v valueflow.Value) bool {
	full := len(t.impl.values) >= valueflow.MaxValues
	added := t.impl.values.Add(v, t.list, t.impl.varID)
	if !added && full && t.list != nil {
		trace.Point(t.list.tracer, trace.ScopeNode, "fact-cap", t.str, map[string]string{
			"pos":   t.Pos().String(),
			"value": v.Format(t.list),
		})
	}
	return added
}

// Values returns the facts of t. The slice is owned by t.
func (t *Token) Values() valueflow.Set { return t.impl.values }

// ClearValues drops every fact of t.
func (t *Token) ClearValues() { t.impl.values = nil }

// HasKnownIntValue reports whether the first fact is a known int; known
// ints are always kept first.
func (t *Token) HasKnownIntValue() bool {
	if len(t.impl.values) == 0 {
		return false
	}
	v := &t.impl.values[0]
	return v.IsIntValue() && v.IsKnown()
}

func (t *Token) HasKnownValue() bool {
	for i := range t.impl.values {
		if t.impl.values[i].IsKnown() {
			return true
		}
	}
	return false
}

func (t *Token) HasKnownValueType(vt valueflow.ValueType) bool {
	return t.GetKnownValue(vt) != nil
}

// HasKnownSymbolicValue reports whether t is known to equal the expression of sym.
func (t *Token) HasKnownSymbolicValue(sym *Token) bool {
	if sym == nil || sym.impl.exprID == 0 {
		return false
	}
	for i := range t.impl.values {
		v := &t.impl.values[i]
		if v.IsKnown() && v.IsSymbolicValue() && v.TokValue != 0 &&
			t.list.ExprID(v.TokValue) == sym.impl.exprID {
			return true
		}
	}
	return false
}

// GetKnownValue returns the known fact of type vt, or nil.
func (t *Token) GetKnownValue(vt valueflow.ValueType) *valueflow.Value {
	if len(t.impl.values) == 0 {
		return nil
	}
	if vt == valueflow.Int {
		if v := &t.impl.values[0]; v.IsKnown() && v.IsIntValue() {
			return v
		}
		return nil
	}
	return t.firstValue(func(v *valueflow.Value) bool { return v.IsKnown() && v.Type == vt })
}

func (t *Token) firstValue(pred func(*valueflow.Value) bool) *valueflow.Value {
	for i := range t.impl.values {
		if pred(&t.impl.values[i]) {
			return &t.impl.values[i]
		}
	}
	return nil
}

// GetValue returns a non-impossible int fact equal to val.
func (t *Token) GetValue(val int64) *valueflow.Value {
	return t.firstValue(func(v *valueflow.Value) bool {
		return v.IsIntValue() && !v.IsImpossible() && v.IntValue == val
	})
}

// GetValueNE returns a non-impossible int fact different from val.
func (t *Token) GetValueNE(val int64) *valueflow.Value {
	return t.firstValue(func(v *valueflow.Value) bool {
		return v.IsIntValue() && !v.IsImpossible() && v.IntValue != val
	})
}

// GetValueLE returns the best non-impossible int fact <= val allowed by settings.
func (t *Token) GetValueLE(val int64, settings valueflow.Settings) *valueflow.Value {
	return valueflow.FindValue(t.impl.values, settings, func(v *valueflow.Value) bool {
		return !v.IsImpossible() && v.IsIntValue() && v.IntValue <= val
	})
}

// GetValueGE returns the best non-impossible int fact >= val allowed by settings.
func (t *Token) GetValueGE(val int64, settings valueflow.Settings) *valueflow.Value {
	return valueflow.FindValue(t.impl.values, settings, func(v *valueflow.Value) bool {
		return !v.IsImpossible() && v.IsIntValue() && v.IntValue >= val
	})
}

// GetMaxValue returns the largest non-impossible int fact whose
// conditional-ness equals condition. A positive path restricts the search
// to facts of that path or of no path.
func (t *Token) GetMaxValue(condition bool, path int64) *valueflow.Value {
	return t.compareValue(condition, path, func(a, b int64) bool { return a > b })
}

// GetMinValue is GetMaxValue for the smallest fact.
func (t *Token) GetMinValue(condition bool, path int64) *valueflow.Value {
	return t.compareValue(condition, path, func(a, b int64) bool { return a < b })
}

func (t *Token) compareValue(condition bool, path int64, better func(a, b int64) bool) *valueflow.Value {
	var ret *valueflow.Value
	for i := range t.impl.values {
		v := &t.impl.values[i]
		if !v.IsIntValue() || v.IsImpossible() {
			continue
		}
		if path > 0 && v.Path != 0 && v.Path != path {
			continue
		}
		if (ret == nil || better(v.IntValue, ret.IntValue)) && (v.Condition != 0) == condition {
			ret = v
		}
	}
	return ret
}

// GetMovedValue returns a fact saying t was moved or forwarded.
func (t *Token) GetMovedValue() *valueflow.Value {
	return t.firstValue(func(v *valueflow.Value) bool {
		return v.IsMovedValue() && !v.IsImpossible() && v.MoveKind != valueflow.NonMovedVariable
	})
}

// GetContainerSizeValue returns a non-impossible container size fact equal to val.
func (t *Token) GetContainerSizeValue(val int64) *valueflow.Value {
	return t.firstValue(func(v *valueflow.Value) bool {
		return v.IsContainerSizeValue() && !v.IsImpossible() && v.IntValue == val
	})
}

// ArgOracle answers whether a value is acceptable as argument argnr
// (1-based) of the call at ftok.
type ArgOracle interface {
	IsIntArgValid(ftok *Token, argnr int, value int64) bool
	IsFloatArgValid(ftok *Token, argnr int, value float64) bool
}

// GetInvalidValue returns the best fact of t that the oracle rejects as
// argument argnr of ftok, subject to settings.
func (t *Token) GetInvalidValue(ftok *Token, argnr int, oracle ArgOracle, settings valueflow.Settings) *valueflow.Value {
	return valueflow.FindValue(t.impl.values, settings, func(v *valueflow.Value) bool {
		if v.IsImpossible() {
			return false
		}
		switch {
		case v.IsIntValue():
			return !oracle.IsIntArgValid(ftok, argnr, v.IntValue)
		case v.IsFloatValue():
			return !oracle.IsFloatArgValid(ftok, argnr, v.FloatValue)
		}
		return false
	})
}

// GetValueTokenMinStrSize returns the string literal among the token facts
// of t with the smallest storage size, and the path of that fact.
func (t *Token) GetValueTokenMinStrSize(sizes Sizes) (*Token, int64) {
	var (
		ret     *Token
		path    int64
		minSize = math.MaxInt
	)
	for i := range t.impl.values {
		v := &t.impl.values[i]
		str := t.stringFact(v)
		if str == nil {
			continue
		}
		if size := GetStrSize(str, sizes); ret == nil || size < minSize {
			ret, minSize, path = str, size, v.Path
		}
	}
	return ret, path
}

// GetValueTokenMaxStrLength returns the string literal among the token
// facts of t with the largest strlen.
func (t *Token) GetValueTokenMaxStrLength() *Token {
	var (
		ret       *Token
		maxLength int
	)
	for i := range t.impl.values {
		str := t.stringFact(&t.impl.values[i])
		if str == nil {
			continue
		}
		if n := GetStrLength(str); ret == nil || n > maxLength {
			ret, maxLength = str, n
		}
	}
	return ret
}

func (t *Token) stringFact(v *valueflow.Value) *Token {
	if !v.IsTokValue() || v.TokValue == 0 {
		return nil
	}
	str := t.Deref(v.TokValue)
	if str == nil || str.kind != token.String {
		return nil
	}
	return str
}
