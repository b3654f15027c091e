package valueflow

import (
	"strconv"
	"strings"
)

// Ref is a handle of a token in the owning sequence. Zero means none.
type Ref uint32

// Env answers questions about referenced tokens.
type Env interface {
	// ExprID returns the expression identity of ref, 0 when unknown.
	ExprID(ref Ref) uint32
	// Expr renders the expression rooted at ref.
	Expr(ref Ref) string
}

// ValueType tags the payload of a fact.
type ValueType uint8

const (
	Int ValueType = iota
	Tok
	Float
	Moved
	Uninit
	ContainerSize
	Lifetime
	BufferSize
	IteratorStart
	IteratorEnd
	Symbolic
)

var valueTypeNames = [...]string{
	Int:           "INT",
	Tok:           "TOK",
	Float:         "FLOAT",
	Moved:         "MOVED",
	Uninit:        "UNINIT",
	ContainerSize: "CONTAINER_SIZE",
	Lifetime:      "LIFETIME",
	BufferSize:    "BUFFER_SIZE",
	IteratorStart: "ITERATOR_START",
	IteratorEnd:   "ITERATOR_END",
	Symbolic:      "SYMBOLIC",
}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "ValueType(" + strconv.Itoa(int(t)) + ")"
}

// ValueKind is the certainty of a fact.
type ValueKind uint8

const (
	Possible ValueKind = iota
	Known
	Inconclusive
	Impossible
)

func (k ValueKind) String() string {
	switch k {
	case Possible:
		return "Possible"
	case Known:
		return "Known"
	case Inconclusive:
		return "Inconclusive"
	case Impossible:
		return "Impossible"
	default:
		return "ValueKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Bound tells whether the numeric payload is an exact point or an open range end.
type Bound uint8

const (
	Point Bound = iota
	Upper
	Lower
)

func (b Bound) String() string {
	switch b {
	case Upper:
		return "Upper"
	case Lower:
		return "Lower"
	default:
		return "Point"
	}
}

// MoveKind is the payload of a Moved fact.
type MoveKind uint8

const (
	NonMovedVariable MoveKind = iota
	MovedVariable
	ForwardedVariable
)

func (m MoveKind) String() string {
	switch m {
	case MovedVariable:
		return "MovedVariable"
	case ForwardedVariable:
		return "ForwardedVariable"
	default:
		return "NonMovedVariable"
	}
}

// LifetimeKind describes what a Lifetime fact borrows.
type LifetimeKind uint8

const (
	LifetimeObject LifetimeKind = iota
	LifetimeSubObject
	LifetimeLambda
	LifetimeIterator
	LifetimeAddress
)

func (k LifetimeKind) String() string {
	switch k {
	case LifetimeSubObject:
		return "SubObject"
	case LifetimeLambda:
		return "Lambda"
	case LifetimeIterator:
		return "Iterator"
	case LifetimeAddress:
		return "Address"
	default:
		return "Object"
	}
}

// LifetimeScope is where a borrowed object lives.
type LifetimeScope uint8

const (
	ScopeLocal LifetimeScope = iota
	ScopeArgument
	ScopeSubFunction
	ScopeThisPointer
	ScopeThisValue
)

func (s LifetimeScope) String() string {
	switch s {
	case ScopeArgument:
		return "Argument"
	case ScopeSubFunction:
		return "SubFunction"
	case ScopeThisPointer:
		return "ThisPointer"
	case ScopeThisValue:
		return "ThisValue"
	default:
		return "Local"
	}
}

// Value is a single dataflow claim about a token.
type Value struct {
	Type  ValueType `msgpack:"t"`
	Kind  ValueKind `msgpack:"k"`
	Bound Bound     `msgpack:"b"`

	IntValue   int64   `msgpack:"i"`
	FloatValue float64 `msgpack:"f"`
	// TokValue is the referenced token for Tok, Lifetime and Symbolic facts.
	TokValue Ref `msgpack:"tv"`

	MoveKind      MoveKind      `msgpack:"mk"`
	LifetimeKind  LifetimeKind  `msgpack:"lk"`
	LifetimeScope LifetimeScope `msgpack:"ls"`

	// Condition is the token of the condition the fact depends on.
	Condition   Ref    `msgpack:"c"`
	Path        int64  `msgpack:"p"`
	VarID       uint32 `msgpack:"v"`
	VarValue    int64  `msgpack:"vv"`
	Indirect    int    `msgpack:"ind"`
	Conditional bool   `msgpack:"cd"`
	DefaultArg  bool   `msgpack:"da"`
}

func NewInt(n int64) Value { return Value{Type: Int, IntValue: n, VarValue: n} }

func NewFloat(f float64) Value { return Value{Type: Float, FloatValue: f} }

func NewTok(ref Ref) Value { return Value{Type: Tok, TokValue: ref} }

func NewMoved(kind MoveKind) Value { return Value{Type: Moved, MoveKind: kind} }

func NewUninit() Value { return Value{Type: Uninit} }

func NewContainerSize(n int64) Value { return Value{Type: ContainerSize, IntValue: n} }

func NewBufferSize(n int64) Value { return Value{Type: BufferSize, IntValue: n} }

func NewSymbolic(ref Ref, delta int64) Value {
	return Value{Type: Symbolic, TokValue: ref, IntValue: delta}
}

func NewLifetime(ref Ref, kind LifetimeKind, scope LifetimeScope) Value {
	return Value{Type: Lifetime, TokValue: ref, LifetimeKind: kind, LifetimeScope: scope}
}

// WithKind returns a copy of v with the given certainty.
func (v Value) WithKind(k ValueKind) Value {
	v.Kind = k
	return v
}

// WithBound returns a copy of v with the given bound.
func (v Value) WithBound(b Bound) Value {
	v.Bound = b
	return v
}

func (v *Value) IsKnown() bool        { return v.Kind == Known }
func (v *Value) IsPossible() bool     { return v.Kind == Possible }
func (v *Value) IsImpossible() bool   { return v.Kind == Impossible }
func (v *Value) IsInconclusive() bool { return v.Kind == Inconclusive }

func (v *Value) IsIntValue() bool           { return v.Type == Int }
func (v *Value) IsFloatValue() bool         { return v.Type == Float }
func (v *Value) IsTokValue() bool           { return v.Type == Tok }
func (v *Value) IsMovedValue() bool         { return v.Type == Moved }
func (v *Value) IsUninitValue() bool        { return v.Type == Uninit }
func (v *Value) IsLifetimeValue() bool      { return v.Type == Lifetime }
func (v *Value) IsSymbolicValue() bool      { return v.Type == Symbolic }
func (v *Value) IsContainerSizeValue() bool { return v.Type == ContainerSize }

// IsNonValue reports facts that carry a state rather than a quantity.
func (v *Value) IsNonValue() bool {
	return v.IsMovedValue() || v.IsUninitValue() || v.IsLifetimeValue()
}

// numeric returns the comparable payload. ok is false for non-numeric types.
func (v *Value) numeric() (i int64, f float64, isFloat, ok bool) {
	switch v.Type {
	case Int, Symbolic, BufferSize, ContainerSize, IteratorStart, IteratorEnd:
		return v.IntValue, 0, false, true
	case Float:
		return 0, v.FloatValue, true, true
	default:
		return 0, 0, false, false
	}
}

// lessValue compares numeric payloads. Non-numeric payloads never compare less.
func (v *Value) lessValue(rhs *Value) bool {
	xi, xf, xFloat, ok := v.numeric()
	if !ok {
		return false
	}
	yi, yf, yFloat, ok := rhs.numeric()
	if !ok {
		return false
	}
	switch {
	case xFloat && yFloat:
		return xf < yf
	case xFloat:
		return xf < float64(yi)
	case yFloat:
		return float64(xi) < yf
	default:
		return xi < yi
	}
}

// decreaseRange pulls the open end of a bounded fact in by one.
func (v *Value) decreaseRange() {
	var step int64
	switch v.Bound {
	case Lower:
		step = 1
	case Upper:
		step = -1
	default:
		return
	}
	switch v.Type {
	case Int, Symbolic, BufferSize, ContainerSize, IteratorStart, IteratorEnd:
		v.IntValue += step
	case Float:
		v.FloatValue += float64(step)
	}
}

// SameToken reports whether two references denote the same token or the
// same non-zero expression.
func SameToken(env Env, a, b Ref) bool {
	if a == b {
		return true
	}
	if a == 0 || b == 0 {
		return false
	}
	ea, eb := env.ExprID(a), env.ExprID(b)
	if ea == 0 || eb == 0 {
		return false
	}
	return ea == eb
}

// EqualValue compares payloads of facts of the same type.
func (v *Value) EqualValue(rhs *Value, env Env) bool {
	if v.Type != rhs.Type {
		return false
	}
	switch v.Type {
	case Int, ContainerSize, BufferSize, IteratorStart, IteratorEnd:
		return v.IntValue == rhs.IntValue
	case Tok, Lifetime:
		return v.TokValue == rhs.TokValue
	case Float:
		return !(v.FloatValue > rhs.FloatValue || v.FloatValue < rhs.FloatValue)
	case Moved:
		return v.MoveKind == rhs.MoveKind
	case Uninit:
		return true
	case Symbolic:
		return SameToken(env, v.TokValue, rhs.TokValue) && v.IntValue == rhs.IntValue
	}
	return false
}

// Equal is full fact identity: payload, provenance and certainty.
func (v *Value) Equal(rhs *Value, env Env) bool {
	if !v.EqualValue(rhs, env) {
		return false
	}
	return v.VarValue == rhs.VarValue &&
		v.Condition == rhs.Condition &&
		v.VarID == rhs.VarID &&
		v.Conditional == rhs.Conditional &&
		v.DefaultArg == rhs.DefaultArg &&
		v.Indirect == rhs.Indirect &&
		v.Kind == rhs.Kind
}

// Format renders v the way value-flow text dumps show it: "!" for impossible,
// ">=" / "<=" for bounds, the payload, "*" per indirection and "@path".
func (v *Value) Format(env Env) string {
	var sb strings.Builder
	if v.IsImpossible() {
		sb.WriteByte('!')
	}
	switch v.Bound {
	case Lower:
		sb.WriteString(">=")
	case Upper:
		sb.WriteString("<=")
	}
	switch v.Type {
	case Int:
		sb.WriteString(strconv.FormatInt(v.IntValue, 10))
	case Tok:
		sb.WriteString(env.Expr(v.TokValue))
	case Float:
		sb.WriteString(FormatFloat(v.FloatValue))
	case Moved:
		sb.WriteString(v.MoveKind.String())
	case Uninit:
		sb.WriteString("Uninit")
	case BufferSize, ContainerSize:
		sb.WriteString("size=")
		sb.WriteString(strconv.FormatInt(v.IntValue, 10))
	case IteratorStart:
		sb.WriteString("start=")
		sb.WriteString(strconv.FormatInt(v.IntValue, 10))
	case IteratorEnd:
		sb.WriteString("end=")
		sb.WriteString(strconv.FormatInt(v.IntValue, 10))
	case Lifetime:
		sb.WriteString("lifetime[")
		sb.WriteString(v.LifetimeKind.String())
		sb.WriteString("]=(")
		sb.WriteString(env.Expr(v.TokValue))
		sb.WriteByte(')')
	case Symbolic:
		sb.WriteString("symbolic=(")
		sb.WriteString(env.Expr(v.TokValue))
		switch {
		case v.IntValue > 0:
			sb.WriteByte('+')
			sb.WriteString(strconv.FormatInt(v.IntValue, 10))
		case v.IntValue < 0:
			sb.WriteByte('-')
			sb.WriteString(strconv.FormatUint(uint64(-(v.IntValue+1))+1, 10))
		}
		sb.WriteByte(')')
	}
	for i := 0; i < v.Indirect; i++ {
		sb.WriteByte('*')
	}
	if v.Path > 0 {
		sb.WriteByte('@')
		sb.WriteString(strconv.FormatInt(v.Path, 10))
	}
	return sb.String()
}

// FormatFloat prints a float the shortest way that round-trips.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
