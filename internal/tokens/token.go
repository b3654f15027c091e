package tokens

import (
	"iter"
	"strings"
	"unicode"

	"tokflow/internal/source"
	"tokflow/internal/token"
	"tokflow/internal/valueflow"
)

// Token is one lexical unit of a List.
type Token struct {
	list *List
	id   ID
	dead bool

	next ID
	prev ID
	link ID

	str   string
	kind  token.Kind
	flags token.Flags

	// impl travels with the token's contents on SwapWithNext and DeleteThis.
	impl *payload
}

type payload struct {
	varID  uint32
	exprID uint32

	fileIndex uint32
	line      uint32
	column    uint32
	index     uint32
	progress  int

	originalName string
	macroName    string

	astOp1    ID
	astOp2    ID
	astParent ID

	scope  *ScopeInfo
	values valueflow.Set
	pins   []*Pin

	function uint32
	variable uint32
	typ      uint32

	attrs []Attribute
}

// ID returns the handle of t.
func (t *Token) ID() ID { return t.id }

// List returns the owning list.
func (t *Token) List() *List { return t.list }

// Removed reports whether t was deleted from its list.
func (t *Token) Removed() bool { return t.dead }

func (t *Token) get(id ID) *Token {
	if t == nil || t.list == nil {
		return nil
	}
	return t.list.Get(id)
}

func (t *Token) Next() *Token {
	if t == nil {
		return nil
	}
	return t.get(t.next)
}

func (t *Token) Previous() *Token {
	if t == nil {
		return nil
	}
	return t.get(t.prev)
}

// Link returns the matching bracket, or nil.
func (t *Token) Link() *Token {
	if t == nil {
		return nil
	}
	return t.get(t.link)
}

// setLink sets the link field only; callers keep the partner consistent.
func (t *Token) setLink(to *Token) {
	if to == nil {
		t.link = 0
	} else {
		t.link = to.id
	}
	if t.str == "<" || t.str == ">" {
		t.updateProperties()
	}
}

// Unlink clears the link of t and of its partner.
func (t *Token) Unlink() {
	if p := t.Link(); p != nil && p.link == t.id {
		p.setLink(nil)
	}
	t.setLink(nil)
}

// TokAt returns the token index positions away; negative walks backwards.
func (t *Token) TokAt(index int) *Token {
	tok := t
	for index > 0 && tok != nil {
		tok = tok.Next()
		index--
	}
	for index < 0 && tok != nil {
		tok = tok.Previous()
		index++
	}
	return tok
}

// StrAt returns the text of TokAt(index), "" when out of range.
func (t *Token) StrAt(index int) string {
	if tok := t.TokAt(index); tok != nil {
		return tok.str
	}
	return ""
}

// LinkAt returns the link of TokAt(index). An out of range index is an internal error.
func (t *Token) LinkAt(index int) *Token {
	tok := t.TokAt(index)
	if tok == nil {
		internalError(t, "linkAt called with index outside the tokens range")
	}
	return tok.Link()
}

// Until iterates from t up to, but not including, end (nil runs to the back).
func (t *Token) Until(end *Token) iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		for tok := t; tok != nil && tok != end; tok = tok.Next() {
			if !yield(tok) {
				return
			}
		}
	}
}

func (t *Token) Str() string        { return t.str }
func (t *Token) Kind() token.Kind   { return t.kind }
func (t *Token) Flags() token.Flags { return t.flags }

// SetStr replaces the text, drops the variable id and reclassifies.
func (t *Token) SetStr(s string) {
	t.str = s
	t.impl.varID = 0
	t.updateProperties()
}

// SetKind overrides the classified kind.
func (t *Token) SetKind(k token.Kind) { t.kind = k }

// SetFlag sets or clears attribute bits.
func (t *Token) SetFlag(f token.Flags, on bool) { t.flags = t.flags.With(f, on) }

func (t *Token) updateProperties() {
	kind, computed, err := token.Classify(t.str, t.impl.varID, t.link != 0, t.list.lang)
	if err != nil {
		internalError(t, "Internal error. "+err.Error())
	}
	t.kind = kind
	t.flags = token.Merge(t.flags, computed)
}

func (t *Token) IsName() bool           { return t.kind.IsName() }
func (t *Token) IsLiteral() bool        { return t.kind.IsLiteral() }
func (t *Token) IsNumber() bool         { return t.kind == token.Number }
func (t *Token) IsBoolean() bool        { return t.kind == token.Boolean }
func (t *Token) IsKeyword() bool        { return t.kind == token.Keyword }
func (t *Token) IsOp() bool             { return t.kind.IsOp() }
func (t *Token) IsConstOp() bool        { return t.kind.IsConstOp() }
func (t *Token) IsExtendedOp() bool     { return t.kind.IsExtendedOp() }
func (t *Token) IsArithmeticalOp() bool { return t.kind == token.ArithmeticalOp }
func (t *Token) IsComparisonOp() bool   { return t.kind == token.ComparisonOp }
func (t *Token) IsAssignmentOp() bool   { return t.kind == token.AssignmentOp }
func (t *Token) IsIncDecOp() bool       { return t.kind == token.IncDecOp }

func (t *Token) IsUnsigned() bool           { return t.flags.Has(token.Unsigned) }
func (t *Token) IsSigned() bool             { return t.flags.Has(token.Signed) }
func (t *Token) IsLong() bool               { return t.flags.Has(token.Long) }
func (t *Token) IsComplex() bool            { return t.flags.Has(token.Complex) }
func (t *Token) IsStandardType() bool       { return t.flags.Has(token.StandardType) }
func (t *Token) IsExpandedMacro() bool      { return t.flags.Has(token.ExpandedMacro) }
func (t *Token) IsControlFlowKeyword() bool { return t.flags.Has(token.ControlFlowKeyword) }

// IsUpperCaseName reports a name without lower case letters.
func (t *Token) IsUpperCaseName() bool {
	if !t.IsName() {
		return false
	}
	return !strings.ContainsFunc(t.str, unicode.IsLower)
}

// IsCChar reports an unprefixed string literal or a single unprefixed char.
func (t *Token) IsCChar() bool {
	switch t.kind {
	case token.String:
		return token.LiteralPrefix(t.str) == ""
	case token.Char:
		if token.LiteralPrefix(t.str) != "" {
			return false
		}
		return len(replaceEscapeSequences(charLiteralBody(t.str))) == 1
	}
	return false
}

func (t *Token) VarID() uint32 { return t.impl.varID }

// SetVarID sets the variable id. A non-zero id makes the token a variable.
func (t *Token) SetVarID(id uint32) {
	t.impl.varID = id
	if id != 0 {
		t.kind = token.Variable
		t.flags = t.flags.With(token.StandardType, false)
		return
	}
	t.updateProperties()
}

func (t *Token) ExprID() uint32       { return t.impl.exprID }
func (t *Token) SetExprID(id uint32)  { t.impl.exprID = id }
func (t *Token) FileIndex() uint32    { return t.impl.fileIndex }
func (t *Token) Line() uint32         { return t.impl.line }
func (t *Token) Column() uint32       { return t.impl.column }
func (t *Token) Index() uint32        { return t.impl.index }
func (t *Token) Progress() int        { return t.impl.progress }
func (t *Token) OriginalName() string { return t.impl.originalName }
func (t *Token) MacroName() string    { return t.impl.macroName }

func (t *Token) SetLine(line uint32)         { t.impl.line = line }
func (t *Token) SetColumn(col uint32)        { t.impl.column = col }
func (t *Token) SetFileIndex(idx uint32)     { t.impl.fileIndex = idx }
func (t *Token) SetOriginalName(name string) { t.impl.originalName = name }

func (t *Token) SetMacroName(name string) {
	t.impl.macroName = name
	t.flags = t.flags.With(token.ExpandedMacro, name != "")
}

// Pos returns the source position of t.
func (t *Token) Pos() source.Pos {
	return source.Pos{File: source.FileID(t.impl.fileIndex), Line: t.impl.line, Col: t.impl.column}
}

// AssignIndexes numbers t and every following token, continuing from the
// index of the previous token.
func (t *Token) AssignIndexes() {
	var index uint32 = 1
	if p := t.Previous(); p != nil {
		index = p.impl.index + 1
	}
	for tok := range t.Until(nil) {
		tok.impl.index = index
		index++
	}
}

// Function returns the symbol id of the resolved function, 0 when none.
func (t *Token) Function() uint32 { return t.impl.function }

// SetFunction resolves t to a function (or lambda) symbol; 0 clears it.
func (t *Token) SetFunction(id uint32, lambda bool) {
	t.impl.function = id
	switch {
	case id != 0 && lambda:
		t.kind = token.Lambda
	case id != 0:
		t.kind = token.Function
	case t.kind == token.Function:
		t.kind = token.Name
	}
}

// Variable returns the symbol id of the resolved variable, 0 when none.
func (t *Token) Variable() uint32 { return t.impl.variable }

// SetVariable resolves t to a variable symbol; 0 clears it.
func (t *Token) SetVariable(id uint32) {
	t.impl.variable = id
	switch {
	case id != 0 || t.impl.varID != 0:
		t.kind = token.Variable
	case t.kind == token.Variable:
		t.kind = token.Name
	}
}

// Type returns the symbol id of the resolved type, 0 when none.
func (t *Token) Type() uint32 { return t.impl.typ }

// SetType resolves t to a type symbol; 0 clears it.
func (t *Token) SetType(id uint32, enum bool) {
	t.impl.typ = id
	switch {
	case id != 0:
		t.kind = token.Type
		t.flags = t.flags.With(token.EnumType, enum)
	case t.kind == token.Type:
		t.kind = token.Name
	}
}

// ConcatStr appends the body of string literal b to the string literal t.
// A plain literal takes over the encoding prefix of b.
func (t *Token) ConcatStr(b string) {
	plain := t.IsCChar()
	t.str = t.str[:len(t.str)-1] + token.StringLiteralBody(b) + `"`
	if plain && token.IsStringLiteral(b) && b[0] != '"' {
		t.str = b[:strings.IndexByte(b, '"')] + t.str
	}
	t.updateProperties()
}

// StrValue returns the contents of a string literal with \n \r \t decoded,
// cut at the first \0.
func (t *Token) StrValue() string {
	if t.kind != token.String {
		internalError(t, "strValue called on a non-string token")
	}
	ret := []byte(token.StringLiteralBody(t.str))
	for pos := 0; pos < len(ret); pos++ {
		if ret[pos] != '\\' {
			continue
		}
		ret = append(ret[:pos], ret[pos+1:]...)
		if pos >= len(ret) {
			break
		}
		switch ret[pos] {
		case 'n':
			ret[pos] = '\n'
		case 'r':
			ret[pos] = '\r'
		case 't':
			ret[pos] = '\t'
		case '0':
			return string(ret[:pos])
		}
	}
	return string(ret)
}

// AttributeKind names an analyzer attribute attached to a token.
type AttributeKind uint8

const (
	AttrLow AttributeKind = iota
	AttrHigh
)

// Attribute is an analyzer-provided bound on a token's value.
type Attribute struct {
	Kind  AttributeKind `msgpack:"k"`
	Value int64         `msgpack:"v"`
}

// SetAttribute stores or overwrites an attribute.
func (t *Token) SetAttribute(kind AttributeKind, value int64) {
	for i := range t.impl.attrs {
		if t.impl.attrs[i].Kind == kind {
			t.impl.attrs[i].Value = value
			return
		}
	}
	t.impl.attrs = append(t.impl.attrs, Attribute{Kind: kind, Value: value})
}

// GetAttribute returns the value of an attribute and whether it is set.
func (t *Token) GetAttribute(kind AttributeKind) (int64, bool) {
	for _, a := range t.impl.attrs {
		if a.Kind == kind {
			return a.Value, true
		}
	}
	return 0, false
}
