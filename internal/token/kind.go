package token

// Kind represents the classified category of a token.
type Kind uint8

const (
	// None is the kind of an empty token.
	None Kind = iota
	// Name is an identifier without resolved symbol information.
	Name
	// Variable is an identifier with a non-zero variable id.
	Variable
	// Type is a type name (standard or resolved user type).
	Type
	// Function is an identifier resolved to a function.
	Function
	// Lambda is the introducer of a lambda expression.
	Lambda
	// Keyword is a language keyword.
	Keyword
	// Number is an integer or floating literal.
	Number
	// String is a string literal.
	String
	// Char is a character literal.
	Char
	// Boolean is `true` or `false`.
	Boolean
	// Literal is a user defined literal.
	Literal
	// Enumerator is an identifier resolved to an enumerator.
	Enumerator
	// ArithmeticalOp is + - * / % << >>.
	ArithmeticalOp
	// ComparisonOp is == != < <= > >= <=>.
	ComparisonOp
	// AssignmentOp is = and the compound assignments.
	AssignmentOp
	// LogicalOp is && || !.
	LogicalOp
	// BitOp is & | ^ ~.
	BitOp
	// IncDecOp is ++ and --.
	IncDecOp
	// ExtendedOp is , [ ] ( ) ? :.
	ExtendedOp
	// Bracket is { } and linked < >.
	Bracket
	// Ellipsis is `...`.
	Ellipsis
	// Other is anything else.
	Other
)

var kindNames = [...]string{
	None:           "none",
	Name:           "name",
	Variable:       "variable",
	Type:           "type",
	Function:       "function",
	Lambda:         "lambda",
	Keyword:        "keyword",
	Number:         "number",
	String:         "string",
	Char:           "char",
	Boolean:        "boolean",
	Literal:        "literal",
	Enumerator:     "enumerator",
	ArithmeticalOp: "arithmetical-op",
	ComparisonOp:   "comparison-op",
	AssignmentOp:   "assignment-op",
	LogicalOp:      "logical-op",
	BitOp:          "bit-op",
	IncDecOp:       "incdec-op",
	ExtendedOp:     "extended-op",
	Bracket:        "bracket",
	Ellipsis:       "ellipsis",
	Other:          "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsName reports whether the kind denotes a name-like token.
func (k Kind) IsName() bool {
	switch k {
	case Name, Type, Variable, Function, Keyword, Boolean, Enumerator:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether the kind is a literal of any sort.
func (k Kind) IsLiteral() bool {
	switch k {
	case Number, String, Char, Boolean, Literal, Enumerator:
		return true
	default:
		return false
	}
}

// IsConstOp reports arithmetical, comparison, logical and bit operators.
func (k Kind) IsConstOp() bool {
	switch k {
	case ArithmeticalOp, ComparisonOp, LogicalOp, BitOp:
		return true
	default:
		return false
	}
}

// IsOp reports const operators, assignments and increment/decrement.
func (k Kind) IsOp() bool {
	return k.IsConstOp() || k == AssignmentOp || k == IncDecOp
}

// IsExtendedOp reports const operators plus , [ ] ( ) ? :.
func (k Kind) IsExtendedOp() bool {
	return k.IsConstOp() || k == ExtendedOp
}
