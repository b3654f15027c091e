package token

// Flags is the attribute bitset attached to a token.
type Flags uint32

const (
	// Unsigned marks an `unsigned` qualifier folded into the token.
	Unsigned Flags = 1 << iota
	// Signed marks an explicit `signed` qualifier folded into the token.
	Signed
	// Long marks a `long` qualifier, or an L-prefixed string/char literal.
	Long
	// Complex marks a `_Complex` qualifier.
	Complex
	// StandardType marks a builtin type name.
	StandardType
	// ExpandedMacro marks a token produced by macro expansion.
	ExpandedMacro
	// ControlFlowKeyword marks goto/do/if/else/for/while/switch/case/break/continue/return.
	ControlFlowKeyword
	// EnumType marks a type token naming an enum.
	EnumType
	// Cast marks the opening parenthesis of a cast.
	Cast
	// Template marks a token introduced by template instantiation.
	Template
	// Inline marks an inline function or variable.
	Inline
	// Atomic marks an `_Atomic` qualifier.
	Atomic
	// Restrict marks a `restrict` qualifier.
	Restrict
	// ImplicitInt marks a declaration with an implied `int`.
	ImplicitInt
	// AttributeNoreturn marks a noreturn attribute on a function name.
	AttributeNoreturn
	// AttributeUnused marks an unused attribute on a name.
	AttributeUnused
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// With returns f with f2 set or cleared.
func (f Flags) With(f2 Flags, on bool) Flags {
	if on {
		return f | f2
	}
	return f &^ f2
}
