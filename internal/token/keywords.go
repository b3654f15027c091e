package token

// Lang selects the keyword table used during classification.
type Lang uint8

const (
	LangC Lang = iota
	LangCPP
)

// String returns "c" or "c++".
func (l Lang) String() string {
	if l == LangCPP {
		return "c++"
	}
	return "c"
}

var cKeywords = map[string]struct{}{
	"auto": {}, "break": {}, "case": {}, "char": {}, "const": {}, "continue": {}, "default": {},
	"do": {}, "double": {}, "else": {}, "enum": {}, "extern": {}, "float": {}, "for": {}, "goto": {},
	"if": {}, "inline": {}, "int": {}, "long": {}, "register": {}, "restrict": {}, "return": {},
	"short": {}, "signed": {}, "sizeof": {}, "static": {}, "struct": {}, "switch": {}, "typedef": {},
	"union": {}, "unsigned": {}, "void": {}, "volatile": {}, "while": {}, "_Alignas": {},
	"_Alignof": {}, "_Atomic": {}, "_Bool": {}, "_Complex": {}, "_Generic": {}, "_Imaginary": {},
	"_Noreturn": {}, "_Static_assert": {}, "_Thread_local": {},
}

var cppOnlyKeywords = map[string]struct{}{
	"alignas": {}, "alignof": {}, "bool": {}, "catch": {}, "char8_t": {}, "char16_t": {},
	"char32_t": {}, "class": {}, "concept": {}, "const_cast": {}, "consteval": {}, "constexpr": {},
	"constinit": {}, "co_await": {}, "co_return": {}, "co_yield": {}, "decltype": {}, "delete": {},
	"dynamic_cast": {}, "explicit": {}, "export": {}, "false": {}, "friend": {}, "mutable": {},
	"namespace": {}, "new": {}, "noexcept": {}, "nullptr": {}, "operator": {}, "private": {},
	"protected": {}, "public": {}, "reinterpret_cast": {}, "requires": {}, "static_assert": {},
	"static_cast": {}, "template": {}, "this": {}, "thread_local": {}, "throw": {}, "true": {},
	"try": {}, "typeid": {}, "typename": {}, "using": {}, "virtual": {}, "wchar_t": {},
}

var controlFlowKeywords = map[string]struct{}{
	"goto": {}, "do": {}, "if": {}, "else": {}, "for": {}, "while": {}, "switch": {}, "case": {},
	"break": {}, "continue": {}, "return": {},
}

var standardTypes = map[string]struct{}{
	"bool": {}, "_Bool": {}, "char": {}, "double": {}, "float": {}, "int": {}, "long": {},
	"short": {}, "size_t": {}, "void": {}, "wchar_t": {}, "signed": {}, "unsigned": {},
}

// IsKeyword reports whether s is a keyword of lang. C++ includes every C keyword
// except the underscore-prefixed C11 spellings.
func IsKeyword(lang Lang, s string) bool {
	if _, ok := cKeywords[s]; ok {
		if lang == LangCPP && s[0] == '_' {
			return false
		}
		return true
	}
	if lang == LangCPP {
		_, ok := cppOnlyKeywords[s]
		return ok
	}
	return false
}

// IsControlFlowKeyword reports whether s transfers control.
func IsControlFlowKeyword(s string) bool {
	_, ok := controlFlowKeywords[s]
	return ok
}

// IsStandardType reports whether s names a builtin type.
func IsStandardType(s string) bool {
	_, ok := standardTypes[s]
	return ok
}
