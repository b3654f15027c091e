package token

import (
	"errors"
	"strings"
)

// ErrVarIDOnBool is returned by Classify when a C++ bool literal carries a variable id.
var ErrVarIDOnBool = errors.New("variable id set for bool literal")

// Classify derives the kind and property flags of a token from its text.
// linked tells whether the token is currently paired with a matching bracket.
// Only the ControlFlowKeyword, StandardType and Long bits are owned by Classify;
// callers merge the result into the existing flag set with Merge.
func Classify(str string, varID uint32, linked bool, lang Lang) (Kind, Flags, error) {
	var flags Flags
	if str == "" {
		return None, flags, nil
	}
	switch {
	case str == "true" || str == "false":
		if varID != 0 {
			if lang == LangCPP {
				return Variable, flags, ErrVarIDOnBool
			}
			return Variable, flags, nil
		}
		return Boolean, flags, nil
	case IsStringLiteral(str):
		if LiteralPrefix(str) == "L" {
			flags |= Long
		}
		return String, flags, nil
	case IsCharLiteral(str):
		if LiteralPrefix(str) == "L" {
			flags |= Long
		}
		return Char, flags, nil
	case isNameStart(str[0]):
		if varID != 0 {
			return Variable, flags, nil
		}
		if IsKeyword(lang, str) {
			if isStandardTypeCandidate(str) {
				return Type, flags | StandardType, nil
			}
			if IsControlFlowKeyword(str) {
				flags |= ControlFlowKeyword
			}
			return Keyword, flags, nil
		}
		if str == "asm" {
			return Keyword, flags, nil
		}
		if isStandardTypeCandidate(str) {
			return Type, flags | StandardType, nil
		}
		return Name, flags, nil
	case IsNumberLike(str):
		if (IsIntLiteral(str) || IsFloatLiteral(str)) && !strings.Contains(str, "_") {
			return Number, flags, nil
		}
		return Name, flags, nil
	}
	return classifyOperator(str, linked), flags, nil
}

func classifyOperator(str string, linked bool) Kind {
	n := len(str)
	switch {
	case str == "=" || str == "<<=" || str == ">>=" ||
		(n == 2 && str[1] == '=' && strings.IndexByte("+-*/%&^|", str[0]) >= 0):
		return AssignmentOp
	case n == 1 && strings.IndexByte(",[]()?:", str[0]) >= 0:
		return ExtendedOp
	case str == "<<" || str == ">>" || (n == 1 && strings.IndexByte("+-*/%", str[0]) >= 0):
		return ArithmeticalOp
	case n == 1 && strings.IndexByte("&|^~", str[0]) >= 0:
		return BitOp
	case str == "&&" || str == "||" || str == "!":
		return LogicalOp
	case !linked && (str == "==" || str == "!=" || str == "<" || str == "<=" || str == ">" || str == ">="):
		return ComparisonOp
	case str == "<=>":
		return ComparisonOp
	case str == "++" || str == "--":
		return IncDecOp
	case n == 1 && (str[0] == '{' || str[0] == '}' || (linked && (str[0] == '<' || str[0] == '>'))):
		return Bracket
	case str == "...":
		return Ellipsis
	default:
		return Other
	}
}

// Merge folds the Classify-owned bits of computed into existing.
// Long is only ever set here: an explicit `long` qualifier survives reclassification.
func Merge(existing, computed Flags) Flags {
	existing &^= ControlFlowKeyword | StandardType
	return existing | computed
}

func isStandardTypeCandidate(s string) bool {
	if len(s) < 3 || len(s) > 7 {
		return false
	}
	return IsStandardType(s)
}

func isNameStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}
