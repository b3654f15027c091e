package token

import (
	"strconv"
	"strings"
)

var literalPrefixes = [...]string{"", "L", "u", "U", "u8", "R", "LR", "uR", "UR", "u8R"}

func literalPrefix(s string, quote byte) (string, bool) {
	q := strings.IndexByte(s, quote)
	if q < 0 || len(s) < q+2 || s[len(s)-1] != quote {
		return "", false
	}
	prefix := s[:q]
	for _, p := range literalPrefixes {
		if prefix == p {
			return prefix, true
		}
	}
	return "", false
}

// IsStringLiteral reports whether s is a (possibly prefixed) string literal.
func IsStringLiteral(s string) bool {
	_, ok := literalPrefix(s, '"')
	return ok
}

// IsCharLiteral reports whether s is a (possibly prefixed) character literal.
func IsCharLiteral(s string) bool {
	_, ok := literalPrefix(s, '\'')
	return ok
}

// LiteralPrefix returns the encoding prefix of a string or char literal ("" when none).
func LiteralPrefix(s string) string {
	if p, ok := literalPrefix(s, '"'); ok {
		return p
	}
	p, _ := literalPrefix(s, '\'')
	return p
}

// StringLiteralBody returns the text between the quotes of a string literal.
func StringLiteralBody(s string) string {
	q := strings.IndexByte(s, '"')
	if q < 0 || len(s) < q+2 {
		return ""
	}
	return s[q+1 : len(s)-1]
}

// IsNumberLike reports whether s starts like a preprocessing number.
func IsNumberLike(s string) bool {
	if s == "" {
		return false
	}
	if isDigit(s[0]) {
		return true
	}
	return len(s) > 1 && (s[0] == '-' || s[0] == '+' || s[0] == '.') && isDigit(s[1])
}

// IsIntLiteral reports whether s is a decimal, octal, hex or binary integer literal
// with an optional sign, digit separators and integer suffix.
func IsIntLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	body := trimIntSuffix(s)
	if body == "" {
		return false
	}
	switch {
	case len(body) > 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X'):
		return allDigits(body[2:], isHex)
	case len(body) > 2 && body[0] == '0' && (body[1] == 'b' || body[1] == 'B'):
		return allDigits(body[2:], func(c byte) bool { return c == '0' || c == '1' })
	default:
		return allDigits(body, isDigit)
	}
}

// IsFloatLiteral reports whether s is a decimal or hexadecimal floating literal.
func IsFloatLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	if last := s[len(s)-1]; last == 'f' || last == 'F' || last == 'l' || last == 'L' {
		s = s[:len(s)-1]
	}
	hex := len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
	digit := isDigit
	expChars := "eE"
	if hex {
		s = s[2:]
		digit = isHex
		expChars = "pP"
	}
	mant, exp, hasExp := s, "", false
	if i := strings.IndexAny(s, expChars); i >= 0 {
		mant, exp, hasExp = s[:i], s[i+1:], true
	}
	intPart, frac, hasDot := mant, "", false
	if i := strings.IndexByte(mant, '.'); i >= 0 {
		intPart, frac, hasDot = mant[:i], mant[i+1:], true
	}
	if !hasDot && !hasExp {
		return false
	}
	if hex && !hasExp {
		return false
	}
	if intPart == "" && frac == "" {
		return false
	}
	if !allDigitsOrEmpty(intPart, digit) || !allDigitsOrEmpty(frac, digit) {
		return false
	}
	if hasExp {
		exp = strings.TrimLeft(exp, "+-")
		return exp != "" && allDigits(exp, isDigit)
	}
	return true
}

// IntLiteralValue evaluates an integer literal. Values that overflow
// uint64 report false; larger unsigned values wrap into int64.
func IntLiteralValue(s string) (int64, bool) {
	if !IsIntLiteral(s) {
		return 0, false
	}
	neg := false
	for len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = neg != (s[0] == '-')
		s = s[1:]
	}
	body := strings.ReplaceAll(trimIntSuffix(s), "'", "")
	base := 10
	switch {
	case len(body) > 2 && (body[1] == 'x' || body[1] == 'X'):
		base, body = 16, body[2:]
	case len(body) > 2 && (body[1] == 'b' || body[1] == 'B'):
		base, body = 2, body[2:]
	case len(body) > 1 && body[0] == '0':
		base, body = 8, body[1:]
	}
	u, err := strconv.ParseUint(body, base, 64)
	if err != nil {
		return 0, false
	}
	v := int64(u) //nolint:gosec // wraps like the target's unsigned long long
	if neg {
		v = -v
	}
	return v, true
}

// FloatLiteralValue evaluates a floating literal.
func FloatLiteralValue(s string) (float64, bool) {
	if !IsFloatLiteral(s) {
		return 0, false
	}
	if last := s[len(s)-1]; last == 'f' || last == 'F' || last == 'l' || last == 'L' {
		s = s[:len(s)-1]
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, "'", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func trimIntSuffix(s string) string {
	for len(s) > 0 {
		switch s[len(s)-1] {
		case 'u', 'U', 'l', 'L', 'z', 'Z':
			s = s[:len(s)-1]
		default:
			return s
		}
	}
	return s
}

func allDigits(s string, ok func(byte) bool) bool {
	if s == "" {
		return false
	}
	return allDigitsOrEmpty(s, ok)
}

func allDigitsOrEmpty(s string, ok func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' && i > 0 && i < len(s)-1 {
			continue
		}
		if !ok(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
