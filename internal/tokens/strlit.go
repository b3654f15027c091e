package tokens

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"tokflow/internal/token"
)

// Sizes carries the target sizes the literal size queries depend on.
type Sizes struct {
	WCharT int
}

// DefaultSizes matches a typical LP64 target.
var DefaultSizes = Sizes{WCharT: 4}

func charLiteralBody(s string) string {
	q := strings.IndexByte(s, '\'')
	if q < 0 || len(s) < q+2 {
		return ""
	}
	return s[q+1 : len(s)-1]
}

// replaceEscapeSequences decodes C escapes: simple ones, octal, \x hex and
// \u/\U (as UTF-8). Unknown escapes keep the escaped character.
func replaceEscapeSequences(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case 'x':
			j := i + 1
			for j < len(s) && isHexDigit(s[j]) {
				j++
			}
			if j == i+1 {
				sb.WriteByte('x')
				continue
			}
			v, _ := strconv.ParseUint(s[i+1:j], 16, 64)
			sb.WriteByte(byte(v))
			i = j - 1
		case 'u', 'U':
			n := 4
			if e == 'U' {
				n = 8
			}
			if i+n >= len(s) {
				sb.WriteByte(e)
				continue
			}
			v, err := strconv.ParseUint(s[i+1:i+1+n], 16, 32)
			if err != nil {
				sb.WriteByte(e)
				continue
			}
			sb.WriteRune(rune(v))
			i += n
		default:
			if e >= '0' && e <= '7' {
				j := i
				for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
					j++
				}
				v, _ := strconv.ParseUint(s[i:j], 8, 16)
				sb.WriteByte(byte(v))
				i = j - 1
				continue
			}
			sb.WriteByte(e)
		}
	}
	return sb.String()
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// CharLiteralValue returns the value of a single-character literal after
// escape decoding. Multi-character literals report false.
func CharLiteralValue(t *Token) (int64, bool) {
	if t.kind != token.Char {
		return 0, false
	}
	body := replaceEscapeSequences(charLiteralBody(t.str))
	switch {
	case len(body) == 1:
		if token.LiteralPrefix(t.str) == "" {
			return int64(int8(body[0])), true
		}
		return int64(body[0]), true
	case body != "" && token.LiteralPrefix(t.str) != "":
		r, size := utf8.DecodeRuneInString(body)
		if size == len(body) && r != utf8.RuneError {
			return int64(r), true
		}
	}
	return 0, false
}

// GetStrLength returns the strlen of a string literal: escapes count as
// one character and an embedded \0 ends the string.
func GetStrLength(t *Token) int {
	if t.kind != token.String {
		internalError(t, "getStrLength called on a non-string token")
	}
	body := token.StringLiteralBody(t.str)
	n := 0
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			i++
			if i >= len(body) || body[i] == '0' {
				return n
			}
		}
		if body[i] == 0 {
			return n
		}
		n++
	}
	return n
}

// GetStrArraySize returns the element count of the array a string literal
// initialises, terminator included.
func GetStrArraySize(t *Token) int {
	if t.kind != token.String {
		internalError(t, "getStrArraySize called on a non-string token")
	}
	body := token.StringLiteralBody(t.str)
	size := 1
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			i++
		}
		size++
	}
	return size
}

// GetStrSize returns the size in bytes of a string literal, scaled by the
// character width of its encoding prefix.
func GetStrSize(t *Token, sizes Sizes) int {
	return GetStrArraySize(t) * charWidth(token.LiteralPrefix(t.str), sizes)
}

func charWidth(prefix string, sizes Sizes) int {
	switch prefix {
	case "u":
		return 2
	case "U":
		return 4
	case "L":
		if sizes.WCharT > 0 {
			return sizes.WCharT
		}
		return DefaultSizes.WCharT
	}
	return 1
}
