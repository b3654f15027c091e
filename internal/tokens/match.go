package tokens

import (
	"fmt"
	"strings"
	"sync"

	"tokflow/internal/token"
)

type wildcard uint8

const (
	wildNone wildcard = iota
	wildAny
	wildName
	wildType
	wildNum
	wildVar
	wildVarID
	wildAssign
	wildComp
	wildCop
	wildOp
	wildOr
	wildOrOr
	wildBool
	wildStr
	wildChar
)

var wildcards = map[string]wildcard{
	"%any%":    wildAny,
	"%name%":   wildName,
	"%type%":   wildType,
	"%num%":    wildNum,
	"%var%":    wildVar,
	"%varid%":  wildVarID,
	"%assign%": wildAssign,
	"%comp%":   wildComp,
	"%cop%":    wildCop,
	"%op%":     wildOp,
	"%or%":     wildOr,
	"%oror%":   wildOrOr,
	"%bool%":   wildBool,
	"%str%":    wildStr,
	"%char%":   wildChar,
}

type alternative struct {
	lit  string
	wild wildcard
}

type slotKind uint8

const (
	slotAlternatives slotKind = iota
	slotNot
	slotClass
)

type slot struct {
	kind slotKind
	alts []alternative
	// emptyAlt is set by a trailing '|': the slot may match no token at all.
	emptyAlt bool
	// text is the negated word or the members of a character class.
	text string
	// closeBracket lets a class match "]" (it must not be the only member).
	closeBracket bool
}

// Pattern is a compiled match pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	src   string
	slots []slot
}

func (p *Pattern) String() string { return p.src }

type cached struct {
	p   *Pattern
	err error
}

var (
	patternCache sync.Map // string -> cached
	multiCache   sync.Map // string -> cached
)

// CompilePattern parses a pattern of space separated slots:
//
//	word        exact text
//	a|b|c       any of the alternatives; a trailing '|' also matches nothing
//	!!word      any token but word, or no token at all
//	[abc]       a one character token from the class
//	%kind%      a classification wildcard
func CompilePattern(src string) (*Pattern, error) {
	if c, ok := patternCache.Load(src); ok {
		return c.(cached).p, c.(cached).err
	}
	p, err := compilePattern(src)
	patternCache.Store(src, cached{p: p, err: err})
	return p, err
}

func compilePattern(src string) (*Pattern, error) {
	p := &Pattern{src: src}
	for _, word := range strings.Fields(src) {
		s, err := compileSlot(word)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", src, err)
		}
		p.slots = append(p.slots, s)
	}
	return p, nil
}

func compileSlot(word string) (slot, error) {
	switch {
	case word[0] == '[' && strings.IndexByte(word, ']') >= 0:
		var members []byte
		closers := 0
		for i := 1; i < len(word); i++ {
			if word[i] == ']' {
				closers++
				continue
			}
			members = append(members, word[i])
		}
		return slot{kind: slotClass, text: string(members), closeBracket: closers > 1}, nil
	case len(word) > 2 && strings.HasPrefix(word, "!!"):
		return slot{kind: slotNot, text: word[2:]}, nil
	default:
		return compileAlternatives(word)
	}
}

func compileAlternatives(word string) (slot, error) {
	s := slot{kind: slotAlternatives}
	parts := strings.Split(word, "|")
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		s.emptyAlt = true
	}
	for _, part := range parts {
		if part == "" {
			continue
		}
		// "%", "%=" and other short percent words are literal operators,
		// not wildcards
		if len(part) > 2 && part[0] == '%' && part[len(part)-1] == '%' {
			w, ok := wildcards[part]
			if !ok {
				return s, fmt.Errorf("unknown wildcard %s", part)
			}
			s.alts = append(s.alts, alternative{wild: w})
			continue
		}
		s.alts = append(s.alts, alternative{lit: part})
	}
	return s, nil
}

// compiled returns the pattern for src. A malformed pattern is an internal
// error positioned at tok.
func compiled(tok *Token, src string) *Pattern {
	p, err := CompilePattern(src)
	if err != nil {
		internalError(tok, err.Error())
	}
	return p
}

// Match reports whether the tokens from tok on match pattern.
func Match(tok *Token, pattern string) bool {
	return compiled(tok, pattern).MatchVarID(tok, 0)
}

// MatchVarID is Match with the variable id %varid% compares against.
// Using %varid% with varid 0 is an internal error.
func MatchVarID(tok *Token, pattern string, varid uint32) bool {
	return compiled(tok, pattern).MatchVarID(tok, varid)
}

// Match reports whether the tokens from tok on match p.
func (p *Pattern) Match(tok *Token) bool { return p.MatchVarID(tok, 0) }

// MatchVarID matches with a %varid% context.
func (p *Pattern) MatchVarID(tok *Token, varid uint32) bool {
	for i := range p.slots {
		s := &p.slots[i]
		if tok == nil {
			if s.kind == slotNot {
				continue
			}
			return false
		}
		switch s.kind {
		case slotClass:
			if len(tok.str) != 1 {
				return false
			}
			c := tok.str[0]
			if strings.IndexByte(s.text, c) < 0 && !(s.closeBracket && c == ']') {
				return false
			}
		case slotNot:
			if tok.str == s.text {
				return false
			}
		case slotAlternatives:
			switch s.compare(tok, varid) {
			case 0:
				// empty alternative: the next slot looks at the same token
				continue
			case -1:
				return false
			}
		}
		tok = tok.Next()
	}
	return true
}

// compare returns 1 on a match, 0 when only the empty alternative matches
// and -1 otherwise.
func (s *slot) compare(tok *Token, varid uint32) int {
	for _, a := range s.alts {
		if a.wild == wildNone {
			if tok.str == a.lit {
				return 1
			}
			continue
		}
		if matchWildcard(tok, a.wild, varid) {
			return 1
		}
	}
	if s.emptyAlt {
		return 0
	}
	return -1
}

func matchWildcard(tok *Token, w wildcard, varid uint32) bool {
	switch w {
	case wildAny:
		return true
	case wildName:
		return tok.IsName()
	case wildType:
		return tok.IsName() && tok.VarID() == 0
	case wildNum:
		return tok.IsNumber()
	case wildVar:
		return tok.VarID() != 0
	case wildVarID:
		if varid == 0 {
			internalError(tok, "Internal error. Match called with varid 0.")
		}
		return tok.VarID() == varid
	case wildAssign:
		return tok.IsAssignmentOp()
	case wildComp:
		return tok.IsComparisonOp()
	case wildCop:
		return tok.IsConstOp()
	case wildOp:
		return tok.IsOp()
	case wildOr:
		return tok.kind == token.BitOp && tok.str == "|"
	case wildOrOr:
		return tok.kind == token.LogicalOp && tok.str == "||"
	case wildBool:
		return tok.IsBoolean()
	case wildStr:
		return tok.kind == token.String
	case wildChar:
		return tok.kind == token.Char
	}
	return false
}

// MultiCompare matches one token against a single slot of '|' separated
// alternatives: 1 on a match, 0 when only a trailing empty alternative
// matches, -1 otherwise.
func MultiCompare(tok *Token, alternatives string, varid uint32) int {
	var s slot
	if c, ok := multiCache.Load(alternatives); ok {
		if c.(cached).err != nil {
			internalError(tok, c.(cached).err.Error())
		}
		s = c.(cached).p.slots[0]
	} else {
		var err error
		s, err = compileAlternatives(alternatives)
		if err != nil {
			multiCache.Store(alternatives, cached{err: err})
			internalError(tok, err.Error())
		}
		multiCache.Store(alternatives, cached{p: &Pattern{src: alternatives, slots: []slot{s}}})
	}
	return s.compare(tok, varid)
}

// SimpleMatch compares the space separated words of pattern with the text
// of consecutive tokens. There are no wildcards.
func SimpleMatch(tok *Token, pattern string) bool {
	if tok == nil {
		return false
	}
	for pattern != "" {
		word, rest, _ := strings.Cut(pattern, " ")
		if tok == nil || tok.str != word {
			return false
		}
		pattern = rest
		tok = tok.Next()
	}
	return true
}

// FindMatch returns the first token from start on that matches pattern.
func FindMatch(start *Token, pattern string, varid uint32) *Token {
	return FindMatchUntil(start, nil, pattern, varid)
}

// FindMatchUntil is FindMatch that stops before end.
func FindMatchUntil(start, end *Token, pattern string, varid uint32) *Token {
	p := compiled(start, pattern)
	for tok := start; tok != nil && tok != end; tok = tok.Next() {
		if p.MatchVarID(tok, varid) {
			return tok
		}
	}
	return nil
}

// FindSimpleMatch returns the first token from start on that simple-matches pattern.
func FindSimpleMatch(start *Token, pattern string) *Token {
	return FindSimpleMatchUntil(start, nil, pattern)
}

// FindSimpleMatchUntil is FindSimpleMatch that stops before end.
func FindSimpleMatchUntil(start, end *Token, pattern string) *Token {
	for tok := start; tok != nil && tok != end; tok = tok.Next() {
		if SimpleMatch(tok, pattern) {
			return tok
		}
	}
	return nil
}
