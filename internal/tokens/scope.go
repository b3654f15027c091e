package tokens

import (
	"slices"
	"strings"
)

// ScopeInfo is the lexical scope active at a token: the qualified scope name
// and the namespaces brought in with `using namespace`. Tokens of one block
// share the same record.
type ScopeInfo struct {
	Name string
	// BodyEnd is the closing brace of the scope when known.
	BodyEnd ID

	usings map[string]struct{}
}

// child opens a nested scope inheriting the using directives of s.
func (s *ScopeInfo) child(addition string) *ScopeInfo {
	name := s.Name
	if name != "" && addition != "" {
		name += " :: "
	}
	name += addition
	n := &ScopeInfo{Name: name}
	if len(s.usings) > 0 {
		n.usings = make(map[string]struct{}, len(s.usings))
		for k := range s.usings {
			n.usings[k] = struct{}{}
		}
	}
	return n
}

// AddUsing records a `using namespace` directive.
func (s *ScopeInfo) AddUsing(ns string) {
	if s.usings == nil {
		s.usings = make(map[string]struct{})
	}
	s.usings[ns] = struct{}{}
}

// Uses reports whether ns was brought in by a using directive.
func (s *ScopeInfo) Uses(ns string) bool {
	_, ok := s.usings[ns]
	return ok
}

// Usings returns the recorded namespaces sorted.
func (s *ScopeInfo) Usings() []string {
	out := make([]string, 0, len(s.usings))
	for k := range s.usings {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Scope returns the scope record of t, nil when scopes are not tracked.
func (t *Token) Scope() *ScopeInfo { return t.impl.scope }

// SetScope replaces the scope record of t.
func (t *Token) SetScope(s *ScopeInfo) { t.impl.scope = s }

var memberQualifiers = "const|volatile|final|override|&|&&|noexcept"

// inferScope gives a freshly inserted token its scope. t is the receiver
// of the insertion and nt the new token.
func (t *Token) inferScope(nt *Token, prepend bool) {
	switch nt.str {
	case "{":
		addition, ok := scopeNameBefore(nt)
		if !ok {
			return
		}
		nt.impl.scope = t.impl.scope.child(addition)
	case "}":
		depth := 0
		m := nt.Previous()
		for m != nil && (depth != 0 || m.str != "{") {
			if m.str == "}" {
				depth++
			}
			if m.str == "{" {
				depth--
			}
			m = m.Previous()
		}
		if m != nil && m.Previous() != nil {
			nt.impl.scope = m.Previous().impl.scope
		}
	default:
		if p := nt.Previous(); prepend && p != nil {
			nt.impl.scope = p.impl.scope
		} else {
			nt.impl.scope = t.impl.scope
		}
		if nt.str == ";" {
			t.recordUsing(nt)
		}
	}
}

// scopeNameBefore works out the name a brace opens: a qualified member
// function body, or the name of a namespace/class/struct/union.
// ok is false when the brace closes a function-like header that cannot be
// resolved; no scope is recorded then.
func scopeNameBefore(brace *Token) (string, bool) {
	var addition string

	tok1 := brace
	for Match(tok1.Previous(), memberQualifiers) {
		tok1 = tok1.Previous()
	}
	if tok1.Previous() != nil && tok1.StrAt(-1) == ")" {
		tok1 = tok1.LinkAt(-1)
		if tok1 == nil {
			return "", false
		}
		if Match(tok1.Previous(), "throw|noexcept") {
			tok1 = tok1.Previous()
			for Match(tok1.Previous(), memberQualifiers) {
				tok1 = tok1.Previous()
			}
			if tok1.StrAt(-1) != ")" {
				return "", false
			}
		} else if Match(brace.TokAt(-2), ":|, %name%") {
			tok1 = tok1.TokAt(-2)
			if tok1 == nil || tok1.StrAt(-1) != ")" {
				return "", false
			}
		}
		if tok1.StrAt(-1) == ">" {
			tok1 = tok1.Previous().FindOpeningBracket()
		}
		if tok1 != nil && Match(tok1.TokAt(-3), "%name% :: %name%") {
			tok1 = tok1.TokAt(-2)
			scope := tok1.StrAt(-1)
			for Match(tok1.TokAt(-2), ":: %name%") {
				scope = tok1.StrAt(-3) + " :: " + scope
				tok1 = tok1.TokAt(-2)
			}
			addition += scope
		}
	}

	if Match(brace.Previous(), "%name%|>") {
		nameTok := brace.Previous()
		for nameTok != nil && !Match(nameTok, "namespace|class|struct|union %name% {|::|:|<") {
			nameTok = nameTok.Previous()
		}
		if nameTok != nil {
			var parts []string
			for nameTok = nameTok.Next(); nameTok != nil && !Match(nameTok, "{|:|<"); nameTok = nameTok.Next() {
				parts = append(parts, nameTok.str)
			}
			addition += strings.Join(parts, " ")
		}
	}
	return addition, true
}

// recordUsing adds `using namespace a :: b ;` ending at semi to the scope of t.
func (t *Token) recordUsing(semi *Token) {
	start := semi
	for start.Previous() != nil && !Match(start.Previous(), ";|{") {
		start = start.Previous()
	}
	if !Match(start, "using namespace %name% ::|;") {
		return
	}
	var parts []string
	for tok := start.TokAt(2); tok != nil && tok.str != ";"; tok = tok.Next() {
		parts = append(parts, tok.str)
	}
	t.impl.scope.AddUsing(strings.Join(parts, " "))
}
