package tokens

import (
	"strings"
	"testing"

	"tokflow/internal/source"
	"tokflow/internal/token"
)

// build tokenizes space separated words onto line 1 of file 0.
func build(t *testing.T, src string) *List {
	t.Helper()
	return buildOpts(t, src, Options{Lang: token.LangCPP})
}

func buildOpts(t *testing.T, src string, opts Options) *List {
	t.Helper()
	l := NewList(opts)
	for i, w := range strings.Fields(src) {
		l.AddToken(w, source.Pos{Line: 1, Col: uint32(i + 1)})
	}
	l.LinkBrackets()
	return l
}

// buildUnlinked is build without bracket pairing, for unbalanced input.
func buildUnlinked(t *testing.T, src string) *List {
	t.Helper()
	l := NewList(Options{Lang: token.LangCPP})
	for i, w := range strings.Fields(src) {
		l.AddToken(w, source.Pos{Line: 1, Col: uint32(i + 1)})
	}
	return l
}

func texts(l *List) string {
	var parts []string
	for tok := range l.All() {
		parts = append(parts, tok.Str())
	}
	return strings.Join(parts, " ")
}

// nth returns the i-th live token (0-based).
func nth(l *List, i int) *Token {
	return l.Front().TokAt(i)
}

// checkList verifies the neighbour, anchor and mutual link invariants.
func checkList(t *testing.T, l *List) {
	t.Helper()
	var prev *Token
	n := 0
	for tok := range l.All() {
		n++
		if tok.Previous() != prev {
			t.Fatalf("token %q: previous is %v, want %v", tok.Str(), tok.Previous(), prev)
		}
		if p := tok.Link(); p != nil && p.Link() != tok {
			t.Fatalf("token %q links %q which links %v", tok.Str(), p.Str(), p.Link())
		}
		prev = tok
	}
	if l.Back() != prev {
		t.Fatalf("back is %v, want %v", l.Back(), prev)
	}
	if n != l.Len() {
		t.Fatalf("Len() = %d, walked %d", l.Len(), n)
	}
}

func mustInternalError(t *testing.T, fn func()) *InternalError {
	t.Helper()
	var (
		ie *InternalError
		ok bool
	)
	func() {
		defer func() {
			ie, ok = AsInternalError(recover())
		}()
		fn()
	}()
	if !ok {
		t.Fatal("expected an internal error")
	}
	return ie
}
