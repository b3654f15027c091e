package tokens

import (
	"sync"
	"testing"
)

func TestMatchNegation(t *testing.T) {
	if !Match(nil, "!!else") {
		t.Fatal("!!else must match an absent token")
	}
	l := build(t, "if else")
	if !Match(l.Front(), "!!else") {
		t.Fatal("!!else must match if")
	}
	if Match(l.Back(), "!!else") {
		t.Fatal("!!else must not match else")
	}
	if Match(l.Front(), "if !!else") {
		t.Fatal("if !!else must not match if else")
	}
}

func TestMatchAlternatives(t *testing.T) {
	l := build(t, "void int char long")
	want := []bool{true, true, true, false}
	i := 0
	for tok := range l.All() {
		if got := Match(tok, "void|int|char"); got != want[i] {
			t.Errorf("Match(%q) = %v", tok.Str(), got)
		}
		i++
	}
}

func TestMatchNum(t *testing.T) {
	l := build(t, `42 x "s" 0x1F 1e3`)
	want := map[string]bool{"42": true, "x": false, `"s"`: false, "0x1F": true, "1e3": true}
	for tok := range l.All() {
		if got := Match(tok, "%num%"); got != want[tok.Str()] {
			t.Errorf("%%num%% on %q = %v", tok.Str(), got)
		}
	}
}

func TestMatchEmptyAlternative(t *testing.T) {
	if l := build(t, "int x"); !Match(l.Front(), "const| int %name%") {
		t.Fatal("optional const not skipped")
	}
	if l := build(t, "const int x"); !Match(l.Front(), "const| int %name%") {
		t.Fatal("optional const not consumed")
	}
}

func TestMatchCharClass(t *testing.T) {
	l := buildUnlinked(t, "; } ( ]")
	want := []bool{true, true, false, false}
	i := 0
	for tok := range l.All() {
		if got := Match(tok, "[;{}]"); got != want[i] {
			t.Errorf("[;{}] on %q = %v", tok.Str(), got)
		}
		i++
	}
	if !Match(l.Back(), "[]a]]") {
		t.Fatal("class with two ] must match ]")
	}
}

func TestMatchPercentOperators(t *testing.T) {
	l := build(t, "x %= 2 % 3")
	if !Match(l.Front(), "%name% %= %num% % %num%") {
		t.Fatal("percent operators must match literally")
	}
	if Match(nth(l, 1), "%") || Match(nth(l, 3), "%=") {
		t.Fatal("percent operators must not match each other")
	}
}

func TestMatchWildcards(t *testing.T) {
	l := build(t, "x = a || b | 'c' == true ;")
	x := l.Front()
	x.SetVarID(1)
	nth(l, 2).SetVarID(2)
	if !Match(x, "%var% %assign% %name% %oror% %type% %or% %char% %comp% %bool% ;") {
		t.Fatal("wildcard chain did not match")
	}
	if !MatchVarID(x, "%varid% =", 1) || MatchVarID(x, "%varid% =", 2) {
		t.Fatal("varid comparison is wrong")
	}
	if Match(x, "%type%") {
		t.Fatal("a variable is not a type")
	}
}

func TestMatchVarIDZero(t *testing.T) {
	l := build(t, "x y")
	mustInternalError(t, func() { MatchVarID(l.Front(), "%varid%", 0) })
	// the wildcard is only evaluated when reached
	if !MatchVarID(l.Front(), "x|%varid%", 0) {
		t.Fatal("literal alternative should match first")
	}
}

func TestMatchUnknownWildcard(t *testing.T) {
	l := build(t, "x")
	ie := mustInternalError(t, func() { Match(l.Front(), "%bogus%") })
	if ie.Token != "x" {
		t.Fatalf("error positioned at %q", ie.Token)
	}
	if _, err := CompilePattern("a %bogus%"); err == nil {
		t.Fatal("CompilePattern accepted an unknown wildcard")
	}
}

func TestMultiCompare(t *testing.T) {
	l := build(t, "int x")
	cases := []struct {
		tok  *Token
		alts string
		want int
	}{
		{l.Front(), "void|int", 1},
		{l.Back(), "void|int", -1},
		{l.Back(), "void|int|", 0},
		{l.Back(), "%name%", 1},
	}
	for _, c := range cases {
		if got := MultiCompare(c.tok, c.alts, 0); got != c.want {
			t.Errorf("MultiCompare(%q, %q) = %d, want %d", c.tok.Str(), c.alts, got, c.want)
		}
	}
}

func TestSimpleMatch(t *testing.T) {
	l := build(t, "a b c")
	if !SimpleMatch(l.Front(), "a b") || SimpleMatch(l.Front(), "a c") {
		t.Fatal("SimpleMatch wrong")
	}
	if SimpleMatch(nil, "a") || SimpleMatch(l.Back(), "c d") {
		t.Fatal("SimpleMatch ran past the end")
	}
}

func TestFindMatch(t *testing.T) {
	l := build(t, "a = 1 ; b = 2 ;")
	if got := FindMatch(l.Front(), "%name% = 2", 0); got != nth(l, 4) {
		t.Fatalf("FindMatch = %v", got)
	}
	if got := FindMatchUntil(l.Front(), nth(l, 4), "%name% = 2", 0); got != nil {
		t.Fatalf("FindMatchUntil ignored end: %v", got)
	}
	if got := FindSimpleMatch(l.Front(), "; b"); got != nth(l, 3) {
		t.Fatalf("FindSimpleMatch = %v", got)
	}
	if got := FindSimpleMatchUntil(l.Front(), nth(l, 3), ";"); got != nil {
		t.Fatalf("FindSimpleMatchUntil = %v", got)
	}
}

func TestPatternCacheConcurrent(t *testing.T) {
	l := build(t, "std :: vector < int > v ;")
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if !Match(l.Front(), "%name% :: %name% <") {
					t.Error("concurrent match failed")
					return
				}
			}
		}()
	}
	wg.Wait()
}
