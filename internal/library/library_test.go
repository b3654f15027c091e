package library

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tokflow/internal/config"
	"tokflow/internal/source"
	"tokflow/internal/token"
	"tokflow/internal/tokens"
)

func TestParseRanges(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		in   string
		want Ranges
	}{
		{"", nil},
		{"0:", Ranges{{0, inf}}},
		{":-1", Ranges{{math.Inf(-1), -1}}},
		{"1:255", Ranges{{1, 255}}},
		{"-1,1:10", Ranges{{-1, -1}, {1, 10}}},
		{" 0.5 : 1.5 ", Ranges{{0.5, 1.5}}},
	}
	for _, tt := range tests {
		got, err := ParseRanges(tt.in)
		if err != nil {
			t.Fatalf("ParseRanges(%q): %v", tt.in, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseRanges(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
	for _, bad := range []string{":", "a:", "5:1", "1,,2"} {
		if _, err := ParseRanges(bad); err == nil {
			t.Errorf("ParseRanges(%q) succeeded", bad)
		}
	}
}

func TestRangesString(t *testing.T) {
	rs, err := ParseRanges("-1,1:10,0:,:3")
	if err != nil {
		t.Fatal(err)
	}
	if got := rs.String(); got != "-1,1:10,0:,:3" {
		t.Fatalf("String() = %q", got)
	}
}

func TestContains(t *testing.T) {
	rs, _ := ParseRanges("-1,1:10")
	for v, want := range map[float64]bool{-1: true, 0: false, 1: true, 10: true, 11: false} {
		if got := rs.Contains(v); got != want {
			t.Errorf("Contains(%v) = %v", v, got)
		}
	}
	if !Ranges(nil).Contains(-100) {
		t.Error("empty ranges should accept everything")
	}
}

func call(t *testing.T, name string) *tokens.Token {
	t.Helper()
	l := tokens.NewList(tokens.Options{Lang: token.LangC})
	for _, s := range []string{name, "(", "x", ")", ";"} {
		l.AddToken(s, source.Pos{Line: 1})
	}
	return l.Front()
}

func TestOracle(t *testing.T) {
	lib, err := FromConfig(config.Library{Functions: []config.Function{
		{Name: "f", Args: []config.Arg{{Nr: 1, Valid: "0:9"}}},
	}})
	if err != nil {
		t.Fatal(err)
	}
	f := call(t, "f")
	if !lib.IsFunction(f) {
		t.Fatal("f should be known")
	}
	if lib.IsIntArgValid(f, 1, 10) || !lib.IsIntArgValid(f, 1, 9) {
		t.Error("argument 1 range not applied")
	}
	if !lib.IsIntArgValid(f, 2, -5) {
		t.Error("argument without rule should be valid")
	}
	g := call(t, "g")
	if lib.IsFunction(g) || !lib.IsFloatArgValid(g, 1, -1) {
		t.Error("unknown function should accept anything")
	}
}

func TestStdMerge(t *testing.T) {
	std := Std()
	m := call(t, "memset")
	if std.IsIntArgValid(m, 3, -1) {
		t.Error("memset size must be non-negative")
	}
	if std.IsFloatArgValid(call(t, "sqrt"), 1, -0.5) {
		t.Error("sqrt of negative should be invalid")
	}
	if std.IsFloatArgValid(call(t, "log"), 1, 0) {
		t.Error("log(0) should be invalid")
	}
	user := New()
	user.Add("memset", ArgRule{Nr: 3, Valid: Ranges{{Lo: -1, Hi: -1}}})
	std.Merge(user)
	if !std.IsIntArgValid(m, 3, -1) || std.IsIntArgValid(m, 3, 0) {
		t.Error("merged rule did not replace std rule")
	}
}

func TestFromConfigError(t *testing.T) {
	_, err := FromConfig(config.Library{Functions: []config.Function{
		{Name: "f", Args: []config.Arg{{Nr: 1, Valid: "x"}}},
	}})
	if err == nil {
		t.Fatal("expected error")
	}
}
