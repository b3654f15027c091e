package check_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tokflow/internal/check"
	"tokflow/internal/diag"
	"tokflow/internal/lexer"
	"tokflow/internal/library"
	"tokflow/internal/source"
	"tokflow/internal/token"
	"tokflow/internal/tokens"
	"tokflow/internal/trace"
	"tokflow/internal/valueflow"
)

func parse(t *testing.T, src string) *tokens.List {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.c", []byte(src))
	l := tokens.NewList(tokens.Options{Lang: token.LangC, Files: []string{"t.c"}})
	lexer.Tokenize(fs.Get(id), l, lexer.Options{Lang: token.LangC})
	l.LinkBrackets()
	check.Seed(l)
	return l
}

func find(t *testing.T, l *tokens.List, pattern string) *tokens.Token {
	t.Helper()
	tok := tokens.FindMatch(l.Front(), pattern, 0)
	if tok == nil {
		t.Fatalf("pattern %q not found", pattern)
	}
	return tok
}

func formatValues(l *tokens.List, tok *tokens.Token) string {
	var parts []string
	for _, v := range tok.Values() {
		parts = append(parts, v.Kind.String()+" "+v.Format(l))
	}
	return strings.Join(parts, ", ")
}

func TestSeedLiterals(t *testing.T) {
	l := parse(t, "x = 0x10 + 'A' + 1.5 + true + -3 ; s = \"ab\" ;")
	tests := []struct {
		pattern string
		want    string
	}{
		{"0x10", "Known 16"},
		{"%char%", "Known 65"},
		{"1.5", "Known 1.5"},
		{"true", "Known 1"},
		{"- 3", "Known -3"},
	}
	for _, tt := range tests {
		tok := find(t, l, tt.pattern)
		if got := formatValues(l, tok); got != tt.want {
			t.Errorf("%s: values = %q, want %q", tt.pattern, got, tt.want)
		}
	}
	str := find(t, l, "%str%")
	if !str.HasKnownValueType(valueflow.Tok) {
		t.Fatalf("string literal lacks a token fact: %s", formatValues(l, str))
	}
	// binary minus is not seeded
	if v := find(t, l, "+ -").Values(); len(v) != 0 {
		t.Fatalf("binary + got values %v", v)
	}
}

func TestSeedTernaryAndConsts(t *testing.T) {
	l := parse(t, "const int N = -1 ; y = c ? 2 : N ;")
	q := find(t, l, "?")
	vals := q.Values()
	if len(vals) != 2 {
		t.Fatalf("? values = %s", formatValues(l, q))
	}
	for _, v := range vals {
		if !v.IsPossible() || l.Get(tokens.ID(v.Condition)).Str() != "c" {
			t.Fatalf("unexpected fact %+v", v)
		}
	}
	if got := []int64{vals[0].IntValue, vals[1].IntValue}; !cmp.Equal(got, []int64{2, -1}) {
		t.Fatalf("? values = %v", got)
	}
	if got := formatValues(l, find(t, l, "N ;")); got != "Known -1" {
		t.Fatalf("N use = %q", got)
	}
	if got := find(t, l, "N =").Values(); len(got) != 0 {
		t.Fatalf("declared name got values: %v", got)
	}
}

func TestSeedTwiceAddsNothing(t *testing.T) {
	l := parse(t, "const int N = 3 ; x = -1 + 'a' + N ; y = c ? 2 : N ; s = \"s\" ;")
	before := formatValues(l, find(t, l, "?"))
	if n := check.Seed(l); n != 0 {
		t.Fatalf("second Seed added %d facts", n)
	}
	if got := formatValues(l, find(t, l, "?")); got != before {
		t.Fatalf("? values changed: %q -> %q", before, got)
	}
}

func run(t *testing.T, src string, settings valueflow.Settings) *diag.Bag {
	t.Helper()
	l := parse(t, src)
	bag := diag.NewBag(0)
	_, err := check.Run(context.Background(), l, check.Options{
		Settings: settings,
		Library:  library.Std(),
		Reporter: diag.BagReporter{Bag: bag},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return bag
}

type finding struct {
	Sev  diag.Severity
	Code diag.Code
	Line uint32
}

func findings(bag *diag.Bag) []finding {
	var out []finding
	for _, d := range bag.Items() {
		out = append(out, finding{d.Severity, d.Code, d.Primary.Line})
	}
	return out
}

func TestInvalidArguments(t *testing.T) {
	src := strings.Join([]string{
		"memset(p, 0, -1);",
		"memset(p, 0, 16);",
		"isalpha(c ? 300 : 1);",
		"obj.memset(p, 0, -1);",
		"sqrt(-2.0);",
	}, "\n")
	bag := run(t, src, valueflow.Settings{})
	want := []finding{
		{diag.SevError, diag.CheckInvalidFunctionArg, 1},
		{diag.SevError, diag.CheckInvalidFunctionArg, 5},
	}
	if diff := cmp.Diff(want, findings(bag)); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
	if msg := bag.Items()[0].Message; !strings.Contains(msg, "memset() argument nr 3") || !strings.Contains(msg, "'0:'") {
		t.Fatalf("message = %q", msg)
	}

	bag = run(t, src, valueflow.Settings{Warning: true})
	want = []finding{
		{diag.SevError, diag.CheckInvalidFunctionArg, 1},
		{diag.SevWarning, diag.CheckInvalidFunctionArg, 3},
		{diag.SevError, diag.CheckInvalidFunctionArg, 5},
	}
	if diff := cmp.Diff(want, findings(bag)); diff != "" {
		t.Fatalf("findings with warnings mismatch (-want +got):\n%s", diff)
	}
	if notes := bag.Items()[1].Notes; len(notes) != 1 || notes[0].Pos.Line != 3 {
		t.Fatalf("warning notes = %+v", notes)
	}
}

func TestZeroDivision(t *testing.T) {
	src := strings.Join([]string{
		"a = b / 0;",
		"a = b % (0);",
		"a = b / 2;",
		"a /= c ? 0 : 1;",
		"a = b / (c ? 0 : 1);",
		"a = b / f(0);",
		"a = b / 0.0;",
	}, "\n")
	bag := run(t, src, valueflow.Settings{Warning: true})
	want := []finding{
		{diag.SevError, diag.CheckZeroDivision, 1},
		{diag.SevError, diag.CheckZeroDivision, 2},
		{diag.SevWarning, diag.CheckZeroDivision, 5},
	}
	if diff := cmp.Diff(want, findings(bag)); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
}

func TestRunTracesAndCancels(t *testing.T) {
	l := parse(t, "a = b / 0;")
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	if n := check.Seeded(ctx, l); n != 0 {
		t.Fatalf("reseeding added %d facts", n)
	}
	res, err := check.Run(ctx, l, check.Options{})
	if err != nil || res.Findings != 1 {
		t.Fatalf("Run = %+v, %v", res, err)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanEnd {
			names = append(names, ev.Name)
		}
	}
	if diff := cmp.Diff([]string{"seed", "invalid-function-arg", "zero-division"}, names); diff != "" {
		t.Fatalf("spans mismatch (-want +got):\n%s", diff)
	}

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := check.Run(cctx, l, check.Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run on cancelled ctx = %v", err)
	}
}
