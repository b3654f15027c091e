package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopePass, true},
		{LevelError, ScopeUnit, false},
		{LevelPhase, ScopeUnit, false},
		{LevelDetail, ScopeUnit, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, c := range cases {
		if got := c.level.ShouldEmit(c.scope); got != c.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", c.level, c.scope, got, c.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("DeBuG")
	if err != nil || l != LevelDebug {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestRingWrapsOldestFirst(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeNode, name, "", nil)
	}
	var got []string
	for _, ev := range r.Snapshot() {
		got = append(got, ev.Name)
	}
	if strings.Join(got, ",") != "c,d,e" {
		t.Fatalf("snapshot = %v, want [c d e]", got)
	}
}

func TestStreamSpanText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, run := BeginCtx(ctx, ScopeDriver, "analyze")
	_, pass := BeginCtx(ctx, ScopePass, "tokenize")
	pass.WithExtra("tokens", "12").End("")
	Point(tr, ScopeNode, "fact-cap", "", nil)
	run.End("ok")

	out := buf.String()
	for _, want := range []string{"→ analyze", "→ tokenize", "← tokenize {tokens=12}", "← analyze (ok)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "fact-cap") {
		t.Errorf("node event leaked at phase level:\n%s", out)
	}
}

func TestMultiFindsRing(t *testing.T) {
	tr, err := New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if Ring(tr) == nil {
		t.Fatal("Ring did not find the ring tracer")
	}
	if Ring(Nop) != nil {
		t.Fatal("Nop has no ring")
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeUnit, "unit:a.c", "", map[string]string{"tokens": "3"})
	line := buf.String()
	if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "\n") {
		t.Fatalf("not ndjson: %q", line)
	}
	if !strings.Contains(line, `"scope":"unit"`) || !strings.Contains(line, `"tokens":"3"`) {
		t.Fatalf("missing fields: %s", line)
	}
}
