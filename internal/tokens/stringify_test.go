package tokens

import (
	"bytes"
	"testing"

	"tokflow/internal/source"
	"tokflow/internal/token"
)

func addLine(l *List, line uint32, words ...string) {
	for i, w := range words {
		l.AddToken(w, source.Pos{Line: line, Col: uint32(i + 1)})
	}
}

func TestStringifyIDs(t *testing.T) {
	l := build(t, "x y z")
	x, y, z := nth(l, 0), nth(l, 1), nth(l, 2)
	x.SetVarID(3)
	x.SetExprID(3)
	y.SetExprID(ExprIDUnique | 5)
	z.SetExprID(9)

	tests := []struct {
		tok  *Token
		opts StringifyOptions
		want string
	}{
		{x, StringifyOptions{VarID: true}, "x@3"},
		{x, ForPrintOut(), "x@var3"},
		{y, ForPrintOut(), "y@exprUNIQUE"},
		{z, ForDebugExprID(), "z@9"},
		{z, ForDebugVarID(), "z"},
		{x, StringifyOptions{}, "x"},
	}
	for _, tt := range tests {
		if got := tt.tok.Stringify(tt.opts); got != tt.want {
			t.Errorf("Stringify(%q) = %q, want %q", tt.tok.Str(), got, tt.want)
		}
	}
}

func TestStringifyAttributesAndMacro(t *testing.T) {
	l := build(t, "int")
	tok := l.Front()
	tok.SetFlag(token.Unsigned, true)
	tok.SetFlag(token.Long, true)
	tok.SetMacroName("INT")
	if got := tok.Stringify(ForDebug()); got != "unsigned long $int" {
		t.Fatalf("got %q", got)
	}
	if got := tok.Stringify(StringifyOptions{}); got != "int" {
		t.Fatalf("plain got %q", got)
	}
}

func TestStringifyListLineNumbers(t *testing.T) {
	l := NewList(Options{Lang: token.LangC})
	addLine(l, 1, "int", "x", ";")
	addLine(l, 2, "return", "x", ";")
	opts := StringifyOptions{LineNumbers: true, LineBreaks: true}
	want := "1: int x ;\n2: return x ;\n"
	if got := l.Front().StringifyList(opts, nil, nil); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := l.Front().StringifyList(StringifyOptions{}, nil, nth(l, 3)); got != "int x ;" {
		t.Fatalf("bounded got %q", got)
	}
}

func TestStringifyListSkipsLongGaps(t *testing.T) {
	l := NewList(Options{Lang: token.LangC})
	addLine(l, 1, "a", ";")
	addLine(l, 9, "b", ";")
	opts := StringifyOptions{LineNumbers: true, LineBreaks: true}
	want := "1: a ;\n2:\n|\n8:\n9: b ;\n"
	if got := l.Front().StringifyList(opts, nil, nil); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintOutTitle(t *testing.T) {
	l := NewList(Options{Lang: token.LangC, Files: []string{"a.c"}})
	addLine(l, 1, "f", "(", ")", ";")
	var buf bytes.Buffer
	if err := l.Front().PrintOut(&buf, "tokens", l.Files()); err != nil {
		t.Fatal(err)
	}
	want := "\n### tokens ###\n\n\n##file a.c\n1: f ( ) ;\n\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
