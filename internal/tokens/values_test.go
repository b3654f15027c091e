package tokens

import (
	"bytes"
	"strings"
	"testing"

	"tokflow/internal/token"
	"tokflow/internal/trace"
	"tokflow/internal/valueflow"
)

func known(n int64) valueflow.Value    { return valueflow.NewInt(n).WithKind(valueflow.Known) }
func possible(n int64) valueflow.Value { return valueflow.NewInt(n).WithKind(valueflow.Possible) }

func TestKnownValueReplacesPossibles(t *testing.T) {
	l := build(t, "x")
	x := l.Front()
	x.AddValue(possible(5))
	x.AddValue(possible(7))
	if !x.AddValue(known(5)) {
		t.Fatal("known value rejected")
	}
	vals := x.Values()
	if len(vals) != 1 || !vals[0].IsKnown() || vals[0].IntValue != 5 {
		t.Fatalf("values = %+v", vals)
	}
	if !x.HasKnownIntValue() || x.GetKnownValue(valueflow.Int) == nil {
		t.Fatal("known int not reported")
	}
}

func TestKnownValueBlocksContradiction(t *testing.T) {
	l := build(t, "x")
	x := l.Front()
	x.AddValue(known(5))
	if x.AddValue(possible(7)) {
		t.Fatal("possible value contradicting a known one was added")
	}
	if len(x.Values()) != 1 {
		t.Fatalf("values = %+v", x.Values())
	}
}

func TestFactCapEmitsTraceEvent(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelDebug)
	l := buildOpts(t, "x", Options{Lang: token.LangCPP, Tracer: ring})
	x := l.Front()
	for i := range int64(valueflow.MaxValues) {
		if !x.AddValue(possible(i * 10)) {
			t.Fatalf("value %d rejected below the cap", i)
		}
	}
	if x.AddValue(possible(1000)) {
		t.Fatal("value accepted above the cap")
	}
	if len(x.Values()) != valueflow.MaxValues {
		t.Fatalf("len = %d", len(x.Values()))
	}
	events := ring.Snapshot()
	if len(events) != 1 || events[0].Name != "fact-cap" || events[0].Extra["value"] != "1000" {
		t.Fatalf("events = %+v", events)
	}
}

func TestMinMaxValues(t *testing.T) {
	l := build(t, "if ( x ) { }")
	x := nth(l, 2)
	cond := l.Front()
	x.AddValue(possible(3))
	x.AddValue(possible(9))
	withCond := possible(20)
	withCond.Condition = cond.Ref()
	x.AddValue(withCond)
	impossible := valueflow.NewInt(100).WithKind(valueflow.Impossible)
	x.AddValue(impossible)

	if v := x.GetMaxValue(false, 0); v == nil || v.IntValue != 9 {
		t.Fatalf("max = %+v", v)
	}
	if v := x.GetMinValue(false, 0); v == nil || v.IntValue != 3 {
		t.Fatalf("min = %+v", v)
	}
	if v := x.GetMaxValue(true, 0); v == nil || v.IntValue != 20 {
		t.Fatalf("conditional max = %+v", v)
	}
	if v := x.GetValue(100); v != nil {
		t.Fatal("impossible value returned by GetValue")
	}
	if v := x.GetValueNE(3); v == nil || v.IntValue == 3 {
		t.Fatalf("GetValueNE = %+v", v)
	}
}

func TestGetValueLEAndGESettings(t *testing.T) {
	l := build(t, "c x")
	x := l.Back()
	v := possible(-1)
	v.Condition = l.Front().Ref()
	x.AddValue(v)

	if got := x.GetValueLE(0, valueflow.Settings{}); got != nil {
		t.Fatal("conditional value returned without warnings enabled")
	}
	if got := x.GetValueLE(0, valueflow.Settings{Warning: true}); got == nil || got.IntValue != -1 {
		t.Fatalf("GetValueLE = %+v", got)
	}
	if got := x.GetValueGE(0, valueflow.Settings{Warning: true}); got != nil {
		t.Fatalf("GetValueGE = %+v", got)
	}
}

func TestMovedAndContainerValues(t *testing.T) {
	l := build(t, "v")
	v := l.Front()
	v.AddValue(valueflow.NewMoved(valueflow.NonMovedVariable))
	if v.GetMovedValue() != nil {
		t.Fatal("non-moved variable reported as moved")
	}
	v.ClearValues()
	v.AddValue(valueflow.NewMoved(valueflow.MovedVariable))
	v.AddValue(valueflow.NewContainerSize(0))
	if v.GetMovedValue() == nil || v.GetContainerSizeValue(0) == nil || v.GetContainerSizeValue(1) != nil {
		t.Fatalf("values = %+v", v.Values())
	}
}

type negativeInvalid struct{}

func (negativeInvalid) IsIntArgValid(_ *Token, _ int, v int64) bool     { return v >= 0 }
func (negativeInvalid) IsFloatArgValid(_ *Token, _ int, v float64) bool { return v >= 0 }

func TestGetInvalidValue(t *testing.T) {
	l := build(t, "malloc ( n )")
	n := nth(l, 2)
	n.AddValue(possible(4))
	if n.GetInvalidValue(l.Front(), 1, negativeInvalid{}, valueflow.Settings{}) != nil {
		t.Fatal("valid value reported")
	}
	n.AddValue(possible(-2))
	got := n.GetInvalidValue(l.Front(), 1, negativeInvalid{}, valueflow.Settings{})
	if got == nil || got.IntValue != -2 {
		t.Fatalf("invalid value = %+v", got)
	}
	n.AddValue(valueflow.NewInt(-5).WithKind(valueflow.Impossible))
	if got := n.GetInvalidValue(l.Front(), 1, negativeInvalid{}, valueflow.Settings{}); got == nil || got.IntValue != -2 {
		t.Fatalf("impossible value considered: %+v", got)
	}
}

func TestKnownSymbolicValue(t *testing.T) {
	l := build(t, "a b")
	a, b := l.Front(), l.Back()
	b.SetExprID(7)
	a.AddValue(valueflow.NewSymbolic(b.Ref(), 0).WithKind(valueflow.Known))
	if !a.HasKnownSymbolicValue(b) {
		t.Fatal("symbolic value not found")
	}
	if !a.HasKnownValueType(valueflow.Symbolic) || a.HasKnownValueType(valueflow.Int) {
		t.Fatal("HasKnownValueType wrong")
	}
}

func TestStringLiteralSizes(t *testing.T) {
	l := build(t, `"ab" "a\0b" "x\ny" L"ab" u"ab"`)
	ab, nul, esc, wide, u16 := nth(l, 0), nth(l, 1), nth(l, 2), nth(l, 3), nth(l, 4)
	if GetStrLength(ab) != 2 || GetStrArraySize(ab) != 3 {
		t.Fatal("plain literal sizes wrong")
	}
	if GetStrLength(nul) != 1 || GetStrArraySize(nul) != 4 {
		t.Fatalf("embedded nul: len %d size %d", GetStrLength(nul), GetStrArraySize(nul))
	}
	if GetStrLength(esc) != 3 {
		t.Fatalf("escape length %d", GetStrLength(esc))
	}
	if GetStrSize(wide, Sizes{WCharT: 2}) != 6 || GetStrSize(wide, DefaultSizes) != 12 {
		t.Fatal("wide literal size wrong")
	}
	if GetStrSize(u16, DefaultSizes) != 6 {
		t.Fatal("u literal size wrong")
	}
	name := build(t, "s").Front()
	mustInternalError(t, func() { GetStrLength(name) })
}

func TestValueTokenStrSizes(t *testing.T) {
	l := build(t, `p "abcd" "ab"`)
	p, long, short := nth(l, 0), nth(l, 1), nth(l, 2)
	lv := valueflow.NewTok(long.Ref())
	lv.Path = 2
	p.AddValue(lv)
	p.AddValue(valueflow.NewTok(short.Ref()))
	if got, path := p.GetValueTokenMinStrSize(DefaultSizes); got != short || path != 0 {
		t.Fatalf("min size = %v path %d", got, path)
	}
	if got := p.GetValueTokenMaxStrLength(); got != long {
		t.Fatalf("max length = %v", got)
	}
}

func TestPrintValueFlowText(t *testing.T) {
	l := buildOpts(t, "x = 5 ;", Options{Lang: token.LangC, Files: []string{"a.c"}})
	nth(l, 2).AddValue(known(5))
	x := l.Front()
	x.AddValue(possible(1))
	x.AddValue(possible(2))

	var buf bytes.Buffer
	if err := l.Front().PrintValueFlow(&buf, false); err != nil {
		t.Fatal(err)
	}
	want := "\n\n##Value flow\nFile a.c\nLine 1\n  x possible {1,2}\n  5 always 5\n"
	if buf.String() != want {
		t.Fatalf("got %q\nwant %q", buf.String(), want)
	}
}

func TestPrintValueFlowXML(t *testing.T) {
	l := build(t, "if ( x ) { }")
	x := nth(l, 2)
	v := valueflow.NewInt(3).WithKind(valueflow.Possible).WithBound(valueflow.Lower)
	v.Condition = l.Front().Ref()
	x.AddValue(v)

	var buf bytes.Buffer
	if err := l.Front().PrintValueFlow(&buf, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"<valueflow>",
		`<values id="t3">`,
		`intvalue="3" bound="Lower" condition-line="1" possible="true" path="0"/>`,
		"</valueflow>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestPrintAst(t *testing.T) {
	l := buildOpts(t, "x = a + 1 ;", Options{Lang: token.LangC, Files: []string{"m.c"}})
	plus := binary(nth(l, 3), nth(l, 2), nth(l, 4))
	binary(nth(l, 1), nth(l, 0), plus)
	nth(l, 0).SetVarID(1)

	var text bytes.Buffer
	if err := l.Front().PrintAst(&text, false); err != nil {
		t.Fatal(err)
	}
	want := "\n\n##AST\n[m.c:1]\n=\n|-x\n`-+\n  |-a\n  `-1\n\n"
	if text.String() != want {
		t.Fatalf("got %q\nwant %q", text.String(), want)
	}

	var xml bytes.Buffer
	if err := l.Front().PrintAst(&xml, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(xml.String(), `<token str="x" varId="1"/>`) ||
		!strings.HasPrefix(xml.String(), `<ast scope="" fileIndex="0" linenr="1" column="2">`) {
		t.Fatalf("xml:\n%s", xml.String())
	}
}
