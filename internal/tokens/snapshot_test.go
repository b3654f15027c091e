package tokens

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vmihailenco/msgpack/v5"

	"tokflow/internal/token"
	"tokflow/internal/valueflow"
)

func TestSnapshotRoundTrip(t *testing.T) {
	l := buildOpts(t, "dead x = f ( a + 1 ) ;", Options{Lang: token.LangCPP, Files: []string{"s.cpp"}})
	l.Front().DeleteThis()

	x, eq, f, paren, a, plus, one := nth(l, 0), nth(l, 1), nth(l, 2), nth(l, 3), nth(l, 4), nth(l, 5), nth(l, 6)
	binary(plus, a, one)
	paren.SetAstOperand1(f)
	paren.SetAstOperand2(plus)
	binary(eq, x, paren)
	x.SetVarID(1)
	a.SetVarID(2)
	a.SetExprID(2)
	x.SetAttribute(AttrLow, -4)
	f.SetFunction(7, false)

	lt := valueflow.NewTok(one.Ref()).WithKind(valueflow.Possible)
	lt.Condition = eq.Ref()
	a.AddValue(lt)
	one.AddValue(valueflow.NewInt(1).WithKind(valueflow.Known))

	data, err := msgpack.Marshal(l.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var decoded Snapshot
	if err := msgpack.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	restored := Restore(&decoded, Options{})
	checkList(t, restored)

	if diff := cmp.Diff(l.Snapshot(), restored.Snapshot(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("restored list differs (-want +got):\n%s", diff)
	}
	if got := texts(restored); got != "x = f ( a + 1 ) ;" {
		t.Fatalf("texts = %q", got)
	}

	ra := nth(restored, 4)
	v := ra.Values()[0]
	if ra.Deref(v.TokValue) != nth(restored, 6) || ra.Deref(v.Condition) != nth(restored, 1) {
		t.Fatal("fact references not remapped")
	}
	if nth(restored, 1).AstOperand2() != nth(restored, 3) || nth(restored, 3).Link() != nth(restored, 7) {
		t.Fatal("AST or bracket links not remapped")
	}
	if restored.Files()[0] != "s.cpp" || nth(restored, 0).Index() == 0 {
		t.Fatal("files or indexes not restored")
	}
}

func TestRestoreInfersScopes(t *testing.T) {
	l := build(t, "namespace N { int x ; }")
	r := Restore(l.Snapshot(), Options{TrackScopes: true})
	if s := nth(r, 3).Scope(); s == nil || s.Name != "N" {
		t.Fatalf("scope = %+v", s)
	}
}
