package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tokflow/internal/config"
	"tokflow/internal/diag"
	"tokflow/internal/pipeline"
	"tokflow/internal/trace"
)

func writeSources(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return dir, paths
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func analysis() config.Analysis {
	a := config.Default().Analysis
	a.Jobs = 2
	return a
}

func TestAnalyzeUnits(t *testing.T) {
	dir, _ := writeSources(t, map[string]string{
		"ok.c":     "int f(void) { return 1 / 0; }\n",
		"broken.c": "int g(void) { return (1; }\n",
	})
	paths, err := ExpandPaths([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.c")
	paths = append(paths, missing)

	res, err := Analyze(context.Background(), paths, Options{Analysis: analysis()})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Units) != 3 {
		t.Fatalf("units = %d", len(res.Units))
	}
	// ExpandPaths sorts: broken.c, ok.c
	broken, ok, miss := res.Units[0], res.Units[1], res.Units[2]

	if !broken.Failed || broken.List == nil {
		t.Fatalf("broken unit = %+v", broken)
	}
	if diff := cmp.Diff([]diag.Code{diag.LinkUnmatchedBracket}, codes(broken.Bag)); diff != "" {
		t.Fatalf("broken codes (-want +got):\n%s", diff)
	}
	if d := broken.Bag.Items()[0]; d.Primary.Line != 1 || d.Message != "unmatched closing bracket" {
		t.Fatalf("bracket diagnostic = %+v", d)
	}

	if ok.Failed || ok.Findings != 1 {
		t.Fatalf("ok unit = %+v", ok)
	}
	if diff := cmp.Diff([]diag.Code{diag.CheckZeroDivision}, codes(ok.Bag)); diff != "" {
		t.Fatalf("ok codes (-want +got):\n%s", diff)
	}

	if !miss.Failed || miss.List != nil || miss.Path != missing {
		t.Fatalf("missing unit = %+v", miss)
	}
	if diff := cmp.Diff([]diag.Code{diag.IOLoadFileError}, codes(miss.Bag)); diff != "" {
		t.Fatalf("missing codes (-want +got):\n%s", diff)
	}
	if !res.HasErrors() {
		t.Fatal("HasErrors = false")
	}
	if !res.Timings.Has(pipeline.StageCheck) {
		t.Fatal("check stage not timed")
	}
}

func TestAnalyzeStopAfterLink(t *testing.T) {
	_, paths := writeSources(t, map[string]string{"a.c": "x = 1 / 0;\n"})
	res, err := Analyze(context.Background(), paths, Options{Analysis: analysis(), Stop: pipeline.StageLink})
	if err != nil {
		t.Fatal(err)
	}
	u := res.Units[0]
	if u.Bag.Len() != 0 || u.List == nil {
		t.Fatalf("unit = %+v", u)
	}
	for tok := range u.List.All() {
		if len(tok.Values()) != 0 {
			t.Fatalf("%s seeded before seed stage", tok.Str())
		}
	}
	var names []string
	for _, p := range u.Timing.Phases {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"load", "tokenize", "link"}, names); diff != "" {
		t.Fatalf("phases (-want +got):\n%s", diff)
	}
}

func TestAnalyzeCache(t *testing.T) {
	_, paths := writeSources(t, map[string]string{"a.c": "x = 1 / 0 @;\n"})
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Analysis: analysis(), Cache: cache}

	first, err := Analyze(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Analyze(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Units[0].Cached || !second.Units[0].Cached {
		t.Fatalf("cached = %v, %v", first.Units[0].Cached, second.Units[0].Cached)
	}
	want := []diag.Code{diag.LexUnknownChar, diag.CheckZeroDivision}
	for _, res := range []*Result{first, second} {
		if diff := cmp.Diff(want, codes(res.Units[0].Bag)); diff != "" {
			t.Fatalf("codes (-want +got):\n%s", diff)
		}
	}
	if got := second.Units[0].List.Front().Pos().File; got != second.Units[0].FileID {
		t.Fatalf("restored tokens point at file %d", got)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	third, err := Analyze(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Units[0].Cached {
		t.Fatal("entry survived DropAll")
	}
}

func TestCacheKey(t *testing.T) {
	var h [32]byte
	a := CacheKey(h, 0, 0)
	if a != CacheKey(h, 0, 0) {
		t.Fatal("key not deterministic")
	}
	if a == CacheKey(h, 1, 0) || a == CacheKey(h, 0, 64) {
		t.Fatal("key ignores settings")
	}
	h[0] = 1
	if a == CacheKey(h, 0, 0) {
		t.Fatal("key ignores content")
	}
}

func TestAnalyzeProgressReporterTimings(t *testing.T) {
	_, paths := writeSources(t, map[string]string{"a.c": "x = 1;\n", "b.c": "y = 2;\n"})
	var (
		mu     sync.Mutex
		events = map[string][]pipeline.Status{}
	)
	sink := pipeline.FuncSink(func(ev pipeline.Event) {
		mu.Lock()
		defer mu.Unlock()
		events[filepath.Base(ev.File)] = append(events[filepath.Base(ev.File)], ev.Status)
	})
	all := diag.NewBag(0)
	res, err := Analyze(context.Background(), paths, Options{
		Analysis: analysis(),
		Progress: sink,
		Reporter: diag.BagReporter{Bag: all},
		Timings:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.c", "b.c"} {
		st := events[name]
		if len(st) < 3 || st[0] != pipeline.StatusQueued || st[len(st)-1] != pipeline.StatusDone {
			t.Fatalf("%s events = %v", name, st)
		}
	}
	if all.Len() != 2 {
		t.Fatalf("shared reporter got %d diagnostics", all.Len())
	}
	for _, u := range res.Units {
		if diff := cmp.Diff([]diag.Code{diag.ObsTimings}, codes(u.Bag)); diff != "" {
			t.Fatalf("codes (-want +got):\n%s", diff)
		}
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	_, paths := writeSources(t, map[string]string{"a.c": "x;\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Analyze(ctx, paths, Options{Analysis: analysis()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestFailedDumpsRing(t *testing.T) {
	ring := trace.NewRingTracer(32, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	var dump bytes.Buffer
	r := &runner{opts: Options{CrashDump: &dump}}
	res := FileResult{Path: "a.c", Bag: diag.NewBag(0)}
	st := &unitState{res: &res, rep: diag.BagReporter{Bag: res.Bag}, stage: pipeline.StageSeed}
	r.failed(ctx, st, "boom")

	if !res.Failed || !res.Bag.HasInternal() {
		t.Fatalf("unit = %+v", res)
	}
	if d := res.Bag.Items()[0]; d.Code != diag.InternalPanic || len(d.Notes) != 1 {
		t.Fatalf("diagnostic = %+v", d)
	}
	if !bytes.Contains(dump.Bytes(), []byte("unit-failed")) {
		t.Fatalf("dump = %q", dump.String())
	}
}

func TestExpandPaths(t *testing.T) {
	dir, _ := writeSources(t, map[string]string{
		"b.cpp":        "",
		"a.h":          "",
		"notes.txt":    "",
		"sub/c.cc":     "",
		".git/x.c":     "",
		"explicit.inl": "",
	})
	got, err := ExpandPaths([]string{dir, filepath.Join(dir, "explicit.inl")})
	if err != nil {
		t.Fatal(err)
	}
	for i := range got {
		got[i], _ = filepath.Rel(dir, got[i])
	}
	want := []string{"a.h", "b.cpp", filepath.Join("sub", "c.cc"), "explicit.inl"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
	if _, err := ExpandPaths([]string{filepath.Join(dir, "nope")}); err == nil {
		t.Fatal("missing path accepted")
	}
}
