package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("tokenize")
	b := tm.Begin("link")
	tm.End(b, "")
	tm.End(a, "cached")
	if d := tm.End(7, "x"); d != 0 {
		t.Fatalf("End on unknown index = %v", d)
	}
	tm.phases[a].Dur = 3 * time.Millisecond
	tm.phases[b].Dur = 500 * time.Microsecond

	rep := tm.Report()
	if len(rep.Phases) != 2 || rep.Phases[0].Name != "tokenize" || rep.Phases[0].Note != "cached" {
		t.Fatalf("report = %+v", rep)
	}
	if rep.TotalMS != 3.5 {
		t.Fatalf("total = %v", rep.TotalMS)
	}
	sum := tm.Summary()
	for _, want := range []string{"tokenize", "3.00 ms  // cached", "total", "3.50 ms"} {
		if !strings.Contains(sum, want) {
			t.Fatalf("summary %q lacks %q", sum, want)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if rep := NewTimer().Report(); rep.TotalMS != 0 || rep.Phases != nil {
		t.Fatalf("empty report = %+v", rep)
	}
}
