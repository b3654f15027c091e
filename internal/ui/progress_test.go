package ui

import (
	"strings"
	"testing"

	"tokflow/internal/pipeline"
)

func TestProgressModelTracksUnits(t *testing.T) {
	m := NewProgressModel("check", []string{"a.c", "b.c"}, nil).(*progressModel)

	m.Update(eventMsg(pipeline.Event{File: "a.c", Stage: pipeline.StageLink, Status: pipeline.StatusWorking}))
	if m.items[0].status != "linking" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	m.Update(eventMsg(pipeline.Event{File: "b.c", Stage: pipeline.StageCheck, Status: pipeline.StatusDone}))
	m.Update(eventMsg(pipeline.Event{File: "unknown.c", Stage: pipeline.StageCheck, Status: pipeline.StatusError}))
	if got := m.percent(); got != (0.4+1.0)/2 {
		t.Fatalf("percent = %v", got)
	}

	m.Update(eventMsg(pipeline.Event{Stage: pipeline.StageCheck, Status: pipeline.StatusWorking}))
	if m.stageLabel != "checking" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
	view := m.View()
	for _, want := range []string{"check (checking)", "a.c", "linking", "done"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.c", 20, "short.c"},
		{"very/long/path/name.c", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
