package pipeline

import (
	"testing"
	"time"
)

func TestTimingsAccumulate(t *testing.T) {
	var tm Timings
	if tm.Has(StageCheck) || tm.Duration(StageCheck) != 0 {
		t.Fatal("empty timings report a stage")
	}
	tm.Add(StageCheck, 2*time.Millisecond)
	tm.Add(StageCheck, 3*time.Millisecond)
	tm.Add(StageLink, time.Millisecond)
	if got := tm.Duration(StageCheck); got != 5*time.Millisecond {
		t.Fatalf("check = %v", got)
	}
	if got := tm.Sum(StageCheck, StageLink, StageSeed); got != 6*time.Millisecond {
		t.Fatalf("sum = %v", got)
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "a.c", Stage: StageLink, Status: StatusWorking})
	if ev := <-ch; ev.File != "a.c" || ev.Stage != StageLink {
		t.Fatalf("event = %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{})
}

func TestStageOrder(t *testing.T) {
	if StageLoad.Index() != 0 || StageCheck.Index() != 4 || Stage("nope").Index() != -1 {
		t.Fatal("unexpected stage indexes")
	}
	if !StageLink.Reaches(StageLink) || StageSeed.Reaches(StageLink) || !StageTokenize.Reaches(StageCheck) {
		t.Fatal("Reaches mismatch")
	}
}
