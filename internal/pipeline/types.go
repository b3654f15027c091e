package pipeline

import "time"

// Stage describes one step of analysing a translation unit.
type Stage string

const (
	// StageLoad reads the unit from disk or from the token cache.
	StageLoad Stage = "load"
	// StageTokenize runs the tokenizer.
	StageTokenize Stage = "tokenize"
	// StageLink pairs brackets and assigns indexes.
	StageLink Stage = "link"
	// StageSeed attaches literal facts.
	StageSeed Stage = "seed"
	// StageCheck runs the checks.
	StageCheck Stage = "check"
)

// Stages lists the unit stages in execution order.
var Stages = []Stage{StageLoad, StageTokenize, StageLink, StageSeed, StageCheck}

// Index returns the position of s in Stages, or -1.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Reaches reports whether a run stopping after last includes s.
func (s Stage) Reaches(last Stage) bool {
	i := s.Index()
	return i >= 0 && i <= last.Index()
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the unit is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the unit is currently in Stage.
	StatusWorking Status = "working"
	// StatusDone indicates the unit is done.
	StatusDone Status = "done"
	// StatusError indicates the unit failed.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; units report from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations summed over all units.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Add accumulates a duration for the given stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] += dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
