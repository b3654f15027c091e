package driver

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"tokflow/internal/check"
	"tokflow/internal/diag"
	"tokflow/internal/lexer"
	"tokflow/internal/observ"
	"tokflow/internal/pipeline"
	"tokflow/internal/source"
	"tokflow/internal/tokens"
	"tokflow/internal/trace"
)

type runner struct {
	opts  Options
	fs    *source.FileSet
	names []string

	dumpMu sync.Mutex
}

func (r *runner) reporter(bag *diag.Bag) diag.Reporter {
	var rep diag.Reporter = diag.BagReporter{Bag: bag}
	if r.opts.Reporter != nil {
		rep = diag.TeeReporter{rep, r.opts.Reporter}
	}
	return diag.NewDedupReporter(rep)
}

func (r *runner) loadFailed(path string, id source.FileID, err error) FileResult {
	res := FileResult{Path: path, FileID: id, Bag: diag.NewBag(r.opts.MaxDiagnostics), Failed: true}
	diag.ReportError(r.reporter(res.Bag), diag.IOLoadFileError, source.Pos{File: id}, "failed to load file: "+err.Error()).Emit()
	emit(r.opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
	return res
}

// unitState tracks the stage a unit is in so a recovered panic can be
// attributed to it.
type unitState struct {
	res     *FileResult
	rep     diag.Reporter
	timer   *observ.Timer
	stage   pipeline.Stage
	phase   int
	started time.Time
}

func (r *runner) begin(st *unitState, stage pipeline.Stage) {
	st.stage = stage
	st.phase = st.timer.Begin(string(stage))
	st.started = time.Now()
	emit(r.opts.Progress, pipeline.Event{File: st.res.Path, Stage: stage, Status: pipeline.StatusWorking})
}

func (r *runner) end(st *unitState, note string) {
	st.timer.End(st.phase, note)
}

func (r *runner) unit(ctx context.Context, id source.FileID) (res FileResult) {
	file := r.fs.Get(id)
	res = FileResult{Path: file.Path, FileID: id, Bag: diag.NewBag(r.opts.MaxDiagnostics)}
	st := &unitState{res: &res, rep: r.reporter(res.Bag), timer: observ.NewTimer(), phase: -1}
	start := time.Now()

	ctx, span := trace.BeginCtx(ctx, trace.ScopeUnit, "unit:"+file.Path)
	defer func() {
		if p := recover(); p != nil {
			r.end(st, "aborted")
			r.failed(ctx, st, p)
		}
		res.Timing = st.timer.Report()
		if r.opts.Timings {
			appendTimingDiagnostic(st.rep, res.FileID, res.Path, res.Timing)
		}
		span.WithExtra("diagnostics", strconv.Itoa(res.Bag.Len())).End(string(st.stage))
		if !res.Failed {
			emit(r.opts.Progress, pipeline.Event{File: res.Path, Stage: st.stage, Status: pipeline.StatusDone, Elapsed: time.Since(start)})
		}
	}()

	lang, _, _ := r.opts.Analysis.Language(file.Path)
	listOpts := tokens.Options{
		Lang:        lang,
		TrackScopes: r.opts.Analysis.TrackScopes,
		Files:       r.names,
		Tracer:      trace.FromContext(ctx),
	}

	r.begin(st, pipeline.StageLoad)
	key := CacheKey(file.Hash, lang, r.opts.Analysis.MaxTokenLen)
	var payload CachePayload
	hit, err := r.opts.Cache.Get(key, &payload)
	if err != nil {
		diag.ReportWarning(st.rep, diag.IOCacheError, source.Pos{File: id}, "token cache: "+err.Error()).Emit()
	}
	if hit {
		res.List = tokens.Restore(payload.Snapshot, listOpts)
		res.List.SetFiles(r.names)
		rebind(res.List, payload.Diags, id)
		for _, d := range payload.Diags {
			st.rep.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
		}
		res.Cached = true
		r.end(st, "cached")
	} else {
		r.end(st, "")

		r.begin(st, pipeline.StageTokenize)
		res.List = tokens.NewList(listOpts)
		n := lexer.Tokenize(file, res.List, lexer.Options{Lang: lang, Reporter: st.rep, MaxTokenLen: r.opts.Analysis.MaxTokenLen})
		r.end(st, strconv.Itoa(n)+" tokens")
		if !r.proceed(ctx, st, pipeline.StageLink) {
			return res
		}

		r.begin(st, pipeline.StageLink)
		res.List.LinkBrackets()
		r.end(st, "")
		if r.opts.Cache != nil {
			cp := &CachePayload{Path: file.Path, Snapshot: res.List.Snapshot(), Diags: res.Bag.Items()}
			if err := r.opts.Cache.Put(key, cp); err != nil {
				diag.ReportWarning(st.rep, diag.IOCacheError, source.Pos{File: id}, "token cache: "+err.Error()).Emit()
			}
		}
	}

	if !r.proceed(ctx, st, pipeline.StageSeed) {
		return res
	}
	r.begin(st, pipeline.StageSeed)
	facts := check.Seeded(ctx, res.List)
	r.end(st, strconv.Itoa(facts)+" facts")

	if !r.proceed(ctx, st, pipeline.StageCheck) {
		return res
	}
	r.begin(st, pipeline.StageCheck)
	out, err := check.Run(ctx, res.List, check.Options{Settings: r.settings(), Library: r.opts.Library, Reporter: st.rep})
	res.Findings = out.Findings
	r.end(st, strconv.Itoa(out.Findings)+" findings")
	if err != nil {
		res.Failed = true
		emit(r.opts.Progress, pipeline.Event{File: res.Path, Stage: st.stage, Status: pipeline.StatusError, Err: err})
	}
	return res
}

// proceed reports whether next is within the requested stages and the
// run is still live.
func (r *runner) proceed(ctx context.Context, st *unitState, next pipeline.Stage) bool {
	if !next.Reaches(r.opts.Stop) {
		return false
	}
	if err := ctx.Err(); err != nil {
		st.res.Failed = true
		emit(r.opts.Progress, pipeline.Event{File: st.res.Path, Stage: st.stage, Status: pipeline.StatusError, Err: err})
		return false
	}
	return true
}

// failed turns a recovered panic into a diagnostic. Internal errors
// raised while linking are unmatched brackets in the input; anything else
// is a defect.
func (r *runner) failed(ctx context.Context, st *unitState, p any) {
	st.res.Failed = true
	var err error
	if ie, ok := tokens.AsInternalError(p); ok {
		err = ie
		pos := ie.Pos
		if !pos.IsValid() {
			pos.File = st.res.FileID
		}
		if st.stage == pipeline.StageLink {
			diag.ReportError(st.rep, diag.LinkUnmatchedBracket, pos, ie.Message).Emit()
		} else {
			diag.ReportError(st.rep, diag.InternalInvariant, pos,
				fmt.Sprintf("internal error during %s: %s", st.stage, ie.Message)).Emit()
		}
	} else {
		err = fmt.Errorf("panic: %v", p)
		diag.ReportError(st.rep, diag.InternalPanic, source.Pos{File: st.res.FileID},
			fmt.Sprintf("internal error during %s: %v", st.stage, p)).
			WithNote(source.Pos{File: st.res.FileID}, firstFrames(debug.Stack(), 12)).
			Emit()
	}
	tr := trace.FromContext(ctx)
	trace.Point(tr, trace.ScopeUnit, "unit-failed", err.Error(), map[string]string{
		"file":  st.res.Path,
		"stage": string(st.stage),
	})
	if st.stage != pipeline.StageLink && r.opts.CrashDump != nil {
		if ring := trace.Ring(tr); ring != nil {
			r.dumpMu.Lock()
			defer r.dumpMu.Unlock()
			fmt.Fprintf(r.opts.CrashDump, "--- trace ring for %s ---\n", st.res.Path)
			_ = ring.Dump(r.opts.CrashDump, trace.FormatText)
		}
	}
	emit(r.opts.Progress, pipeline.Event{File: st.res.Path, Stage: st.stage, Status: pipeline.StatusError, Err: err})
}

func firstFrames(stack []byte, lines int) string {
	parts := strings.SplitN(string(stack), "\n", lines+1)
	if len(parts) > lines {
		parts = parts[:lines]
	}
	return strings.Join(parts, "\n")
}
