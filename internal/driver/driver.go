// Package driver runs the analysis stages over a set of source files,
// one goroutine per translation unit.
package driver

import (
	"context"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tokflow/internal/config"
	"tokflow/internal/diag"
	"tokflow/internal/library"
	"tokflow/internal/observ"
	"tokflow/internal/pipeline"
	"tokflow/internal/source"
	"tokflow/internal/tokens"
	"tokflow/internal/trace"
	"tokflow/internal/valueflow"
)

// Options configures a run.
type Options struct {
	Analysis config.Analysis
	Library  *library.Library
	// MaxDiagnostics limits every unit's bag; 0 means unlimited.
	MaxDiagnostics int
	// Stop is the last stage to run. Empty means StageCheck.
	Stop pipeline.Stage
	// Cache, when set, stores linked lists between runs.
	Cache *DiskCache
	// Progress receives unit events.
	Progress pipeline.ProgressSink
	// Reporter additionally receives every diagnostic as it is raised.
	Reporter diag.Reporter
	// Timings adds an ObsTimings diagnostic per unit.
	Timings bool
	// CrashDump receives the trace ring when a unit fails internally.
	CrashDump io.Writer
}

// FileResult is the outcome of one unit.
type FileResult struct {
	Path   string
	FileID source.FileID
	// List is nil when the file could not be read.
	List   *tokens.List
	Bag    *diag.Bag
	Timing observ.Report
	Cached bool
	// Failed is set when a stage aborted the unit.
	Failed bool
	// Findings counts check reports.
	Findings int
}

// Result is the outcome of a run.
type Result struct {
	FileSet *source.FileSet
	Units   []FileResult
	Timings pipeline.Timings
}

// HasErrors reports whether any unit failed or reported an error.
func (r *Result) HasErrors() bool {
	for i := range r.Units {
		if r.Units[i].Failed || r.Units[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Analyze loads paths and runs every unit up to opts.Stop. Units run
// in parallel up to Analysis.Jobs (GOMAXPROCS when 0). A cancelled ctx
// stops the run and is returned as the error; unit failures are not
// errors and show up in the units' bags.
func Analyze(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if opts.Stop == "" {
		opts.Stop = pipeline.StageCheck
	}
	if _, _, err := opts.Analysis.Language(""); err != nil {
		return nil, err
	}
	if opts.Library == nil {
		opts.Library = library.Std()
	}
	if opts.Reporter != nil {
		opts.Reporter = diag.NewSyncReporter(opts.Reporter)
	}

	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "analyze")
	defer span.End("")

	fs := source.NewFileSet()
	ids := make([]source.FileID, len(paths))
	loadErrs := make([]error, len(paths))
	for i, path := range paths {
		ids[i], loadErrs[i] = fs.Load(path)
		if loadErrs[i] != nil {
			// placeholder so diagnostics can name the file
			ids[i] = fs.AddVirtual(path, nil)
		}
	}

	res := &Result{FileSet: fs, Units: make([]FileResult, len(paths))}
	if len(paths) == 0 {
		return res, nil
	}
	for _, p := range paths {
		emit(opts.Progress, pipeline.Event{File: p, Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
	}

	jobs := opts.Analysis.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	r := &runner{opts: opts, fs: fs, names: fs.Names()}
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErrs[i] != nil {
				res.Units[i] = r.loadFailed(path, ids[i], loadErrs[i])
				return nil
			}
			res.Units[i] = r.unit(gctx, ids[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	for i := range res.Units {
		for _, p := range res.Units[i].Timing.Phases {
			res.Timings.Add(pipeline.Stage(p.Name), msToDuration(p.DurationMS))
		}
	}
	return res, nil
}

func emit(sink pipeline.ProgressSink, ev pipeline.Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

func (r *runner) settings() valueflow.Settings {
	return valueflow.Settings{Inconclusive: r.opts.Analysis.Inconclusive, Warning: r.opts.Analysis.Warnings}
}
