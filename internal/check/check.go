package check

import (
	"context"
	"strconv"

	"tokflow/internal/diag"
	"tokflow/internal/library"
	"tokflow/internal/tokens"
	"tokflow/internal/trace"
	"tokflow/internal/valueflow"
)

// Options configures Run.
type Options struct {
	Settings valueflow.Settings
	Library  *library.Library
	Reporter diag.Reporter
}

// Result counts what Run did.
type Result struct {
	Findings int
}

type pass struct {
	name string
	run  func(*tokens.List, Options) int
}

var passes = []pass{
	{"invalid-function-arg", func(l *tokens.List, o Options) int {
		return InvalidArguments(l, o.Library, o.Settings, o.Reporter)
	}},
	{"zero-division", func(l *tokens.List, o Options) int {
		return ZeroDivision(l, o.Settings, o.Reporter)
	}},
}

// Seeded wraps Seed in a pass span.
func Seeded(ctx context.Context, l *tokens.List) int {
	_, span := trace.BeginCtx(ctx, trace.ScopePass, "seed")
	n := Seed(l)
	span.WithExtra("facts", strconv.Itoa(n)).End("")
	return n
}

// Run executes every check on an already seeded list. It stops between
// checks when ctx is cancelled.
func Run(ctx context.Context, l *tokens.List, opts Options) (Result, error) {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	var res Result
	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		_, span := trace.BeginCtx(ctx, trace.ScopePass, p.name)
		n := p.run(l, opts)
		span.WithExtra("findings", strconv.Itoa(n)).End("")
		res.Findings += n
	}
	return res, nil
}
