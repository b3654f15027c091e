// Package trace records what the analyzer is doing while it runs.
//
// Events are spans (begin/end pairs), instant points and heartbeats. They
// are grouped by scope, from coarse to fine:
//
//   - ScopeDriver: one analysis run
//   - ScopePass: tokenize, link, seed, check
//   - ScopeUnit: one translation unit
//   - ScopeNode: single tokens (fact cap rejections and the like)
//
// The level decides which scopes reach the output:
//
//	tokflow check --trace=- --trace-level=detail src/
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "tokenize", parent)
//	defer span.End("")
package trace
