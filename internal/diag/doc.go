// Package diag defines the diagnostic model shared by the tokenizer, the
// checks and the driver.
//
// A Diagnostic carries a Severity, a numeric Code with a stable string form,
// a short message, the token position it points at and optional notes.
// Producers emit through a Reporter (usually a BagReporter); the driver
// merges per-unit Bags, sorts and deduplicates them and hands the result to
// internal/diagfmt for rendering.
//
// Codes in the 9000 range are analyzer-internal: they report broken
// invariants recovered from *tokens.InternalError panics and are never
// findings about the analysed code.
package diag
