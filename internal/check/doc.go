// Package check seeds literal facts on a linked token list and runs the
// checks that read them back.
//
// Checks work on token patterns: a statement-level AST is not built here,
// so expressions are recognised by shape. Known facts raise errors and
// possible facts raise warnings when valueflow.Settings allow them.
package check
