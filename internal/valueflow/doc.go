// Package valueflow holds dataflow facts attached to tokens and the
// bookkeeping that keeps a token's fact list small and free of the
// contradictions it can detect.
//
// A Set never exceeds MaxValues entries and holds at most one known fact per
// value type. Contradiction removal is a bounded fixpoint of
// ContradictionRounds rounds; residual contradictions after the last round
// are accepted.
//
// Facts refer to other tokens through Ref handles. Everything the package
// needs to know about those tokens is asked through Env.
package valueflow
