// Package tokens implements the mutable token sequence analysis passes work on.
//
// A List owns its tokens in an arena; tokens refer to each other (sequence
// order, bracket links, AST edges) through ID handles. Removing a token
// empties its slot and severs every edge pointing at it, so a stale *Token
// never reaches into the sequence again.
//
// Invariants kept by every mutation:
//   - link is mutual: t.Link().Link() == t;
//   - AST edges are mutual and acyclic: t.AstParent() has t as an operand;
//   - List.Front() and List.Back() are the boundary tokens;
//   - a token holds at most valueflow.MaxValues facts.
//
// Misuse (cyclic AST assignment, bad link requests, malformed patterns) panics
// with *InternalError. Mutation of a single List is not synchronized.
package tokens
