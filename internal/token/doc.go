// Package token defines lexical classification for C-family tokens.
// Invariants:
//   - Kind is derived from the token text (plus variable id and bracket linkage); it is never
//     stored independently of the text by the lexer.
//   - `<` and `>` classify as Bracket only while linked; otherwise they are comparison operators.
//   - A token with a non-zero variable id always classifies as Variable.
//   - Standard type names (int, char, size_t, ...) classify as Type and never carry the
//     control-flow keyword flag.
package token
