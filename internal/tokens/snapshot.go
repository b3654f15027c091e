package tokens

import (
	"tokflow/internal/source"
	"tokflow/internal/token"
	"tokflow/internal/valueflow"
)

// Snapshot is a plain copy of a list. Token references (links, AST edges,
// fact references) are 1-based positions in Tokens, 0 for none.
type Snapshot struct {
	Lang   token.Lang      `msgpack:"lang"`
	Files  []string        `msgpack:"files"`
	Tokens []TokenSnapshot `msgpack:"tokens"`
}

// TokenSnapshot is one token of a Snapshot.
type TokenSnapshot struct {
	Str          string        `msgpack:"s"`
	Kind         token.Kind    `msgpack:"k"`
	Flags        token.Flags   `msgpack:"f"`
	VarID        uint32        `msgpack:"vid,omitempty"`
	ExprID       uint32        `msgpack:"eid,omitempty"`
	File         uint32        `msgpack:"file"`
	Line         uint32        `msgpack:"line"`
	Column       uint32        `msgpack:"col"`
	Link         uint32        `msgpack:"link,omitempty"`
	AstOp1       uint32        `msgpack:"a1,omitempty"`
	AstOp2       uint32        `msgpack:"a2,omitempty"`
	AstParent    uint32        `msgpack:"ap,omitempty"`
	OriginalName string        `msgpack:"on,omitempty"`
	MacroName    string        `msgpack:"mn,omitempty"`
	Function     uint32        `msgpack:"fn,omitempty"`
	Variable     uint32        `msgpack:"var,omitempty"`
	Type         uint32        `msgpack:"typ,omitempty"`
	Attrs        []Attribute   `msgpack:"attrs,omitempty"`
	Values       valueflow.Set `msgpack:"vals,omitempty"`
}

// Snapshot copies l. Scope information is not part of it; Restore infers
// it again when the new list tracks scopes.
func (l *List) Snapshot() *Snapshot {
	pos := make(map[ID]uint32, l.live)
	var n uint32
	for t := range l.All() {
		n++
		pos[t.id] = n
	}
	s := &Snapshot{Lang: l.lang, Files: append([]string(nil), l.files...), Tokens: make([]TokenSnapshot, 0, n)}
	for t := range l.All() {
		ts := TokenSnapshot{
			Str:          t.str,
			Kind:         t.kind,
			Flags:        t.flags,
			VarID:        t.impl.varID,
			ExprID:       t.impl.exprID,
			File:         t.impl.fileIndex,
			Line:         t.impl.line,
			Column:       t.impl.column,
			Link:         pos[t.link],
			AstOp1:       pos[t.impl.astOp1],
			AstOp2:       pos[t.impl.astOp2],
			AstParent:    pos[t.impl.astParent],
			OriginalName: t.impl.originalName,
			MacroName:    t.impl.macroName,
			Function:     t.impl.function,
			Variable:     t.impl.variable,
			Type:         t.impl.typ,
			Attrs:        append([]Attribute(nil), t.impl.attrs...),
		}
		if len(t.impl.values) > 0 {
			ts.Values = make(valueflow.Set, len(t.impl.values))
			for i, v := range t.impl.values {
				v.TokValue = valueflow.Ref(pos[ID(v.TokValue)])
				v.Condition = valueflow.Ref(pos[ID(v.Condition)])
				ts.Values[i] = v
			}
		}
		s.Tokens = append(s.Tokens, ts)
	}
	return s
}

// Restore builds a new list from s. opts.Lang and opts.Files are taken
// from the snapshot.
func Restore(s *Snapshot, opts Options) *List {
	opts.Lang = s.Lang
	opts.Files = s.Files
	l := NewList(opts)
	ids := make([]ID, len(s.Tokens)+1)
	for i := range s.Tokens {
		ts := &s.Tokens[i]
		t := l.AddToken(ts.Str, source.Pos{File: source.FileID(ts.File), Line: ts.Line, Col: ts.Column})
		ids[i+1] = t.id
	}
	l.open = l.open[:0]
	for i := range s.Tokens {
		ts := &s.Tokens[i]
		t := l.Get(ids[i+1])
		t.kind, t.flags = ts.Kind, ts.Flags
		t.link = ids[ts.Link]
		t.impl.varID, t.impl.exprID = ts.VarID, ts.ExprID
		t.impl.astOp1, t.impl.astOp2, t.impl.astParent = ids[ts.AstOp1], ids[ts.AstOp2], ids[ts.AstParent]
		t.impl.originalName, t.impl.macroName = ts.OriginalName, ts.MacroName
		t.impl.function, t.impl.variable, t.impl.typ = ts.Function, ts.Variable, ts.Type
		t.impl.attrs = append([]Attribute(nil), ts.Attrs...)
		if len(ts.Values) > 0 {
			t.impl.values = make(valueflow.Set, len(ts.Values))
			for j, v := range ts.Values {
				v.TokValue = valueflow.Ref(ids[v.TokValue])
				v.Condition = valueflow.Ref(ids[v.Condition])
				t.impl.values[j] = v
			}
		}
	}
	l.AssignIndexes()
	return l
}
