package tokens

import (
	"fmt"
	"iter"

	"fortio.org/safecast"

	"tokflow/internal/source"
	"tokflow/internal/token"
	"tokflow/internal/trace"
)

// ID addresses a token slot of a List. Zero means no token.
type ID uint32

// Options configure a new List.
type Options struct {
	Lang token.Lang
	// TrackScopes gives every token a ScopeInfo and infers scopes while inserting.
	TrackScopes bool
	// Files are the names behind token file indexes, used by dumps.
	Files  []string
	Tracer trace.Tracer
}

// List is one token sequence together with its arena and boundary anchor.
type List struct {
	slots []*Token
	front ID
	back  ID
	live  int

	lang        token.Lang
	trackScopes bool
	files       []string
	tracer      trace.Tracer

	// brackets opened by AddToken and not yet closed
	open []ID
}

// NewList creates an empty sequence.
func NewList(opts Options) *List {
	tr := opts.Tracer
	if tr == nil {
		tr = trace.Nop
	}
	return &List{
		lang:        opts.Lang,
		trackScopes: opts.TrackScopes,
		files:       opts.Files,
		tracer:      tr,
	}
}

func (l *List) Lang() token.Lang { return l.lang }
func (l *List) IsCPP() bool      { return l.lang == token.LangCPP }

// Files returns the file names used for file markers in dumps.
func (l *List) Files() []string { return l.files }

// SetFiles replaces the file names used by dumps.
func (l *List) SetFiles(files []string) { l.files = files }

// Front returns the first token or nil when the list is empty.
func (l *List) Front() *Token { return l.Get(l.front) }

// Back returns the last token or nil when the list is empty.
func (l *List) Back() *Token { return l.Get(l.back) }

// Len returns the number of live tokens.
func (l *List) Len() int { return l.live }

// Get resolves a handle. It returns nil for 0 and for removed tokens.
func (l *List) Get(id ID) *Token {
	if id == 0 || int(id) > len(l.slots) {
		return nil
	}
	return l.slots[id-1]
}

// All iterates the live tokens in sequence order.
func (l *List) All() iter.Seq[*Token] {
	return l.Front().Until(nil)
}

func (l *List) alloc() *Token {
	n, err := safecast.Conv[uint32](len(l.slots) + 1)
	if err != nil {
		panic(fmt.Errorf("token arena overflow: %w", err))
	}
	t := &Token{list: l, id: ID(n), impl: &payload{}}
	l.slots = append(l.slots, t)
	l.live++
	return t
}

// free empties the slot of t. Callers sever edges first.
func (l *List) free(t *Token) {
	l.slots[t.id-1] = nil
	l.live--
	t.next, t.prev, t.link = 0, 0, 0
	t.dead = true
}

// AddToken appends a token at pos. Round, square and curly brackets are
// linked to their opener as they arrive; unmatched ones are left for
// LinkBrackets to report.
func (l *List) AddToken(text string, pos source.Pos) *Token {
	var t *Token
	if back := l.Back(); back == nil {
		t = l.alloc()
		l.front, l.back = t.id, t.id
		if l.trackScopes {
			t.impl.scope = &ScopeInfo{}
		}
		t.SetStr(text)
	} else {
		t = back.InsertToken(text, false)
		if t == back {
			// empty back token was reused
			l.open = l.open[:0]
		}
	}
	t.impl.fileIndex = uint32(pos.File)
	t.impl.line = pos.Line
	t.impl.column = pos.Col
	if prev := t.Previous(); prev != nil {
		t.impl.index = prev.impl.index + 1
	} else {
		t.impl.index = 1
	}
	l.linkOnAdd(t)
	return t
}

func (l *List) linkOnAdd(t *Token) {
	switch t.str {
	case "(", "[", "{":
		l.open = append(l.open, t.id)
	case ")", "]", "}":
		if len(l.open) == 0 {
			return
		}
		opener := l.Get(l.open[len(l.open)-1])
		if opener == nil || opener.str != openerOf(t.str) {
			return
		}
		l.open = l.open[:len(l.open)-1]
		CreateMutualLinks(opener, t)
	}
}

func openerOf(closer string) string {
	switch closer {
	case ")":
		return "("
	case "]":
		return "["
	case "}":
		return "{"
	}
	return ""
}

// LinkBrackets pairs every unlinked round, square and curly bracket.
// A bracket without a partner is an internal error.
func (l *List) LinkBrackets() {
	var stack []*Token
	for t := range l.All() {
		if t.link != 0 {
			continue
		}
		switch t.str {
		case "(", "[", "{":
			stack = append(stack, t)
		case ")", "]", "}":
			if len(stack) == 0 || stack[len(stack)-1].str != openerOf(t.str) {
				internalError(t, "unmatched closing bracket")
			}
			CreateMutualLinks(stack[len(stack)-1], t)
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		internalError(stack[len(stack)-1], "unmatched opening bracket")
	}
	l.open = l.open[:0]
}

// AssignIndexes numbers the whole list from 1.
func (l *List) AssignIndexes() {
	if f := l.Front(); f != nil {
		f.AssignIndexes()
	}
}

// AssignProgressValues spreads 0..99 over the whole list.
func (l *List) AssignProgressValues() {
	AssignProgressValues(l.Front())
}

// AssignProgressValues sets the progress of every token from tok to the end
// to its percentage position in that range.
func AssignProgressValues(tok *Token) {
	total := 0
	for range tok.Until(nil) {
		total++
	}
	count := 0
	for t := range tok.Until(nil) {
		t.impl.progress = count * 100 / total
		count++
	}
}
