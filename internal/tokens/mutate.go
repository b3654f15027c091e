package tokens

// InsertToken inserts text next to t (before it when prepend is set) and
// returns the new token. An empty t is reused instead. The new token copies
// the line, file and progress of t.
func (t *Token) InsertToken(text string, prepend bool) *Token {
	return t.InsertTokenNamed(text, "", "", prepend)
}

// InsertTokenNamed is InsertToken that also records the original spelling
// and the macro the token was expanded from.
func (t *Token) InsertTokenNamed(text, originalName, macroName string, prepend bool) *Token {
	l := t.list
	nt := t
	if t.str != "" {
		nt = l.alloc()
	}
	nt.SetStr(text)
	if originalName != "" {
		nt.impl.originalName = originalName
	}
	if macroName != "" {
		nt.SetMacroName(macroName)
	}
	if nt == t {
		return nt
	}

	nt.impl.line = t.impl.line
	nt.impl.column = t.impl.column
	nt.impl.fileIndex = t.impl.fileIndex
	nt.impl.progress = t.impl.progress

	if prepend {
		if p := t.Previous(); p != nil {
			nt.prev = p.id
			p.next = nt.id
		} else {
			l.front = nt.id
		}
		t.prev = nt.id
		nt.next = t.id
	} else {
		if n := t.Next(); n != nil {
			nt.next = n.id
			n.prev = nt.id
		} else {
			l.back = nt.id
		}
		t.next = nt.id
		nt.prev = t.id
	}

	if t.impl.scope != nil {
		t.inferScope(nt, prepend)
	}
	return nt
}

// remove unlinks tok from the arena after severing every edge pointing at it.
// Sequence neighbours are fixed by the caller.
func (l *List) remove(tok *Token) {
	if p := tok.Link(); p != nil && p.link == tok.id {
		p.setLink(nil)
	}
	tok.detachAst()
	for _, p := range tok.impl.pins {
		p.tok = nil
	}
	tok.impl.pins = nil
	l.free(tok)
}

// DeleteNext removes up to count tokens after t.
func (t *Token) DeleteNext(count int) {
	l := t.list
	for count > 0 {
		n := t.Next()
		if n == nil {
			break
		}
		t.next = n.next
		l.remove(n)
		count--
	}
	if n := t.Next(); n != nil {
		n.prev = t.id
	} else {
		l.back = t.id
	}
}

// DeletePrevious removes up to count tokens before t.
func (t *Token) DeletePrevious(count int) {
	l := t.list
	for count > 0 {
		p := t.Previous()
		if p == nil {
			break
		}
		t.prev = p.prev
		l.remove(p)
		count--
	}
	if p := t.Previous(); p != nil {
		p.next = t.id
	} else {
		l.front = t.id
	}
}

// DeleteThis removes t. Its neighbour's contents move into t's node, so t
// stays valid and now holds what followed (or preceded) it. The sole token of
// a list cannot be removed and becomes ";" instead.
func (t *Token) DeleteThis() {
	switch {
	case t.Next() != nil:
		n := t.Next()
		t.takeData(n)
		n.link = 0
		t.DeleteNext(1)
	case t.Previous() != nil:
		p := t.Previous()
		t.takeData(p)
		p.link = 0
		t.DeletePrevious(1)
	default:
		t.SetStr(";")
	}
}

// takeData moves the contents of from into t. The previous contents of t
// are dropped along with their AST edges and pins.
func (t *Token) takeData(from *Token) {
	t.detachAst()
	for _, p := range t.impl.pins {
		p.tok = nil
	}
	if old := t.Link(); old != nil && old.link == t.id && old != from {
		old.link = 0
	}

	t.str = from.str
	t.kind = from.kind
	t.flags = from.flags
	neighbours := from.astNeighbours()
	t.impl = from.impl
	from.impl = &payload{}
	t.remapAst(neighbours, func(id ID) ID {
		if id == from.id {
			return t.id
		}
		return id
	})
	t.repointPins()

	t.link = from.link
	if t.link == t.id {
		t.link = 0
	}
	if p := t.Link(); p != nil {
		p.link = t.id
	}
}

// SwapWithNext exchanges the contents of t and the following token. Links,
// AST edges and pins follow the contents.
func (t *Token) SwapWithNext() {
	n := t.Next()
	if n == nil {
		return
	}
	neighbours := append(t.astNeighbours(), n.astNeighbours()...)

	t.str, n.str = n.str, t.str
	t.kind, n.kind = n.kind, t.kind
	t.flags, n.flags = n.flags, t.flags
	t.impl, n.impl = n.impl, t.impl
	t.link, n.link = n.link, t.link

	sigma := func(id ID) ID {
		switch id {
		case t.id:
			return n.id
		case n.id:
			return t.id
		}
		return id
	}
	t.remapAst(neighbours, sigma)
	for _, tok := range []*Token{t, n} {
		tok.link = sigma(tok.link)
		if p := tok.Link(); p != nil && p != t && p != n {
			p.link = tok.id
		}
		tok.repointPins()
	}
}

// astNeighbours returns t and every token its AST edges reach.
func (t *Token) astNeighbours() []*Token {
	out := []*Token{t}
	for _, id := range [...]ID{t.impl.astOp1, t.impl.astOp2, t.impl.astParent} {
		if tok := t.get(id); tok != nil {
			out = append(out, tok)
		}
	}
	return out
}

// remapAst rewrites the AST edges of toks through sigma.
func (t *Token) remapAst(toks []*Token, sigma func(ID) ID) {
	seen := make(map[*Token]bool, len(toks))
	for _, tok := range toks {
		if seen[tok] || tok.dead {
			continue
		}
		seen[tok] = true
		tok.impl.astOp1 = sigma(tok.impl.astOp1)
		tok.impl.astOp2 = sigma(tok.impl.astOp2)
		tok.impl.astParent = sigma(tok.impl.astParent)
	}
}

// Replace puts the range start..end in place of target, which is removed.
// The range takes over the progress of target. target must not lie inside
// the range.
func Replace(target, start, end *Token) {
	l := target.list
	for tok := range start.Until(end.Next()) {
		if tok == target {
			internalError(target, "replace target lies inside the replacement range")
		}
	}

	before, after := start.Previous(), end.Next()
	if before != nil {
		before.next = idOf(after)
	} else {
		l.front = idOf(after)
	}
	if after != nil {
		after.prev = idOf(before)
	} else {
		l.back = idOf(before)
	}

	tp, tn := target.Previous(), target.Next()
	if tp != nil {
		tp.next = start.id
	} else {
		l.front = start.id
	}
	if tn != nil {
		tn.prev = end.id
	} else {
		l.back = end.id
	}
	start.prev = idOf(tp)
	end.next = idOf(tn)

	for tok := range start.Until(end.Next()) {
		tok.impl.progress = target.impl.progress
	}
	target.prev, target.next = 0, 0
	l.remove(target)
}

// Move splices srcStart..srcEnd out of its place and back in after dest.
// The moved tokens take over the progress of dest.
func Move(srcStart, srcEnd, dest *Token) {
	l := dest.list
	for tok := range srcStart.Until(srcEnd.Next()) {
		if tok == dest {
			internalError(dest, "move destination lies inside the moved range")
		}
	}

	before, after := srcStart.Previous(), srcEnd.Next()
	if before != nil {
		before.next = idOf(after)
	} else {
		l.front = idOf(after)
	}
	if after != nil {
		after.prev = idOf(before)
	} else {
		l.back = idOf(before)
	}

	dn := dest.Next()
	srcEnd.next = idOf(dn)
	srcStart.prev = dest.id
	if dn != nil {
		dn.prev = srcEnd.id
	} else {
		l.back = srcEnd.id
	}
	dest.next = srcStart.id

	for tok := range srcStart.Until(srcEnd.Next()) {
		tok.impl.progress = dest.impl.progress
	}
}

// EraseTokens removes every token strictly between begin and end.
func EraseTokens(begin, end *Token) {
	if begin == nil || begin == end {
		return
	}
	for n := begin.Next(); n != nil && n != end; n = begin.Next() {
		begin.DeleteNext(1)
	}
}

// CreateMutualLinks pairs two brackets. Previous partners of either token
// are unlinked. Anything but two distinct tokens is an internal error.
func CreateMutualLinks(begin, end *Token) {
	if begin == nil || end == nil {
		internalError(nil, "createMutualLinks called with a nil token")
	}
	if begin == end {
		internalError(begin, "createMutualLinks called with the same token twice")
	}
	begin.Unlink()
	end.Unlink()
	begin.setLink(end)
	end.setLink(begin)
}

func idOf(t *Token) ID {
	if t == nil {
		return 0
	}
	return t.id
}
