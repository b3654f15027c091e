package valueflow

import "sort"

const (
	// MaxValues caps the live facts of one token.
	MaxValues = 10
	// ContradictionRounds bounds the pairwise contradiction fixpoint.
	ContradictionRounds = 4
)

// Set is the ordered fact list of one token. A known Int fact, when
// present, is always first.
type Set []Value

// sameValueType reports whether x and y compete for the same known slot.
// Symbolic facts only compete when they refer to the same expression.
func sameValueType(env Env, x, y *Value) bool {
	if x.Type != y.Type {
		return false
	}
	if x.IsSymbolicValue() {
		ex := env.ExprID(x.TokValue)
		return ex == 0 || ex == env.ExprID(y.TokValue)
	}
	return true
}

// Add inserts v. tokenVarID fills in VarID when v carries none.
// It reports whether v was actually added; false means v was redundant,
// contradicted by a known fact, or the set is full.
func (s *Set) Add(v Value, env Env, tokenVarID uint32) bool {
	values := *s
	if v.IsKnown() && len(values) > 0 {
		values = deleteFunc(values, func(x *Value) bool { return sameValueType(env, x, &v) })
	}

	if !v.IsKnown() {
		for i := range values {
			x := &values[i]
			if x.IsKnown() && sameValueType(env, x, &v) && !x.EqualValue(&v, env) {
				*s = values
				return false
			}
		}
	}

	if len(values) >= MaxValues {
		*s = values
		return false
	}

	replaced := false
	for i := range values {
		x := &values[i]
		if x.Type != v.Type || x.IsImpossible() != v.IsImpossible() {
			continue
		}
		if !x.EqualValue(&v, env) {
			continue
		}
		// a more certain copy of an inconclusive fact takes its place
		if x.IsInconclusive() && !v.IsInconclusive() && !v.IsImpossible() {
			*x = v
			if x.VarID == 0 {
				x.VarID = tokenVarID
			}
			replaced = true
			break
		}
		*s = values
		return false
	}

	if !replaced {
		nv := v
		if nv.VarID == 0 {
			nv.VarID = tokenVarID
		}
		if nv.IsKnown() && nv.IsIntValue() {
			values = append(values, Value{})
			copy(values[1:], values)
			values[0] = nv
		} else {
			values = append(values, nv)
		}
	}

	values.RemoveContradictions(env)
	*s = values
	return true
}

// RemoveContradictions removes overlaps, then runs up to
// ContradictionRounds rounds of pairwise contradiction removal, each
// followed by another overlap removal.
func (s *Set) RemoveContradictions(env Env) {
	s.removeOverlaps(env)
	for range ContradictionRounds {
		if !s.removeContradiction(env) {
			return
		}
		s.removeOverlaps(env)
	}
}

func (s *Set) erase(i int) {
	values := *s
	*s = append(values[:i], values[i+1:]...)
}

// removePointValue deletes a point fact or narrows a range fact.
// It reports whether the fact was deleted.
func (s *Set) removePointValue(i int) bool {
	x := &(*s)[i]
	if x.Bound != Point {
		x.decreaseRange()
		return false
	}
	s.erase(i)
	return true
}

// removeContradiction resolves the first contradicting pair it can.
func (s *Set) removeContradiction(env Env) bool {
	result := false
	for i := 0; i < len(*s); i++ {
		if (*s)[i].IsNonValue() {
			continue
		}
		for j := i + 1; j < len(*s); j++ {
			x, y := &(*s)[i], &(*s)[j]
			if y.IsNonValue() {
				continue
			}
			if x.Equal(y, env) {
				continue
			}
			if x.Type != y.Type {
				continue
			}
			if x.IsImpossible() == y.IsImpossible() {
				continue
			}
			if x.IsSymbolicValue() && !SameToken(env, x.TokValue, y.TokValue) {
				continue
			}
			if !x.EqualValue(y, env) {
				maxIdx, minIdx := i, i
				if x.lessValue(y) {
					maxIdx = j
				}
				if y.lessValue(x) {
					minIdx = j
				}
				if mx := &(*s)[maxIdx]; mx.IsImpossible() && mx.Bound == Upper {
					s.erase(minIdx)
					return true
				}
				if mn := &(*s)[minIdx]; mn.IsImpossible() && mn.Bound == Lower {
					s.erase(maxIdx)
					return true
				}
				continue
			}
			removeX := !x.IsImpossible() || y.IsKnown()
			removeY := !y.IsImpossible() || x.IsKnown()
			if x.Bound == y.Bound {
				if removeY {
					s.erase(j)
				}
				if removeX {
					s.erase(i)
				}
				return true
			}
			result = removeX || removeY
			bail := false
			// j first: erasing it leaves i in place
			if removeY && s.removePointValue(j) {
				bail = true
			}
			if removeX && s.removePointValue(i) {
				bail = true
			}
			if bail {
				return true
			}
		}
	}
	return result
}

// removeOverlaps drops exact duplicates, then merges adjacent ranges.
func (s *Set) removeOverlaps(env Env) {
	for i := 0; i < len(*s); i++ {
		x := (*s)[i]
		if x.IsNonValue() {
			continue
		}
		kept := (*s)[:0]
		newI := i
		for j, y := range *s {
			drop := j != i && !y.IsNonValue() &&
				x.Type == y.Type && x.Kind == y.Kind &&
				x.EqualValue(&y, env) && x.Bound == y.Bound
			if drop {
				if j < i {
					newI--
				}
				continue
			}
			kept = append(kept, y)
		}
		*s = kept
		i = newI
	}
	s.MergeAdjacent(env)
}

// isAdjacent reports whether y extends the range of x by exactly one step
// or shares its non-point bound.
func isAdjacent(x, y *Value) bool {
	if x.Bound != Point && x.Bound == y.Bound {
		return true
	}
	if x.Type == Float {
		return false
	}
	const maxInt64, minInt64 = int64(^uint64(0) >> 1), -int64(^uint64(0)>>1) - 1
	return (y.IntValue != maxInt64 && x.IntValue == y.IntValue+1) ||
		(y.IntValue != minInt64 && x.IntValue == y.IntValue-1)
}

// MergeAdjacent collapses each bounded fact and the run of facts adjacent to
// it into a single wider bounded fact.
func (s *Set) MergeAdjacent(env Env) {
	for x := 0; x < len(*s); {
		xv := &(*s)[x]
		if xv.IsNonValue() || xv.Bound == Point {
			x++
			continue
		}
		var adj []int
		for y := range *s {
			if x == y {
				continue
			}
			yv := &(*s)[y]
			if yv.IsNonValue() || xv.Type != yv.Type || xv.Kind != yv.Kind {
				continue
			}
			if xv.IsSymbolicValue() && !SameToken(env, xv.TokValue, yv.TokValue) {
				continue
			}
			if xv.Bound != yv.Bound {
				if yv.Bound != Point && isAdjacent(xv, yv) {
					adj = nil
					break
				}
				if xv.Type == Float || yv.Bound != Point {
					continue
				}
			}
			if xv.Bound == Lower && !yv.lessValue(xv) {
				continue
			}
			if xv.Bound == Upper && !xv.lessValue(yv) {
				continue
			}
			adj = append(adj, y)
		}
		if len(adj) == 0 {
			x++
			continue
		}
		sort.SliceStable(adj, func(a, b int) bool {
			return (*s)[adj[a]].lessValue(&(*s)[adj[b]])
		})
		switch xv.Bound {
		case Lower:
			for l, r := 0, len(adj)-1; l < r; l, r = l+1, r-1 {
				adj[l], adj[r] = adj[r], adj[l]
			}
			x = s.removeAdjacentValues(x, adj)
		case Upper:
			x = s.removeAdjacentValues(x, adj)
		default:
			x++
		}
	}
}

// removeAdjacentValues folds x into the last member of the adjacent run
// starting at adj[0] and returns the index to continue from.
func (s *Set) removeAdjacentValues(x int, adj []int) int {
	values := *s
	if !isAdjacent(&values[x], &values[adj[0]]) {
		return x + 1
	}
	last := len(adj) - 1
	for k := 0; k+1 < len(adj); k++ {
		if !isAdjacent(&values[adj[k]], &values[adj[k+1]]) {
			last = k
			break
		}
	}
	values[adj[last]].Bound = values[x].Bound

	drop := make(map[int]bool, last+1)
	for _, idx := range adj[:last] {
		drop[idx] = true
	}
	drop[x] = true

	next := 0
	kept := values[:0]
	for i, v := range values {
		if drop[i] {
			continue
		}
		if i < x {
			next++
		}
		kept = append(kept, v)
	}
	*s = kept
	return next
}

func deleteFunc(values Set, del func(*Value) bool) Set {
	kept := values[:0]
	for i := range values {
		if del(&values[i]) {
			continue
		}
		kept = append(kept, values[i])
	}
	return kept
}
