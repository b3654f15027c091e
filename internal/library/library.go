// Package library holds per-function argument rules and answers whether a
// value is acceptable for a given call argument.
package library

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tokflow/internal/config"
	"tokflow/internal/tokens"
)

// Range is an inclusive interval. Open ends are ±Inf.
type Range struct {
	Lo, Hi float64
}

func (r Range) contains(v float64) bool { return v >= r.Lo && v <= r.Hi }

// Ranges is a union of intervals. Empty means every value is valid.
type Ranges []Range

// ParseRanges parses lists such as "0:", ":-1", "1:255", "-1,1:10" or "0.0:1.0".
func ParseRanges(s string) (Ranges, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out Ranges
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		lo, hi, isRange := strings.Cut(item, ":")
		if !isRange {
			v, err := parseBound(item)
			if err != nil {
				return nil, err
			}
			out = append(out, Range{Lo: v, Hi: v})
			continue
		}
		r := Range{Lo: math.Inf(-1), Hi: math.Inf(1)}
		var err error
		if lo != "" {
			if r.Lo, err = parseBound(lo); err != nil {
				return nil, err
			}
		}
		if hi != "" {
			if r.Hi, err = parseBound(hi); err != nil {
				return nil, err
			}
		}
		if lo == "" && hi == "" {
			return nil, fmt.Errorf("empty range %q", item)
		}
		if r.Lo > r.Hi {
			return nil, fmt.Errorf("range %q is reversed", item)
		}
		out = append(out, r)
	}
	return out, nil
}

func parseBound(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing value in range")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid range value %q", s)
	}
	return v, nil
}

// Contains reports whether v lies in any of the intervals.
func (rs Ranges) Contains(v float64) bool {
	if len(rs) == 0 {
		return true
	}
	for _, r := range rs {
		if r.contains(v) {
			return true
		}
	}
	return false
}

func (rs Ranges) String() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		switch {
		case r.Lo == r.Hi:
			parts[i] = formatBound(r.Lo)
		case math.IsInf(r.Lo, -1):
			parts[i] = ":" + formatBound(r.Hi)
		case math.IsInf(r.Hi, 1):
			parts[i] = formatBound(r.Lo) + ":"
		default:
			parts[i] = formatBound(r.Lo) + ":" + formatBound(r.Hi)
		}
	}
	return strings.Join(parts, ",")
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ArgRule describes one argument of a function.
type ArgRule struct {
	Nr      int
	Valid   Ranges
	NotBool bool
}

// Library maps function names to their argument rules.
type Library struct {
	funcs map[string]map[int]ArgRule
}

// New returns an empty library.
func New() *Library {
	return &Library{funcs: make(map[string]map[int]ArgRule)}
}

// FromConfig builds a library from the [[library.function]] tables.
func FromConfig(lib config.Library) (*Library, error) {
	l := New()
	for _, fn := range lib.Functions {
		for _, a := range fn.Args {
			rs, err := ParseRanges(a.Valid)
			if err != nil {
				return nil, fmt.Errorf("%s argument %d: %w", fn.Name, a.Nr, err)
			}
			l.Add(fn.Name, ArgRule{Nr: a.Nr, Valid: rs, NotBool: a.NotBool})
		}
	}
	return l, nil
}

// Add registers or replaces a rule.
func (l *Library) Add(name string, rule ArgRule) {
	args := l.funcs[name]
	if args == nil {
		args = make(map[int]ArgRule)
		l.funcs[name] = args
	}
	args[rule.Nr] = rule
}

// Len returns the number of functions with rules.
func (l *Library) Len() int { return len(l.funcs) }

// Rule returns the rule for argument argnr of name.
func (l *Library) Rule(name string, argnr int) (ArgRule, bool) {
	r, ok := l.funcs[name][argnr]
	return r, ok
}

// IsFunction reports whether ftok names a function with rules and is
// followed by "(".
func (l *Library) IsFunction(ftok *tokens.Token) bool {
	if ftok == nil || !ftok.IsName() || ftok.StrAt(1) != "(" {
		return false
	}
	_, ok := l.funcs[ftok.Str()]
	return ok
}

func (l *Library) IsIntArgValid(ftok *tokens.Token, argnr int, value int64) bool {
	return l.IsFloatArgValid(ftok, argnr, float64(value))
}

func (l *Library) IsFloatArgValid(ftok *tokens.Token, argnr int, value float64) bool {
	if ftok == nil {
		return true
	}
	rule, ok := l.Rule(ftok.Str(), argnr)
	if !ok {
		return true
	}
	return rule.Valid.Contains(value)
}

var _ tokens.ArgOracle = (*Library)(nil)
