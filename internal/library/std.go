package library

import "math"

var (
	nonNegative = Ranges{{Lo: 0, Hi: math.Inf(1)}}
	positive    = Ranges{{Lo: 1, Hi: math.Inf(1)}}
	ctypeArg    = Ranges{{Lo: -1, Hi: 255}}
	logDomain   = Ranges{{Lo: math.SmallestNonzeroFloat64, Hi: math.Inf(1)}}
)

// Std returns rules for a small set of C standard library functions.
// Entries from tokflow.toml are added on top with Merge.
func Std() *Library {
	l := New()
	for _, name := range []string{"memset", "memcpy", "memmove", "strncpy", "strncat", "strncmp", "memcmp"} {
		l.Add(name, ArgRule{Nr: 3, Valid: nonNegative})
	}
	for _, name := range []string{"malloc", "alloca"} {
		l.Add(name, ArgRule{Nr: 1, Valid: nonNegative})
	}
	l.Add("calloc", ArgRule{Nr: 1, Valid: nonNegative})
	l.Add("calloc", ArgRule{Nr: 2, Valid: nonNegative})
	l.Add("realloc", ArgRule{Nr: 2, Valid: nonNegative})
	l.Add("fgets", ArgRule{Nr: 2, Valid: positive})
	l.Add("sqrt", ArgRule{Nr: 1, Valid: Ranges{{Lo: 0, Hi: math.Inf(1)}}})
	for _, name := range []string{"log", "log10", "log2"} {
		l.Add(name, ArgRule{Nr: 1, Valid: logDomain})
	}
	for _, name := range []string{"isalpha", "isdigit", "isalnum", "isspace", "isupper", "islower", "toupper", "tolower"} {
		l.Add(name, ArgRule{Nr: 1, Valid: ctypeArg})
	}
	return l
}

// Merge copies every rule of other into l, replacing rules for the same
// function argument.
func (l *Library) Merge(other *Library) {
	if other == nil {
		return
	}
	for name, args := range other.funcs {
		for _, rule := range args {
			l.Add(name, rule)
		}
	}
}
