package path

import (
	"sort"
	"strings"
)

// Matcher is the union variant of Predicate: it matches a path when any of
// its member patterns does. Every derived query aggregates the members and
// nothing else.
type Matcher struct {
	pats []Pattern
}

// NewMatcher builds the union of the given predicates, flattening nested
// unions and dropping duplicate patterns.
func NewMatcher(preds ...Predicate) Matcher {
	var flat []Pattern
	seen := make(map[string]struct{})
	for _, pred := range preds {
		if pred == nil {
			continue
		}
		for _, pat := range pred.patterns() {
			id := strings.Join(pat.keys, "\x00")
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			flat = append(flat, pat)
		}
	}
	return Matcher{pats: flat}
}

func union(a, b Predicate) Predicate {
	m := NewMatcher(a, b)
	if pat, ok := m.SingletonPattern(); ok {
		return pat
	}
	return m
}

// Patterns returns a copy of the member patterns.
func (m Matcher) Patterns() []Pattern {
	out := make([]Pattern, len(m.pats))
	copy(out, m.pats)
	return out
}

func (m Matcher) String() string {
	strs := make([]string, len(m.pats))
	for i, pat := range m.pats {
		strs[i] = pat.String()
	}
	sort.Strings(strs)
	return strings.Join(strs, "|")
}

// Or implements Predicate.
func (m Matcher) Or(that Predicate) Predicate {
	return union(m, that)
}

// Matches implements Predicate.
func (m Matcher) Matches(p Path) bool {
	for _, pat := range m.pats {
		if pat.Matches(p) {
			return true
		}
	}
	return false
}

// SuccessorCouldMatch implements Predicate.
func (m Matcher) SuccessorCouldMatch(p Path, strict bool) bool {
	for _, pat := range m.pats {
		if pat.SuccessorCouldMatch(p, strict) {
			return true
		}
	}
	return false
}

// AncestorMatches implements Predicate.
func (m Matcher) AncestorMatches(p Path, strict bool) bool {
	for _, pat := range m.pats {
		if pat.AncestorMatches(p, strict) {
			return true
		}
	}
	return false
}

// NextKeys implements Predicate.
func (m Matcher) NextKeys(p Path) map[string]struct{} {
	return m.gather(p, Pattern.NextKeys)
}

// NextNames implements Predicate.
func (m Matcher) NextNames(p Path) map[string]struct{} {
	return m.gather(p, Pattern.NextNames)
}

// NextIndices implements Predicate.
func (m Matcher) NextIndices(p Path) map[string]struct{} {
	return m.gather(p, Pattern.NextIndices)
}

func (m Matcher) gather(p Path, next func(Pattern, Path) map[string]struct{}) map[string]struct{} {
	var out map[string]struct{}
	for _, pat := range m.pats {
		for key := range next(pat, p) {
			if out == nil {
				out = make(map[string]struct{})
			}
			out[key] = struct{}{}
		}
	}
	return out
}

// SingletonPath implements Predicate.
func (m Matcher) SingletonPath() (Path, bool) {
	pat, ok := m.SingletonPattern()
	if !ok {
		return nil, false
	}
	return pat.SingletonPath()
}

// SingletonPattern implements Predicate.
func (m Matcher) SingletonPattern() (Pattern, bool) {
	if len(m.pats) != 1 {
		return Pattern{}, false
	}
	return m.pats[0], true
}

// ApplyKeys implements Predicate: the substitution applies to every member
// independently.
func (m Matcher) ApplyKeys(keys ...string) Predicate {
	preds := make([]Predicate, len(m.pats))
	for i, pat := range m.pats {
		preds[i] = pat.ApplyKeys(keys...)
	}
	return NewMatcher(preds...)
}

// IsEmpty implements Predicate.
func (m Matcher) IsEmpty() bool {
	return len(m.pats) == 0
}

func (m Matcher) patterns() []Pattern {
	return m.Patterns()
}
