package path

// Wildcard markers used in pattern token sequences. A literal key in a
// pattern matches only itself; the markers match any name or any index.
const (
	WildcardName  = ""
	WildcardIndex = "[]"
)

// Predicate describes a set of fixed-length paths. It has exactly two
// variants: Pattern (one token sequence) and Matcher (a union of patterns).
// Values are immutable and safe to share across concurrent traversal branches.
type Predicate interface {
	// Or composes this predicate with another into their union.
	Or(that Predicate) Predicate

	// Matches reports whether the entire path matches.
	Matches(p Path) bool

	// SuccessorCouldMatch reports whether p is a viable prefix, i.e. some
	// extension of p could still match. With strict set, a p that already
	// fully matches reports false.
	SuccessorCouldMatch(p Path, strict bool) bool

	// AncestorMatches reports whether some prefix of p fully matches. With
	// strict set, p does not count as its own ancestor.
	AncestorMatches(p Path, strict bool) bool

	// NextKeys returns the key patterns that could follow p. Empty when no
	// successor of p can match.
	NextKeys(p Path) map[string]struct{}

	// NextNames returns the name patterns that could follow p.
	NextNames(p Path) map[string]struct{}

	// NextIndices returns the index patterns that could follow p.
	NextIndices(p Path) map[string]struct{}

	// SingletonPath returns the one path this predicate matches, if it
	// contains no wildcards.
	SingletonPath() (Path, bool)

	// SingletonPattern returns the sole pattern, if there is exactly one.
	SingletonPattern() (Pattern, bool)

	// ApplyKeys substitutes wildcards left to right with the given keys,
	// returning a new predicate. See Pattern.ApplyKeys for the exact policy.
	ApplyKeys(keys ...string) Predicate

	// IsEmpty reports whether the predicate contains no patterns at all.
	// An empty predicate matches nothing and has no viable successors.
	IsEmpty() bool

	// patterns exposes the constituent patterns for union flattening.
	patterns() []Pattern
}

// KeyMatches reports whether one key pattern accepts one concrete key.
func KeyMatches(pat, key string) bool {
	if pat == key {
		return true
	}
	if pat == WildcardIndex {
		return IsIndex(key)
	}
	if pat == WildcardName {
		return IsName(key)
	}
	return false
}

// AnyMatches reports whether any pattern in the set accepts the key.
func AnyMatches(pats map[string]struct{}, key string) bool {
	for pat := range pats {
		if KeyMatches(pat, key) {
			return true
		}
	}
	return false
}

// ParsePredicate parses a pattern string into a predicate.
func ParsePredicate(s string) (Predicate, error) {
	pat, err := ParsePattern(s)
	if err != nil {
		return nil, err
	}
	return pat, nil
}
