package path

import "strconv"

// Pattern is an immutable, fixed-length token sequence. A path matches only
// if it has exactly the same length and every key matches positionally.
type Pattern struct {
	keys []string
}

// NewPattern builds a pattern from key tokens. Literal keys match themselves,
// WildcardName matches any name, WildcardIndex matches any index.
func NewPattern(keys ...string) Pattern {
	out := make([]string, len(keys))
	copy(out, keys)
	return Pattern{keys: out}
}

// PatternFrom builds a pattern whose tokens are exactly the keys of p,
// i.e. the predicate matching only that path.
func PatternFrom(p Path) Pattern {
	return NewPattern(p...)
}

// ParsePattern parses the dotted pattern syntax, e.g. "Processes[].Threads[]".
func ParsePattern(s string) (Pattern, error) {
	keys, err := Parse(s)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{keys: keys}, nil
}

// Len returns the number of tokens.
func (pat Pattern) Len() int {
	return len(pat.keys)
}

// Keys returns a copy of the token sequence.
func (pat Pattern) Keys() []string {
	out := make([]string, len(pat.keys))
	copy(out, pat.keys)
	return out
}

// Equal reports whether both patterns have identical token sequences.
func (pat Pattern) Equal(o Pattern) bool {
	return Path(pat.keys).Equal(Path(o.keys))
}

func (pat Pattern) String() string {
	return Format(pat.keys)
}

// CountWildcards returns how many tokens are wildcards of either kind.
func (pat Pattern) CountWildcards() int {
	n := 0
	for _, k := range pat.keys {
		if k == WildcardName || k == WildcardIndex {
			n++
		}
	}
	return n
}

// Or implements Predicate.
func (pat Pattern) Or(that Predicate) Predicate {
	return union(pat, that)
}

// Matches implements Predicate.
func (pat Pattern) Matches(p Path) bool {
	if len(p) != len(pat.keys) {
		return false
	}
	return pat.prefixMatches(p)
}

func (pat Pattern) prefixMatches(p Path) bool {
	for i, key := range p {
		if !KeyMatches(pat.keys[i], key) {
			return false
		}
	}
	return true
}

// SuccessorCouldMatch implements Predicate.
func (pat Pattern) SuccessorCouldMatch(p Path, strict bool) bool {
	if len(p) > len(pat.keys) {
		return false
	}
	if strict && len(p) == len(pat.keys) {
		return false
	}
	return pat.prefixMatches(p)
}

// AncestorMatches implements Predicate.
func (pat Pattern) AncestorMatches(p Path, strict bool) bool {
	if len(pat.keys) > len(p) {
		return false
	}
	if strict && len(pat.keys) == len(p) {
		return false
	}
	return pat.prefixMatches(p[:len(pat.keys)])
}

// NextKeys implements Predicate.
func (pat Pattern) NextKeys(p Path) map[string]struct{} {
	if !pat.SuccessorCouldMatch(p, true) {
		return nil
	}
	return map[string]struct{}{pat.keys[len(p)]: {}}
}

// NextNames implements Predicate.
func (pat Pattern) NextNames(p Path) map[string]struct{} {
	return pat.nextOfKind(p, IsName, WildcardName)
}

// NextIndices implements Predicate.
func (pat Pattern) NextIndices(p Path) map[string]struct{} {
	return pat.nextOfKind(p, IsIndex, WildcardIndex)
}

func (pat Pattern) nextOfKind(p Path, kind func(string) bool, wild string) map[string]struct{} {
	if !pat.SuccessorCouldMatch(p, true) {
		return nil
	}
	next := pat.keys[len(p)]
	if next == wild || (next != WildcardName && next != WildcardIndex && kind(next)) {
		return map[string]struct{}{next: {}}
	}
	return nil
}

// SingletonPath implements Predicate.
func (pat Pattern) SingletonPath() (Path, bool) {
	if pat.CountWildcards() > 0 {
		return nil, false
	}
	return Path(pat.keys).Extend(), true
}

// SingletonPattern implements Predicate.
func (pat Pattern) SingletonPattern() (Pattern, bool) {
	return pat, true
}

// ApplyKeys implements Predicate. Wildcards are consumed left to right,
// each becoming a literal of the next unconsumed key. Leftover wildcards
// stay wildcards; leftover keys are ignored. Never fails.
func (pat Pattern) ApplyKeys(keys ...string) Predicate {
	out := make([]string, len(pat.keys))
	ki := 0
	for i, tok := range pat.keys {
		if (tok == WildcardName || tok == WildcardIndex) && ki < len(keys) {
			out[i] = keys[ki]
			ki++
			continue
		}
		out[i] = tok
	}
	return Pattern{keys: out}
}

// ApplyIntKeys substitutes integer keys in the given radix. Non-decimal
// renderings are bracketed so the resulting literals still classify as
// indices.
func (pat Pattern) ApplyIntKeys(radix int, keys ...int64) Predicate {
	strs := make([]string, len(keys))
	for i, k := range keys {
		s := strconv.FormatInt(k, radix)
		if radix != 10 {
			s = "[" + s + "]"
		}
		strs[i] = s
	}
	return pat.ApplyKeys(strs...)
}

// IsEmpty implements Predicate. A pattern always contains itself.
func (pat Pattern) IsEmpty() bool {
	return false
}

func (pat Pattern) patterns() []Pattern {
	return []Pattern{pat}
}
