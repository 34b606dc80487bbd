package path

import (
	"fmt"
	"strconv"
	"strings"
)

// Key classification is purely lexical and total: a key is an index if it is a
// run of decimal digits or a bracketed string; everything else is a name.
// Decimal indices are stored bare ("1"); non-decimal indices keep their
// brackets ("[r0]") so they stay classified as indices.

// IsIndex reports whether the key classifies as an element index.
func IsIndex(key string) bool {
	return isDecimal(key) || isBracketed(key)
}

// IsName reports whether the key classifies as an attribute name.
func IsName(key string) bool {
	return !IsIndex(key)
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isBracketed(s string) bool {
	return len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']'
}

// indexValue extracts the numeric value of an index key, if it has one.
func indexValue(key string) (uint64, bool) {
	if isBracketed(key) {
		key = key[1 : len(key)-1]
	}
	if !isDecimal(key) {
		return 0, false
	}
	v, err := strconv.ParseUint(key, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Path is an ordered, immutable sequence of keys addressing a node in the
// object model. The zero value is the root path.
type Path []string

// Extend returns a new path with the given keys appended. The receiver is
// never modified; extensions made by concurrent branches must not alias.
func (p Path) Extend(keys ...string) Path {
	out := make(Path, 0, len(p)+len(keys))
	out = append(out, p...)
	return append(out, keys...)
}

// Equal reports whether two paths have identical key sequences.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	return Format(p)
}

// Compare orders paths shorter-prefix-first, then key by key. At a given
// position names sort before indices, names sort lexicographically, and
// indices sort numerically (lexicographic fallback for non-decimal indices).
func Compare(a, b Path) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := compareKeys(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func compareKeys(a, b string) int {
	ai, bi := IsIndex(a), IsIndex(b)
	if ai != bi {
		if ai {
			return 1
		}
		return -1
	}
	if ai {
		av, aok := indexValue(a)
		bv, bok := indexValue(b)
		if aok && bok && av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
		if aok != bok {
			// Numeric indices before symbolic ones.
			if aok {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a, b)
}

// Parse converts a dotted path or pattern string into its key sequence.
// Grammar: `.`-separated segments; a bare segment is a name ("" is the
// wildcard-name marker), each trailing "[lit]" is an index key, and "[]" is
// the wildcard-index marker. "Processes[1].Threads" -> ["Processes" "1" "Threads"].
func Parse(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	var keys Path
	for _, seg := range strings.Split(s, ".") {
		parsed, err := parseSegment(seg)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", seg, err)
		}
		keys = append(keys, parsed...)
	}
	return keys, nil
}

func parseSegment(seg string) ([]string, error) {
	br := strings.IndexByte(seg, '[')
	name := seg
	if br >= 0 {
		name = seg[:br]
	}
	if strings.Contains(name, "]") {
		return nil, fmt.Errorf("']' without matching '['")
	}
	var keys []string
	if br < 0 || name != "" {
		keys = append(keys, name)
	}
	if br < 0 {
		return keys, nil
	}
	rest := seg[br:]
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("unexpected text %q after index", rest)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("unclosed '['")
		}
		inner := rest[1:end]
		if strings.Contains(inner, "[") {
			return nil, fmt.Errorf("nested '['")
		}
		switch {
		case inner == "":
			keys = append(keys, WildcardIndex)
		case isDecimal(inner):
			keys = append(keys, inner)
		default:
			keys = append(keys, "["+inner+"]")
		}
		rest = rest[end+1:]
	}
	return keys, nil
}

// Format renders a key sequence back to the dotted string form. Index keys
// are bracketed and attach to the preceding segment without a dot.
func Format(p Path) string {
	var b strings.Builder
	first := true
	for _, k := range p {
		switch {
		case isBracketed(k):
			b.WriteString(k)
		case isDecimal(k):
			b.WriteByte('[')
			b.WriteString(k)
			b.WriteByte(']')
		default:
			if !first {
				b.WriteByte('.')
			}
			b.WriteString(k)
		}
		first = false
	}
	return b.String()
}
