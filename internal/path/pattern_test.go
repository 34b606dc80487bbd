package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPattern(t *testing.T, s string) Pattern {
	t.Helper()
	pat, err := ParsePattern(s)
	require.NoError(t, err)
	return pat
}

func TestKeyMatches(t *testing.T) {
	assert.True(t, KeyMatches("Threads", "Threads"))
	assert.False(t, KeyMatches("Threads", "Stack"))
	assert.True(t, KeyMatches(WildcardIndex, "3"))
	assert.True(t, KeyMatches(WildcardIndex, "[r0]"))
	assert.False(t, KeyMatches(WildcardIndex, "Threads"))
	assert.True(t, KeyMatches(WildcardName, "Threads"))
	assert.False(t, KeyMatches(WildcardName, "3"))
	// A wildcard marker used as a concrete key matches itself.
	assert.True(t, KeyMatches(WildcardIndex, WildcardIndex))
}

func TestPatternMatches(t *testing.T) {
	pat := mustPattern(t, "Processes[].Threads[]")

	assert.True(t, pat.Matches(Path{"Processes", "1", "Threads", "2"}))
	assert.False(t, pat.Matches(Path{"Processes", "1"}))
	assert.False(t, pat.Matches(Path{"Processes", "1", "Threads", "2", "Stack"}))
	assert.False(t, pat.Matches(Path{"Processes", "x", "Threads", "2"}))
	assert.False(t, pat.Matches(nil))
}

func TestSuccessorCouldMatch(t *testing.T) {
	pat := mustPattern(t, "Processes[].Threads[]")

	t.Run("viable prefixes", func(t *testing.T) {
		assert.True(t, pat.SuccessorCouldMatch(nil, false))
		assert.True(t, pat.SuccessorCouldMatch(Path{"Processes"}, false))
		assert.True(t, pat.SuccessorCouldMatch(Path{"Processes", "1"}, false))
		assert.True(t, pat.SuccessorCouldMatch(Path{"Processes", "1", "Threads"}, true))
	})

	t.Run("strict excludes the full match", func(t *testing.T) {
		full := Path{"Processes", "1", "Threads", "2"}
		assert.True(t, pat.SuccessorCouldMatch(full, false))
		assert.False(t, pat.SuccessorCouldMatch(full, true))
	})

	t.Run("dead prefixes", func(t *testing.T) {
		assert.False(t, pat.SuccessorCouldMatch(Path{"Memory"}, false))
		assert.False(t, pat.SuccessorCouldMatch(Path{"Processes", "x"}, false))
		assert.False(t, pat.SuccessorCouldMatch(Path{"Processes", "1", "Threads", "2", "Stack"}, false))
	})

	t.Run("pruning is monotonic", func(t *testing.T) {
		// Once a prefix is dead, every extension stays dead.
		dead := Path{"Processes", "x"}
		require.False(t, pat.SuccessorCouldMatch(dead, false))
		for _, ext := range []Path{
			dead.Extend("Threads"),
			dead.Extend("1"),
			dead.Extend("Threads", "2"),
		} {
			assert.False(t, pat.SuccessorCouldMatch(ext, false), "extension %v", ext)
		}
	})
}

func TestAncestorMatches(t *testing.T) {
	pat := mustPattern(t, "Processes[]")

	deep := Path{"Processes", "1", "Threads", "2"}
	assert.True(t, pat.AncestorMatches(deep, false))
	assert.True(t, pat.AncestorMatches(deep, true))

	exact := Path{"Processes", "1"}
	assert.True(t, pat.AncestorMatches(exact, false))
	assert.False(t, pat.AncestorMatches(exact, true))

	assert.False(t, pat.AncestorMatches(Path{"Processes"}, false))
	assert.False(t, pat.AncestorMatches(Path{"Memory", "1", "x"}, false))
}

func TestNextKeySets(t *testing.T) {
	pat := mustPattern(t, "Processes[].Threads[]")

	t.Run("literal name position", func(t *testing.T) {
		p := Path{"Processes", "1"}
		assert.Equal(t, map[string]struct{}{"Threads": {}}, pat.NextNames(p))
		assert.Empty(t, pat.NextIndices(p))
		assert.Equal(t, map[string]struct{}{"Threads": {}}, pat.NextKeys(p))
	})

	t.Run("wildcard index position", func(t *testing.T) {
		p := Path{"Processes"}
		assert.Empty(t, pat.NextNames(p))
		assert.Equal(t, map[string]struct{}{WildcardIndex: {}}, pat.NextIndices(p))
	})

	t.Run("exhausted pattern", func(t *testing.T) {
		p := Path{"Processes", "1", "Threads", "2"}
		assert.Empty(t, pat.NextNames(p))
		assert.Empty(t, pat.NextIndices(p))
		assert.Empty(t, pat.NextKeys(p))
	})

	t.Run("dead prefix", func(t *testing.T) {
		assert.Empty(t, pat.NextNames(Path{"Memory"}))
	})

	t.Run("literal index position", func(t *testing.T) {
		lit := mustPattern(t, "Processes[0]")
		p := Path{"Processes"}
		assert.Equal(t, map[string]struct{}{"0": {}}, lit.NextIndices(p))
		assert.Empty(t, lit.NextNames(p))
	})
}

func TestSingletonPath(t *testing.T) {
	lit := mustPattern(t, "Processes[1]")
	p, ok := lit.SingletonPath()
	require.True(t, ok)
	assert.Equal(t, Path{"Processes", "1"}, p)

	_, ok = mustPattern(t, "Processes[]").SingletonPath()
	assert.False(t, ok)
	_, ok = NewPattern("Processes", WildcardName).SingletonPath()
	assert.False(t, ok)
}

func TestApplyKeys(t *testing.T) {
	t.Run("left-biased substitution", func(t *testing.T) {
		pat := NewPattern("Processes", WildcardIndex)
		got, ok := pat.ApplyKeys("0").SingletonPattern()
		require.True(t, ok)
		assert.Equal(t, []string{"Processes", "0"}, got.Keys())
	})

	t.Run("leftover wildcards stay", func(t *testing.T) {
		pat := mustPattern(t, "Processes[].Threads[]")
		got, ok := pat.ApplyKeys("0").SingletonPattern()
		require.True(t, ok)
		assert.Equal(t, []string{"Processes", "0", "Threads", WildcardIndex}, got.Keys())
	})

	t.Run("excess keys ignored", func(t *testing.T) {
		pat := NewPattern("Processes", WildcardIndex)
		got, ok := pat.ApplyKeys("0", "9", "9").SingletonPattern()
		require.True(t, ok)
		assert.Equal(t, []string{"Processes", "0"}, got.Keys())
	})

	t.Run("no-op on fully literal pattern", func(t *testing.T) {
		pat := NewPattern("Processes", "0")
		got, ok := pat.ApplyKeys("5", "6").SingletonPattern()
		require.True(t, ok)
		assert.True(t, pat.Equal(got))
	})

	t.Run("name wildcards consume keys too", func(t *testing.T) {
		pat := NewPattern(WildcardName, WildcardIndex)
		got, ok := pat.ApplyKeys("Processes", "2").SingletonPattern()
		require.True(t, ok)
		assert.Equal(t, []string{"Processes", "2"}, got.Keys())
	})
}

func TestApplyIntKeys(t *testing.T) {
	pat := mustPattern(t, "Processes[].Threads[]")

	got, ok := pat.ApplyIntKeys(10, 3, 12).SingletonPattern()
	require.True(t, ok)
	assert.Equal(t, []string{"Processes", "3", "Threads", "12"}, got.Keys())

	hex, ok := pat.ApplyIntKeys(16, 255).SingletonPattern()
	require.True(t, ok)
	keys := hex.Keys()
	assert.Equal(t, "[ff]", keys[1])
	assert.True(t, IsIndex(keys[1]))
}

func TestCountWildcards(t *testing.T) {
	assert.Equal(t, 2, mustPattern(t, "Processes[].Threads[]").CountWildcards())
	assert.Equal(t, 0, mustPattern(t, "Processes[1]").CountWildcards())
	assert.Equal(t, 1, NewPattern(WildcardName, "Stack").CountWildcards())
}

func TestPatternIsNeverEmpty(t *testing.T) {
	assert.False(t, mustPattern(t, "Processes[]").IsEmpty())
	assert.False(t, NewPattern().IsEmpty()) // zero-length pattern matches the root
	assert.True(t, NewPattern().Matches(nil))
}
