package path

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyClassification(t *testing.T) {
	indices := []string{"0", "1", "42", "007", "[]", "[r0]", "[7f00]"}
	for _, k := range indices {
		assert.True(t, IsIndex(k), "IsIndex(%q)", k)
		assert.False(t, IsName(k), "IsName(%q)", k)
	}
	names := []string{"Processes", "", "Stack", "x1y", "1x", "-1"}
	for _, k := range names {
		assert.True(t, IsName(k), "IsName(%q)", k)
		assert.False(t, IsIndex(k), "IsIndex(%q)", k)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Path
	}{
		{"", Path{}},
		{"Processes", Path{"Processes"}},
		{"Processes[1].Threads", Path{"Processes", "1", "Threads"}},
		{"Processes[].Threads[]", Path{"Processes", "[]", "Threads", "[]"}},
		{"Processes[1][2]", Path{"Processes", "1", "2"}},
		{"[0]", Path{"0"}},
		{"Regs[r0]", Path{"Regs", "[r0]"}},
		{".Threads", Path{"", "Threads"}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %v", got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"Processes[1",
		"Processes[1]x",
		"Processes]1[",
		"Processes[[1]]",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.Error(t, err)
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, in := range []string{
		"Processes[1].Threads[2]",
		"Processes[].Threads[]",
		"Regs[r0]",
		"Stack.Frames[0].Registers",
		".Threads",
	} {
		p, err := Parse(in)
		require.NoError(t, err)
		assert.Equal(t, in, Format(p))
	}
}

func TestCompare(t *testing.T) {
	t.Run("prefix sorts first", func(t *testing.T) {
		a := Path{"Processes", "1"}
		b := Path{"Processes", "1", "Threads"}
		assert.Negative(t, Compare(a, b))
		assert.Positive(t, Compare(b, a))
		assert.Zero(t, Compare(a, Path{"Processes", "1"}))
	})

	t.Run("indices sort numerically", func(t *testing.T) {
		paths := []Path{
			{"Processes", "10"},
			{"Processes", "2"},
			{"Processes", "1"},
		}
		sort.Slice(paths, func(i, j int) bool { return Compare(paths[i], paths[j]) < 0 })
		assert.Equal(t, []Path{
			{"Processes", "1"},
			{"Processes", "2"},
			{"Processes", "10"},
		}, paths)
	})

	t.Run("names before indices", func(t *testing.T) {
		assert.Negative(t, Compare(Path{"Threads"}, Path{"0"}))
	})
}

func TestExtendDoesNotAliasParent(t *testing.T) {
	base := Path{"Processes"}.Extend("1")
	a := base.Extend("Threads")
	b := base.Extend("Memory")
	assert.Equal(t, Path{"Processes", "1", "Threads"}, a)
	assert.Equal(t, Path{"Processes", "1", "Memory"}, b)
	assert.Equal(t, Path{"Processes", "1"}, base)
}
