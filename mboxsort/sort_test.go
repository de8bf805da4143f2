package mboxsort

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSorter_Sort(t *testing.T) {
	for name, data := range map[string]struct {
		pinRoot bool
		names   []string
		want    []string
	}{
		"case insensitive": {
			names: []string{"b", "A", "c"},
			want:  []string{"A", "b", "c"},
		},
		"natural numbers": {
			names: []string{"2024", "202", "10", "9", "Archive 10", "Archive 9"},
			want:  []string{"9", "10", "202", "2024", "Archive 9", "Archive 10"},
		},
		"hierarchical": {
			names: []string{"a/b", "a-b", "a", "a/a", "b"},
			want:  []string{"a", "a/a", "a/b", "a-b", "b"},
		},
		"root pinned": {
			pinRoot: true,
			names:   []string{"Archive", "inbox", "INBOX/A", "Drafts"},
			want:    []string{"inbox", "Archive", "Drafts", "INBOX/A"},
		},
		"root not pinned": {
			names: []string{"Junk", "INBOX", "Archive"},
			want:  []string{"Archive", "INBOX", "Junk"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			sorter := New("/", "INBOX", data.pinRoot)

			names := append([]string{}, data.names...)
			sorter.Sort(names)

			require.Equal(t, data.want, names)
		})
	}
}

func TestSorter_Siblings(t *testing.T) {
	sorter := New("/", "INBOX", true)

	names := []string{"INBOX/b", "INBOX/A"}
	sorter.Sort(names)

	require.Equal(t, []string{"INBOX/A", "INBOX/b"}, names)
	require.True(t, sorter.Less("INBOX/A", "inbox/b/c"))
}

func TestSorter_Depth(t *testing.T) {
	sorter := New("/", "INBOX", true)

	names := []string{"a/b/c", "a", "b", "a/b"}

	sorter.Shallowest(names)
	require.Equal(t, []string{"a", "b", "a/b", "a/b/c"}, names)

	sorter.Deepest(names)
	require.Equal(t, []string{"a/b/c", "a/b", "a", "b"}, names)
}

func TestSorter_Total(t *testing.T) {
	sorter := New("/", "", false)

	require.NotZero(t, sorter.Compare("a", "A"))
	require.Equal(t, -sorter.Compare("a", "A"), sorter.Compare("A", "a"))
	require.Zero(t, sorter.Compare("x", "x"))
}
