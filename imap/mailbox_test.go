package imap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuperiors(t *testing.T) {
	for name, data := range map[string]struct {
		name, delimiter string
		want            []string
	}{
		"no parents": {
			name:      "this",
			delimiter: "/",
			want:      nil,
		},
		"has parents": {
			name:      "this/is/a/test",
			delimiter: "/",
			want:      []string{"this", "this/is", "this/is/a"},
		},
		"wrong delimiter": {
			name:      "this.is.a.test",
			delimiter: "/",
			want:      nil,
		},
		"nil delimiter": {
			name:      "/nil/delimiter.used",
			delimiter: "",
			want:      nil,
		},
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, data.want, Superiors(data.name, data.delimiter))
		})
	}
}

func TestSplit(t *testing.T) {
	for name, data := range map[string]struct {
		name, delimiter string
		parent, label   string
		level           int
	}{
		"top level": {
			name:      "INBOX",
			delimiter: "/",
			label:     "INBOX",
		},
		"nested": {
			name:      "INBOX/Sent/2024",
			delimiter: "/",
			parent:    "INBOX/Sent",
			label:     "2024",
			level:     2,
		},
		"dot delimiter": {
			name:      "INBOX.Drafts",
			delimiter: ".",
			parent:    "INBOX",
			label:     "Drafts",
			level:     1,
		},
	} {
		t.Run(name, func(t *testing.T) {
			parent, label := Split(data.name, data.delimiter)
			require.Equal(t, data.parent, parent)
			require.Equal(t, data.label, label)
			require.Equal(t, data.level, Level(data.name, data.delimiter))
		})
	}
}

func TestCanon(t *testing.T) {
	require.Equal(t, "INBOX", Canon("inbox", "/", Inbox))
	require.Equal(t, "INBOX/b/c", Canon("inbox/b/c", "/", Inbox))
	require.Equal(t, "Inboxes/b", Canon("Inboxes/b", "/", Inbox))
	require.Equal(t, "inbox", Canon("inbox", "/", ""))
}

func TestInferiors(t *testing.T) {
	names := []string{"a/b", "this/one", "this", "this/two", "this/one/two/three", "c/d", "thisone"}

	require.ElementsMatch(t, []string{"this/one", "this/two", "this/one/two/three"}, Inferiors("this", "/", names))
	require.Empty(t, Inferiors("this", "", names))
}

func TestMatch(t *testing.T) {
	for name, data := range map[string]struct {
		pattern string
		names   map[string]bool
	}{
		"percent": {
			pattern: "INBOX/%",
			names: map[string]bool{
				"INBOX/Sent":      true,
				"INBOX/Sent/2024": false,
				"INBOX":           false,
			},
		},
		"star": {
			pattern: "INBOX*",
			names: map[string]bool{
				"INBOX":           true,
				"INBOX/Sent/2024": true,
				"Archive":         false,
			},
		},
		"exact": {
			pattern: "INBOX/Sent",
			names: map[string]bool{
				"INBOX/Sent":  true,
				"INBOX/Sent2": false,
			},
		},
		"meta characters": {
			pattern: "a.b/%",
			names: map[string]bool{
				"a.b/c": true,
				"aXb/c": false,
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			for mbox, want := range data.names {
				require.Equal(t, want, Match(data.pattern, "/", mbox), mbox)
			}
		})
	}
}
