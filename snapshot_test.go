package foldertree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTree_SnapshotRestore(t *testing.T) {
	ctx := context.Background()

	dir := newDirectory(t, true, map[string]bool{
		"INBOX":           true,
		"INBOX/Sent":      true,
		"INBOX/Sent/2024": false,
		"INBOX/Drafts":    true,
		"Archive/2023":    true,
	})

	opts := []Option{WithPollSet(NewNameSet("INBOX/Drafts"))}

	tree := New(ctx, dir, opts...)
	require.NoError(t, tree.Expand(ctx, "INBOX", true))

	data, err := tree.Snapshot()
	require.NoError(t, err)

	restored, err := Restore(dir, data, opts...)
	require.NoError(t, err)
	requireConsistent(t, restored)

	require.False(t, restored.Changed())

	nodes, children := state(tree)
	restoredNodes, restoredChildren := state(restored)
	require.Equal(t, nodes, restoredNodes)
	require.Equal(t, children, restoredChildren)

	require.Equal(t, walk(ctx, tree, 0), walk(ctx, restored, 0))
	require.Equal(t, []string{"INBOX", "INBOX/Drafts", "INBOX/Sent", "Archive"}, walk(ctx, restored, 0))

	// The probed child state is kept, so the restored tree does not ask again.
	require.NotNil(t, restored.childState)
	require.True(t, *restored.childState)
}

func TestTree_RestorePolled(t *testing.T) {
	ctx := context.Background()

	dir := newDirectory(t, false, map[string]bool{
		"INBOX": true,
		"Work":  true,
	})

	tree := New(ctx, dir)
	require.NoError(t, tree.AddPoll(ctx, "Work"))

	data, err := tree.Snapshot()
	require.NoError(t, err)

	// The poll set is saved on its own; a restored tree follows the set it is given.
	restored, err := Restore(dir, data)
	require.NoError(t, err)

	work, ok := restored.Get("Work")
	require.True(t, ok)
	require.False(t, work.Polled())

	inbox, ok := restored.Get("INBOX")
	require.True(t, ok)
	require.True(t, inbox.Polled())
}

func TestTree_RestoreInvalid(t *testing.T) {
	ctx := context.Background()

	dir := newDirectory(t, false, map[string]bool{"INBOX": true})

	valid, err := New(ctx, dir).Snapshot()
	require.NoError(t, err)

	for name, data := range map[string]struct {
		data []byte
		opts []Option
	}{
		"garbage": {
			data: []byte("garbage"),
		},
		"other delimiter": {
			data: valid,
			opts: []Option{WithDelimiter(".")},
		},
		"other root": {
			data: valid,
			opts: []Option{WithRootName("Posteingang")},
		},
		"unknown version": {
			data: []byte(`{"version":99,"delimiter":"/","root":"INBOX"}`),
		},
		"missing root": {
			data: []byte(`{"version":1,"delimiter":"/","root":"INBOX","nodes":[],"children":{}}`),
		},
		"unknown parent": {
			data: []byte(`{"version":1,"delimiter":"/","root":"INBOX","first":"INBOX",
				"nodes":[{"name":"INBOX","label":"INBOX"},{"name":"A/B","label":"B"}],
				"children":{"":["INBOX"],"A":["A/B"]}}`),
		},
		"unlisted node": {
			data: []byte(`{"version":1,"delimiter":"/","root":"INBOX","first":"INBOX",
				"nodes":[{"name":"INBOX","label":"INBOX"},{"name":"X","label":"X"}],
				"children":{"":["INBOX"]}}`),
		},
		"listed twice": {
			data: []byte(`{"version":1,"delimiter":"/","root":"INBOX","first":"INBOX",
				"nodes":[{"name":"INBOX","label":"INBOX"},{"name":"X","label":"X"}],
				"children":{"":["INBOX","INBOX"]}}`),
		},
		"wrong parent": {
			data: []byte(`{"version":1,"delimiter":"/","root":"INBOX","first":"INBOX",
				"nodes":[{"name":"INBOX","label":"INBOX"},{"name":"INBOX/a","label":"a"}],
				"children":{"":["INBOX","INBOX/a"]}}`),
		},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Restore(dir, data.data, data.opts...)
			require.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}
