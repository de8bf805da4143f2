package foldertree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTree_Poll(t *testing.T) {
	ctx := context.Background()

	tree := New(ctx, newDirectory(t, false, map[string]bool{
		"INBOX": true,
		"Play":  true,
		"Work":  false,
	}), WithInitMode(InitUnsubscribed))

	require.True(t, tree.IsPolled("inbox"))
	require.False(t, tree.Polled().Dirty())

	require.NoError(t, tree.AddPoll(ctx, "Work"))
	require.True(t, tree.Polled().Dirty())

	work, ok := tree.Get("Work")
	require.True(t, ok)
	require.True(t, work.Polled())
	require.True(t, work.Subscribed())

	require.True(t, IsNoSuchMailbox(tree.AddPoll(ctx, "Nope")))
	require.True(t, IsProtectedMailbox(tree.RemovePoll("INBOX")))
	require.True(t, tree.IsPolled("INBOX"))

	require.Equal(t, []string{"INBOX", "Work"}, tree.PollList(ctx, false, true))

	tree.ShowUnsubscribed(ctx, false)
	require.NoError(t, tree.Unsubscribe("Work"))

	require.Equal(t, []string{"INBOX"}, tree.PollList(ctx, true, true))
	require.Equal(t, []string{"INBOX", "Work"}, tree.PollList(ctx, false, false))

	require.NoError(t, tree.RemovePoll("Work"))
	require.False(t, tree.IsPolled("Work"))

	work, _ = tree.Get("Work")
	require.False(t, work.Polled())
}

func TestTree_PollSetOption(t *testing.T) {
	ctx := context.Background()

	tree := New(ctx, newDirectory(t, false, map[string]bool{
		"INBOX": true,
		"Lists": true,
	}), WithPollSet(NewNameSet("Lists")))

	lists, ok := tree.Get("Lists")
	require.True(t, ok)
	require.True(t, lists.Polled())

	require.NoError(t, tree.Delete("Lists"))
	require.False(t, tree.IsPolled("Lists"))
}
