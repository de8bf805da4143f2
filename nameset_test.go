package foldertree

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameSet(t *testing.T) {
	set := NewNameSet("b", "a")
	require.False(t, set.Dirty())

	set.Add("a")
	require.False(t, set.Dirty())

	set.Add("c")
	require.True(t, set.Dirty())
	require.Equal(t, []string{"a", "b", "c"}, set.Names())

	set.MarkClean()
	set.Remove("nope")
	require.False(t, set.Dirty())

	b, err := json.Marshal(set)
	require.NoError(t, err)
	require.JSONEq(t, `["a","b","c"]`, string(b))

	var decoded NameSet
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.True(t, decoded.Contains("b"))
	require.Equal(t, 3, decoded.Len())

	set.Clear()
	require.Zero(t, set.Len())
	require.True(t, set.Dirty())
}

func TestSubscriptions_Encode(t *testing.T) {
	subs := NewSubscriptions()

	_, ok := subs.Subscribed()
	require.False(t, ok)

	subs.setSubscribed([]string{"INBOX", "Work"})
	subs.mark("Play", true)
	subs.mark("Work", false)

	require.True(t, subs.Dirty())

	b, err := subs.Encode()
	require.NoError(t, err)

	decoded, err := DecodeSubscriptions(b)
	require.NoError(t, err)
	require.False(t, decoded.Dirty())

	names, ok := decoded.Subscribed()
	require.True(t, ok)
	require.Equal(t, []string{"INBOX", "Play"}, names)

	_, ok = decoded.Unsubscribed()
	require.False(t, ok)

	_, err = DecodeSubscriptions([]byte("nope"))
	require.Error(t, err)
}

func TestTree_SubscriptionsFollowMutations(t *testing.T) {
	ctx := context.Background()

	tree := New(ctx, newDirectory(t, false, map[string]bool{
		"INBOX": true,
		"A":     false,
		"B":     true,
	}))

	// Walking the closed root loads the subscription lists.
	walk(ctx, tree, ShowClosed)

	subscribed, ok := tree.Subscriptions().Subscribed()
	require.True(t, ok)
	require.Equal(t, []string{"B", "INBOX"}, subscribed)

	unsubscribed, ok := tree.Subscriptions().Unsubscribed()
	require.True(t, ok)
	require.Equal(t, []string{"A"}, unsubscribed)

	require.NoError(t, tree.Subscribe(ctx, "A"))
	require.NoError(t, tree.Unsubscribe("B"))

	subscribed, _ = tree.Subscriptions().Subscribed()
	require.Equal(t, []string{"A", "INBOX"}, subscribed)

	unsubscribed, _ = tree.Subscriptions().Unsubscribed()
	require.Equal(t, []string{"B"}, unsubscribed)

	require.NoError(t, tree.Delete("A"))

	subscribed, _ = tree.Subscriptions().Subscribed()
	require.Equal(t, []string{"INBOX"}, subscribed)
}
