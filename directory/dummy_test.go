package directory

import (
	"context"
	"testing"

	"github.com/ProtonMail/foldertree/imap"
	"github.com/bradenaw/juniper/xslices"
	"github.com/stretchr/testify/require"
)

func names(mailboxes []Mailbox) []string {
	return xslices.Map(mailboxes, func(mbox Mailbox) string {
		return mbox.Name
	})
}

func TestDummy_List(t *testing.T) {
	ctx := context.Background()

	dir := NewDummy("/", true)
	require.NoError(t, dir.Create("INBOX", true))
	require.NoError(t, dir.Create("INBOX/Sent", true))
	require.NoError(t, dir.Create("INBOX/Sent/2024", false))
	require.NoError(t, dir.Create("Archive/2023", true))

	all, err := dir.List(ctx, "%", true)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Archive", "INBOX"}, names(all))

	sub, err := dir.List(ctx, "INBOX/*", false)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"INBOX/Sent"}, names(sub))

	top, err := dir.List(ctx, "%", false)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Archive", "INBOX"}, names(top))
	require.True(t, top[0].Attributes.Contains(imap.AttrNoSelect))

	archive, ok, err := dir.Get(ctx, "Archive", true)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, archive.Attributes.Contains(imap.AttrNoSelect))
	require.True(t, archive.Attributes.Contains(imap.AttrHasChildren))
	require.False(t, archive.Subscribed)

	leaf, ok, err := dir.Get(ctx, "INBOX/Sent/2024", true)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, leaf.Attributes.Contains(imap.AttrHasNoChildren))

	_, ok, err = dir.Get(ctx, "INBOX/Sent/2024", false)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDummy_Failing(t *testing.T) {
	ctx := context.Background()

	dir := NewDummy("/", false)
	require.NoError(t, dir.Create("INBOX", true))

	dir.SetFailing(true)

	_, err := dir.List(ctx, "*", true)
	require.ErrorIs(t, err, ErrOffline)

	_, _, err = dir.Get(ctx, "INBOX", true)
	require.ErrorIs(t, err, ErrOffline)

	require.Equal(t, 2, dir.Calls())
}

func TestDummy_Subscriptions(t *testing.T) {
	ctx := context.Background()

	dir := NewDummy(".", false)
	require.NoError(t, dir.Create("INBOX.Drafts", false))
	require.ErrorIs(t, dir.Subscribe("INBOX.Nope"), ErrNoSuchMailbox)
	require.NoError(t, dir.Subscribe("INBOX.Drafts"))

	mbox, ok, err := dir.Get(ctx, "INBOX.Drafts", false)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, mbox.Subscribed)
	require.False(t, mbox.Attributes.ContainsAny(imap.AttrHasChildren, imap.AttrHasNoChildren))

	require.NoError(t, dir.Remove("INBOX.Drafts"))
	require.ErrorIs(t, dir.Remove("INBOX.Drafts"), ErrNoSuchMailbox)
}
