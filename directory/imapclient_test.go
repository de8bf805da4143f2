package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/ProtonMail/foldertree/imap"
	goimap "github.com/emersion/go-imap"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	listed, subscribed []*goimap.MailboxInfo
	listErr            error
	caps               map[string]bool
}

func (c *fakeConn) List(_, _ string, ch chan *goimap.MailboxInfo) error {
	return c.send(c.listed, c.listErr, ch)
}

func (c *fakeConn) Lsub(_, _ string, ch chan *goimap.MailboxInfo) error {
	return c.send(c.subscribed, nil, ch)
}

func (c *fakeConn) Support(cap string) (bool, error) {
	return c.caps[cap], nil
}

func (c *fakeConn) send(infos []*goimap.MailboxInfo, err error, ch chan *goimap.MailboxInfo) error {
	defer close(ch)

	if err != nil {
		return err
	}

	for _, info := range infos {
		ch <- info
	}

	return nil
}

func TestIMAPClient_List(t *testing.T) {
	conn := &fakeConn{
		listed: []*goimap.MailboxInfo{
			{Name: "inbox", Delimiter: "/"},
			{Name: "INBOX/Sent", Delimiter: "/", Attributes: []string{imap.AttrHasChildren}},
			{Name: "INBOX/Junk", Delimiter: "/"},
		},
		subscribed: []*goimap.MailboxInfo{
			{Name: "INBOX", Delimiter: "/"},
			{Name: "INBOX/Sent", Delimiter: "/"},
		},
		caps: map[string]bool{imap.CapChildren: true},
	}

	client := NewIMAPClient(conn)

	all, err := client.List(context.Background(), "*", true)
	require.NoError(t, err)
	require.Equal(t, []string{"INBOX", "INBOX/Sent", "INBOX/Junk"}, names(all))
	require.True(t, all[1].Subscribed)
	require.False(t, all[2].Subscribed)
	require.True(t, all[1].Attributes.Contains(imap.AttrHasChildren))

	sub, err := client.List(context.Background(), "*", false)
	require.NoError(t, err)
	require.Equal(t, []string{"INBOX", "INBOX/Sent"}, names(sub))

	junk, ok, err := client.Get(context.Background(), "INBOX/Junk", true)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "INBOX/Junk", junk.Name)

	supported, err := client.ReportsChildState(context.Background())
	require.NoError(t, err)
	require.True(t, supported)
}

func TestIMAPClient_ListError(t *testing.T) {
	client := NewIMAPClient(&fakeConn{listErr: errors.New("connection reset")})

	_, err := client.List(context.Background(), "%", true)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.List(ctx, "%", true)
	require.ErrorIs(t, err, context.Canceled)
}

func TestIMAPClient_ListPlaceholder(t *testing.T) {
	conn := &fakeConn{
		listed: []*goimap.MailboxInfo{
			{Name: "INBOX", Delimiter: "/"},
			{Name: "INBOX/Sent", Delimiter: "/", Attributes: []string{imap.AttrHasChildren}},
			{Name: "INBOX/Sent/2023", Delimiter: "/"},
		},
		subscribed: []*goimap.MailboxInfo{
			{Name: "INBOX", Delimiter: "/"},
			{Name: "INBOX/Sent", Delimiter: "/", Attributes: []string{imap.AttrNoSelect}},
			{Name: "INBOX/Sent/2023", Delimiter: "/"},
		},
	}

	client := NewIMAPClient(conn)

	// Unsubscribed superiors are listed as containers leading to subscribed mailboxes.
	sub, err := client.List(context.Background(), "*", false)
	require.NoError(t, err)
	require.Equal(t, []string{"INBOX", "INBOX/Sent", "INBOX/Sent/2023"}, names(sub))
	require.False(t, sub[1].Subscribed)
	require.True(t, sub[1].Attributes.Contains(imap.AttrNoSelect))
	require.True(t, sub[1].Attributes.Contains(imap.AttrHasChildren))
	require.True(t, sub[2].Subscribed)

	all, err := client.List(context.Background(), "*", true)
	require.NoError(t, err)
	require.False(t, all[1].Subscribed)
	require.False(t, all[1].Attributes.Contains(imap.AttrNoSelect))
}
