package directory

import (
	"context"
	"fmt"

	"github.com/ProtonMail/foldertree/imap"
	"github.com/bradenaw/juniper/iterator"
	goimap "github.com/emersion/go-imap"
)

// Conn is the part of *client.Client used to query the namespace.
type Conn interface {
	List(ref, name string, ch chan *goimap.MailboxInfo) error
	Lsub(ref, name string, ch chan *goimap.MailboxInfo) error
	Support(cap string) (bool, error)
}

// IMAPClient answers directory queries with LIST and LSUB commands on an authenticated connection.
type IMAPClient struct {
	conn Conn
}

func NewIMAPClient(conn Conn) *IMAPClient {
	return &IMAPClient{conn: conn}
}

func (c *IMAPClient) List(ctx context.Context, pattern string, includeUnsubscribed bool) ([]Mailbox, error) {
	subscribed, err := collect(ctx, c.conn.Lsub, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to LSUB %q: %w", pattern, err)
	}

	// LSUB returns unsubscribed superiors of subscribed mailboxes flagged \Noselect.
	isSubscribed := make(map[string]bool, len(subscribed))

	for _, info := range subscribed {
		isSubscribed[imap.Canon(info.Name, info.Delimiter, imap.Inbox)] = !imap.NewFlagSet(info.Attributes...).Contains(imap.AttrNoSelect)
	}

	listed, err := collect(ctx, c.conn.List, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to LIST %q: %w", pattern, err)
	}

	var res []Mailbox

	for _, info := range listed {
		name := imap.Canon(info.Name, info.Delimiter, imap.Inbox)

		sub, lsub := isSubscribed[name]

		attrs := imap.NewFlagSet(info.Attributes...)

		if !includeUnsubscribed && !sub {
			if !lsub {
				continue
			}

			attrs = attrs.Add(imap.AttrNoSelect)
		}

		res = append(res, Mailbox{
			Name:       name,
			Delimiter:  info.Delimiter,
			Attributes: attrs,
			Subscribed: sub,
		})
	}

	return res, nil
}

func (c *IMAPClient) Get(ctx context.Context, name string, includeUnsubscribed bool) (Mailbox, bool, error) {
	mailboxes, err := c.List(ctx, name, includeUnsubscribed)
	if err != nil {
		return Mailbox{}, false, err
	}

	for _, mbox := range mailboxes {
		if mbox.Name == name {
			return mbox, true, nil
		}
	}

	return Mailbox{}, false, nil
}

func (c *IMAPClient) ReportsChildState(context.Context) (bool, error) {
	return c.conn.Support(imap.CapChildren)
}

// collect runs a LIST-like command and drains its response channel.
func collect(
	ctx context.Context,
	cmd func(ref, name string, ch chan *goimap.MailboxInfo) error,
	pattern string,
) ([]*goimap.MailboxInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan *goimap.MailboxInfo)
	done := make(chan error, 1)

	go func() {
		done <- cmd("", pattern, ch)
	}()

	infos := iterator.Collect(iterator.Chan(ch))

	if err := <-done; err != nil {
		return nil, err
	}

	return infos, nil
}
