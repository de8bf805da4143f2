// Package directory defines how the tree talks to the server's mailbox namespace.
//
// Implementations answer LIST-style queries. Results carry no ordering or completeness guarantee;
// callers re-sort and re-validate everything they receive.
package directory

import (
	"context"

	"github.com/ProtonMail/foldertree/imap"
)

// Mailbox is a single entry of the server's namespace.
type Mailbox struct {
	Name       string
	Delimiter  string
	Attributes imap.FlagSet
	Subscribed bool
}

// Directory lists mailboxes known to a server.
type Directory interface {
	// List returns the mailboxes matching the LIST pattern. If includeUnsubscribed is false only
	// subscribed mailboxes are returned.
	List(ctx context.Context, pattern string, includeUnsubscribed bool) ([]Mailbox, error)

	// Get returns the mailbox with the given name, if it exists.
	Get(ctx context.Context, name string, includeUnsubscribed bool) (Mailbox, bool, error)
}

// ChildStateReporter is implemented by directories that know whether the server reports
// \HasChildren and \HasNoChildren attributes.
type ChildStateReporter interface {
	ReportsChildState(ctx context.Context) (bool, error)
}

//go:generate mockgen -destination mock_directory/directory.go . Directory
