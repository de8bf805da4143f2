// Package foldertree implements a client-side cache of a server's hierarchical mailbox namespace.
//
// The tree is discovered lazily through a directory.Directory, sorted with a mboxsort.Sorter, filtered by
// subscription state and walked in pre-order with a Cursor. A tree can be serialized with Snapshot and
// resumed with Restore so that one cache survives many short-lived requests.
package foldertree

import "errors"

var (
	ErrNoSuchMailbox     = errors.New("no such mailbox")
	ErrProtectedMailbox  = errors.New("mailbox is protected")
	ErrHiddenMailbox     = errors.New("mailbox name is hidden")
	ErrReadOnlyNamespace = errors.New("namespace does not allow inserting mailboxes")
	ErrNotOnServer       = errors.New("mailbox does not exist on the server")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
)

// IsNoSuchMailbox returns true if the error is ErrNoSuchMailbox.
func IsNoSuchMailbox(err error) bool {
	return errors.Is(err, ErrNoSuchMailbox)
}

// IsProtectedMailbox returns true if the error is ErrProtectedMailbox.
func IsProtectedMailbox(err error) bool {
	return errors.Is(err, ErrProtectedMailbox)
}

// IsNotOnServer returns true if the error is ErrNotOnServer.
func IsNotOnServer(err error) bool {
	return errors.Is(err, ErrNotOnServer)
}

// IsInvalidSnapshot returns true if the error is ErrInvalidSnapshot.
func IsInvalidSnapshot(err error) bool {
	return errors.Is(err, ErrInvalidSnapshot)
}
