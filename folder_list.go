package foldertree

import (
	"context"

	"github.com/ProtonMail/foldertree/imap"
)

// ListMask selects which nodes FolderList returns.
type ListMask int

const (
	// ListContainers includes nodes that cannot be selected.
	ListContainers ListMask = 1 << iota

	// ListUnsubscribed includes unsubscribed mailboxes.
	ListUnsubscribed
)

// FolderList returns the names of the mailboxes in display order, walking closed nodes too.
// If base is not empty, only the mailboxes below it are returned.
// The view mode is switched for the walk as the mask requires and restored afterwards.
func (t *Tree) FolderList(ctx context.Context, mask ListMask, base string) []string {
	showUnsub := mask&ListUnsubscribed != 0

	if prev := t.showUnsub; prev != showUnsub {
		t.ShowUnsubscribed(ctx, showUnsub)
		defer t.ShowUnsubscribed(ctx, prev)
	}

	base = t.canon(base)

	var names []string

	c := t.Cursor(ctx, ShowClosed)

	for ok := c.current() != nil; ok; ok = c.Next(ctx) {
		n := c.current()

		if base != "" && !imap.HasAncestor(n.name, base, t.delimiter) {
			continue
		}

		if mask&ListContainers != 0 || !t.isContainer(ctx, n) {
			names = append(names, n.name)
		}
	}

	return names
}
