package foldertree

import (
	"context"
	"fmt"

	"github.com/ProtonMail/foldertree/directory"
	"github.com/ProtonMail/foldertree/imap"
	"github.com/sirupsen/logrus"
)

// Insert adds mailboxes that exist on the server to the tree, along with any missing superiors.
// Names are inserted shallowest first so that parents are known before their children.
// Every name is attempted; the first failure is returned.
func (t *Tree) Insert(ctx context.Context, names ...string) error {
	if t.mode == ModeNews {
		return ErrReadOnlyNamespace
	}

	names = t.canonAll(names)

	t.sorter.Shallowest(names)

	var res error

	for _, name := range names {
		if err := t.insert(ctx, name); err != nil && res == nil {
			res = fmt.Errorf("failed to insert %q: %w", name, err)
		}
	}

	return res
}

// insert queries every missing node on the path to the name before touching the tree, so that a failure
// leaves the tree unchanged.
func (t *Tree) insert(ctx context.Context, name string) error {
	if t.hidden(name) {
		return ErrHiddenMailbox
	}

	if n, ok := t.nodes[name]; ok && !n.container() {
		return nil
	}

	var pending []*node

	for _, superior := range append(t.superiors(name), name) {
		if n, ok := t.nodes[superior]; ok && (superior != name || !n.container()) {
			continue
		}

		mbox, ok := t.get(ctx, superior)

		switch {
		case ok:
			// Use the name as requested; the server may spell the root anchor differently.
			mbox.Name = superior

		case superior == name:
			if _, exists := t.nodes[name]; exists {
				return nil
			}

			return ErrNotOnServer

		default:
			mbox = directory.Mailbox{Name: superior, Attributes: imap.NewFlagSet(imap.AttrNoSelect)}
		}

		pending = append(pending, t.makeNode(ctx, mbox))
	}

	for _, n := range pending {
		if t.insertNode(ctx, n) {
			t.changed = true
		}
	}

	logrus.WithField("name", name).Debug("Inserted mailbox")

	return nil
}

// Delete removes mailboxes from the tree. Names are deleted deepest first, so that the child count of every
// parent is accurate when the parent itself is deleted. A mailbox that still has children is kept as a
// container. Emptied containers above a deleted mailbox are removed too.
// The root anchor cannot be deleted. Every name is attempted; the first failure is returned.
func (t *Tree) Delete(names ...string) error {
	names = t.canonAll(names)

	t.sorter.Deepest(names)

	var res error

	for _, name := range names {
		if err := t.delete(name); err != nil && res == nil {
			res = fmt.Errorf("failed to delete %q: %w", name, err)
		}
	}

	return res
}

func (t *Tree) delete(name string) error {
	if t.isRoot(name) {
		return ErrProtectedMailbox
	}

	n, ok := t.nodes[name]
	if !ok {
		return ErrNoSuchMailbox
	}

	t.changed = true

	// Children the server reports but that were never listed count too.
	if len(t.children[name]) > 0 || n.attr.Has(AttrChildren) {
		n.attr |= AttrNoSelect
		t.invalidate(name)

		return nil
	}

	t.removeChild(n.parent, name)
	delete(t.nodes, name)

	if t.first == name {
		t.first = ""

		if top := t.children[""]; len(top) > 0 {
			t.first = top[0]
		}
	}

	t.subs.forget(name)
	t.expanded.Remove(name)
	t.poll.Remove(name)
	t.invalidate(name)

	logrus.WithField("name", name).Debug("Deleted mailbox")

	parent, ok := t.nodes[n.parent]
	if !ok || len(t.children[n.parent]) > 0 {
		return nil
	}

	if parent.container() && !t.isRoot(parent.name) {
		return t.delete(parent.name)
	}

	return nil
}

// Subscribe marks mailboxes as subscribed. Mailboxes not yet in the tree are inserted.
func (t *Tree) Subscribe(ctx context.Context, names ...string) error {
	var res error

	for _, name := range t.canonAll(names) {
		if _, ok := t.nodes[name]; !ok {
			if err := t.Insert(ctx, name); err != nil {
				if res == nil {
					res = err
				}

				continue
			}
		}

		n, ok := t.nodes[name]
		if !ok {
			continue
		}

		t.setSubscribed(n, true)
		n.attr &^= AttrNoSelect
		t.changed = true
	}

	return res
}

// Unsubscribe marks mailboxes as not subscribed. While unsubscribed mailboxes are hidden, a mailbox with
// children becomes a container so that it still shows the way to its subscribed descendants.
// The root anchor is always subscribed.
func (t *Tree) Unsubscribe(names ...string) error {
	names = t.canonAll(names)

	t.sorter.Deepest(names)

	var res error

	for _, name := range names {
		if err := t.unsubscribe(name); err != nil && res == nil {
			res = fmt.Errorf("failed to unsubscribe %q: %w", name, err)
		}
	}

	return res
}

func (t *Tree) unsubscribe(name string) error {
	if t.isRoot(name) {
		return ErrProtectedMailbox
	}

	n, ok := t.nodes[name]
	if !ok {
		return ErrNoSuchMailbox
	}

	if !t.showUnsub && (len(t.children[name]) > 0 || n.attr.Has(AttrChildren)) {
		n.attr |= AttrNoSelect
	}

	t.setSubscribed(n, false)
	t.changed = true

	return nil
}

// Rename replaces each old mailbox with the new one at the same index, keeping its polled state.
func (t *Tree) Rename(ctx context.Context, from, to []string) error {
	if len(from) != len(to) {
		return fmt.Errorf("cannot rename %v mailboxes to %v names", len(from), len(to))
	}

	for i := range from {
		polled := t.IsPolled(from[i])

		if err := t.Delete(from[i]); err != nil {
			return err
		}

		if err := t.Insert(ctx, to[i]); err != nil {
			return err
		}

		if polled {
			if err := t.AddPoll(ctx, to[i]); err != nil {
				return err
			}
		}
	}

	return nil
}
