package foldertree

import (
	"context"
	"fmt"

	"github.com/bradenaw/juniper/xslices"
)

// AddPoll adds mailboxes to the poll list. Unsubscribed mailboxes are subscribed first.
// Every name is attempted; the first failure is returned.
func (t *Tree) AddPoll(ctx context.Context, names ...string) error {
	var res error

	for _, name := range t.canonAll(names) {
		if err := t.addPoll(ctx, name); err != nil && res == nil {
			res = fmt.Errorf("failed to poll %q: %w", name, err)
		}
	}

	return res
}

func (t *Tree) addPoll(ctx context.Context, name string) error {
	n, ok := t.nodes[name]
	if !ok {
		return ErrNoSuchMailbox
	}

	if !n.subscribed() {
		if err := t.Subscribe(ctx, name); err != nil {
			return err
		}
	}

	t.poll.Add(name)
	n.attr |= AttrPolled
	t.changed = true

	return nil
}

// RemovePoll removes mailboxes from the poll list. The root anchor is always polled.
func (t *Tree) RemovePoll(names ...string) error {
	var res error

	for _, name := range t.canonAll(names) {
		if t.isRoot(name) {
			if res == nil {
				res = fmt.Errorf("failed to stop polling %q: %w", name, ErrProtectedMailbox)
			}

			continue
		}

		t.poll.Remove(name)

		if n, ok := t.nodes[name]; ok {
			n.attr &^= AttrPolled
		}

		t.changed = true
	}

	return res
}

// IsPolled returns true if the mailbox is in the poll list.
func (t *Tree) IsPolled(name string) bool {
	name = t.canon(name)

	return t.isRoot(name) || t.poll.Contains(name)
}

// PollList returns the polled mailboxes. If prune is set, only mailboxes the current view lists are kept.
// If sorted is set, names are returned in display order rather than byte order.
func (t *Tree) PollList(ctx context.Context, prune, sorted bool) []string {
	names := t.poll.Names()

	if prune {
		listed := make(map[string]struct{})

		mask := ListMask(0)
		if t.showUnsub {
			mask |= ListUnsubscribed
		}

		for _, name := range t.FolderList(ctx, mask, "") {
			listed[name] = struct{}{}
		}

		names = xslices.Filter(names, func(name string) bool {
			_, ok := listed[name]
			return ok
		})
	}

	if sorted {
		t.sorter.Sort(names)
	}

	return names
}
