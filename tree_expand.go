package foldertree

import (
	"context"

	"github.com/ProtonMail/foldertree/directory"
	"github.com/ProtonMail/foldertree/imap"
	"github.com/bradenaw/juniper/xslices"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Expand opens a node, first discovering its children if they were never listed.
// A node without children is discovered but stays closed. If recursive is set, every child is expanded too.
func (t *Tree) Expand(ctx context.Context, name string, recursive bool) error {
	n, ok := t.nodes[t.canon(name)]
	if !ok {
		return ErrNoSuchMailbox
	}

	t.expand(ctx, n, recursive)

	return nil
}

func (t *Tree) expand(ctx context.Context, n *node, recursive bool) {
	t.changed = true

	if !n.discovered() {
		t.discover(ctx, n)
	}

	if t.rawChildren(ctx, n) {
		t.setOpen(n, true)
	}

	if !recursive {
		return
	}

	for _, child := range slices.Clone(t.children[n.name]) {
		if c, ok := t.nodes[child]; ok {
			t.expand(ctx, c, true)
		}
	}
}

// Collapse closes a node. Its discovered children are kept.
func (t *Tree) Collapse(name string) error {
	n, ok := t.nodes[t.canon(name)]
	if !ok {
		return ErrNoSuchMailbox
	}

	t.setOpen(n, false)
	t.changed = true

	return nil
}

// ExpandAll recursively expands every top-level node.
func (t *Tree) ExpandAll(ctx context.Context) {
	for _, name := range slices.Clone(t.children[""]) {
		if n, ok := t.nodes[name]; ok {
			t.expand(ctx, n, true)
		}
	}
}

// CollapseAll closes every node and empties the expanded set.
func (t *Tree) CollapseAll() {
	for _, n := range t.nodes {
		t.setOpen(n, false)
	}

	t.expanded.Clear()
	t.changed = true
}

// discover lists the children of the node and merges them into the tree.
// A failed listing leaves the node undiscovered so that it is listed again later.
func (t *Tree) discover(ctx context.Context, n *node) {
	boxes, ok := t.list(ctx, n.name+t.delimiter+"%", t.showUnsub)
	if !ok {
		return
	}

	t.addLevel(ctx, xslices.Filter(boxes, func(mbox directory.Mailbox) bool {
		parent, _ := t.split(t.canon(mbox.Name))
		return parent == n.name
	}))

	n.attr |= AttrDiscovered

	// A listing restricted to subscribed mailboxes says nothing about unsubscribed children.
	if len(t.children[n.name]) == 0 && t.showUnsub {
		n.attr &^= AttrChildren
	}

	t.invalidate(n.name)
	t.changed = true

	logrus.WithField("name", n.name).WithField("children", len(t.children[n.name])).Debug("Discovered mailbox")
}

// HasChildren returns true if the node has children on the server.
// If viewableOnly is set and unsubscribed mailboxes are hidden, only children that are visible count.
func (t *Tree) HasChildren(ctx context.Context, name string, viewableOnly bool) bool {
	n, ok := t.nodes[t.canon(name)]
	if !ok {
		return false
	}

	return t.hasChildren(ctx, n, viewableOnly, t.showUnsub)
}

func (t *Tree) hasChildren(ctx context.Context, n *node, viewableOnly, showUnsub bool) bool {
	if !t.rawChildren(ctx, n) {
		return false
	}

	if !viewableOnly || showUnsub {
		return true
	}

	return t.hasViewableChildren(ctx, n)
}

// rawChildren returns true if the node is known to have children. Without a listing or trusted child state,
// the subscription lists are searched for an inferior.
func (t *Tree) rawChildren(ctx context.Context, n *node) bool {
	if len(t.children[n.name]) > 0 || n.attr.Has(AttrChildren) {
		return true
	}

	if n.discovered() || n.attr.Has(AttrNoInferiors) {
		return false
	}

	if n.attr.Has(AttrHasNoChildren) && t.trustsChildState(ctx) {
		return false
	}

	return t.hasInferior(ctx, n.name, t.showUnsub)
}

// hasViewableChildren returns true if a subscribed mailbox lies below the node.
// Answers are cached until the view mode or a subscription below the node changes.
func (t *Tree) hasViewableChildren(ctx context.Context, n *node) bool {
	if res, ok := t.viewable[n.name]; ok {
		return res
	}

	var res bool

	if children := t.children[n.name]; len(children) > 0 {
		res = xslices.Any(children, func(child string) bool {
			c, ok := t.nodes[child]
			if !ok {
				return false
			}

			return (c.subscribed() && !c.container()) || t.hasViewableChildren(ctx, c)
		})
	} else {
		res = t.hasInferior(ctx, n.name, false)
	}

	t.viewable[n.name] = res

	return res
}

// visible returns true if the node is shown in the given view mode.
func (t *Tree) visible(ctx context.Context, n *node, showUnsub bool) bool {
	if showUnsub || (n.subscribed() && !n.container()) {
		return true
	}

	return t.hasChildren(ctx, n, true, false)
}

// isContainer returns true if the node only leads to other nodes in the current view.
func (t *Tree) isContainer(ctx context.Context, n *node) bool {
	if n.container() {
		return true
	}

	return !t.showUnsub && !n.subscribed() && t.rawChildren(ctx, n)
}

// hasInferior searches the subscription lists for a mailbox below the given name.
func (t *Tree) hasInferior(ctx context.Context, name string, includeUnsubscribed bool) bool {
	t.loadSubscriptions(ctx)

	names, _ := t.subs.Subscribed()

	if includeUnsubscribed {
		unsubscribed, _ := t.subs.Unsubscribed()
		names = append(names, unsubscribed...)
	}

	return xslices.Any(names, func(other string) bool {
		return imap.HasAncestor(other, name, t.delimiter) && !t.hidden(other)
	})
}

// loadSubscriptions fills the subscription lists from a single listing of the namespace, unless they are loaded.
func (t *Tree) loadSubscriptions(ctx context.Context) {
	if t.subs.loaded(false) && t.subs.loaded(true) {
		return
	}

	if boxes, ok := t.list(ctx, t.prefix+"*", true); ok {
		t.fillSubscriptions(boxes)
	}
}

func (t *Tree) fillSubscriptions(boxes []directory.Mailbox) {
	var subscribed, unsubscribed []string

	if t.root != "" {
		subscribed = append(subscribed, t.root)
	}

	for _, mbox := range boxes {
		name := t.canon(mbox.Name)

		switch {
		case t.isRoot(name):
			continue

		case mbox.Subscribed:
			subscribed = append(subscribed, name)

		case !mbox.Attributes.Contains(imap.AttrNoSelect):
			unsubscribed = append(unsubscribed, name)
		}
	}

	t.subs.setSubscribed(subscribed)
	t.subs.setUnsubscribed(unsubscribed)
	t.changed = true
}

// ShowUnsubscribed switches between showing every mailbox and only subscribed ones.
// Showing every mailbox inserts the mailboxes missing from the top level and from below discovered nodes.
// Hiding them again only changes the view.
func (t *Tree) ShowUnsubscribed(ctx context.Context, show bool) {
	if show == t.showUnsub {
		return
	}

	t.showUnsub = show
	t.viewable = make(map[string]bool)
	t.changed = true

	if !show {
		return
	}

	boxes, ok := t.list(ctx, t.prefix+"*", true)
	if !ok {
		return
	}

	if !t.subs.loaded(false) || !t.subs.loaded(true) {
		t.fillSubscriptions(boxes)
	}

	t.addLevel(ctx, xslices.Filter(boxes, func(mbox directory.Mailbox) bool {
		name := t.canon(mbox.Name)

		if _, ok := t.nodes[name]; ok || t.isRoot(name) {
			return false
		}

		parent, _ := t.split(name)
		if parent == "" {
			return true
		}

		p, ok := t.nodes[parent]

		return ok && p.discovered()
	}))
}
