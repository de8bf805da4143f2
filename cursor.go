package foldertree

import "context"

// CursorMask changes how a cursor walks the tree.
type CursorMask int

const (
	// ShowClosed walks into closed nodes too, discovering their children when needed.
	ShowClosed CursorMask = 1 << iota

	// SubscribedOnly walks the subscribed view whatever the tree's view mode.
	SubscribedOnly
)

type frame struct {
	parent string
	index  int
}

// Cursor walks the visible nodes of a tree in pre-order.
// It only holds names and indices, so it follows mutations made to the tree between steps.
type Cursor struct {
	tree *Tree
	mask CursorMask

	parent string
	index  int
	stack  []frame
	done   bool
}

// Cursor returns a cursor positioned on the first visible node.
func (t *Tree) Cursor(ctx context.Context, mask CursorMask) *Cursor {
	c := &Cursor{tree: t, mask: mask}

	c.Reset(ctx)

	return c
}

// Reset moves the cursor back to the top-level slot of the first node and returns whether it is on a node.
// If that node is not visible, the cursor moves on to the next visible one.
func (c *Cursor) Reset(ctx context.Context) bool {
	c.parent = ""
	c.index = 0
	c.stack = nil
	c.done = false

	for i, name := range c.tree.children[""] {
		if name == c.tree.first {
			c.index = i
			break
		}
	}

	n := c.current()
	if n == nil {
		c.done = true
		return false
	}

	if c.tree.visible(ctx, n, c.showUnsub()) {
		return true
	}

	return c.Next(ctx)
}

// Current returns the node under the cursor. It returns false once the walk is over, or if the node was
// removed from the tree.
func (c *Cursor) Current() (Node, bool) {
	n := c.current()
	if n == nil {
		return Node{}, false
	}

	return c.tree.export(n), true
}

// Next moves to the next visible node and returns false once the walk is over.
func (c *Cursor) Next(ctx context.Context) bool {
	for c.step(ctx) {
		if n := c.current(); n != nil && c.tree.visible(ctx, n, c.showUnsub()) {
			return true
		}
	}

	return false
}

// Peek returns true if the current node has a following sibling, visible or not.
func (c *Cursor) Peek() bool {
	if c.done {
		return false
	}

	return c.index+1 < len(c.tree.children[c.parent])
}

// Get returns the node with the given name, wherever the cursor is.
func (c *Cursor) Get(name string) (Node, bool) {
	return c.tree.Get(name)
}

// step moves one position in pre-order without filtering.
func (c *Cursor) step(ctx context.Context) bool {
	if c.done {
		return false
	}

	if n := c.current(); n != nil && c.descends(ctx, n) {
		c.stack = append(c.stack, frame{parent: c.parent, index: c.index})
		c.parent, c.index = n.name, 0
	} else {
		c.index++
	}

	for c.current() == nil {
		if len(c.stack) == 0 {
			c.done = true
			return false
		}

		top := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]

		c.parent, c.index = top.parent, top.index+1
	}

	return true
}

func (c *Cursor) descends(ctx context.Context, n *node) bool {
	if !c.tree.visible(ctx, n, c.showUnsub()) {
		return false
	}

	if c.mask&ShowClosed == 0 {
		return n.open()
	}

	if !n.discovered() && c.tree.rawChildren(ctx, n) {
		c.tree.discover(ctx, n)
	}

	return len(c.tree.children[n.name]) > 0
}

func (c *Cursor) current() *node {
	if c.done {
		return nil
	}

	children := c.tree.children[c.parent]

	if c.index < 0 || c.index >= len(children) {
		return nil
	}

	return c.tree.nodes[children[c.index]]
}

func (c *Cursor) showUnsub() bool {
	return c.tree.showUnsub && c.mask&SubscribedOnly == 0
}
