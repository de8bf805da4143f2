package foldertree

import (
	"context"
	"strings"

	"github.com/ProtonMail/foldertree/directory"
	"github.com/ProtonMail/foldertree/imap"
	"github.com/ProtonMail/foldertree/mboxsort"
	"github.com/ProtonMail/foldertree/reporter"
	"github.com/bradenaw/juniper/xslices"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Mode is the kind of namespace held by the tree.
type Mode int

const (
	// ModeMail trees hold mail folders and always contain the root anchor (INBOX).
	ModeMail Mode = iota

	// ModeNews trees hold news groups. They have no root anchor and cannot be inserted into.
	ModeNews
)

// InitMode controls how the tree is first populated.
type InitMode int

const (
	InitSubscribed InitMode = 1 << iota

	// InitUnsubscribed starts the tree in the view showing unsubscribed mailboxes.
	InitUnsubscribed

	// InitFetchAll discovers the whole namespace while the tree is built.
	InitFetchAll
)

// OpenMode controls which nodes are opened while the tree is first populated.
type OpenMode int

const (
	OpenNone OpenMode = iota
	OpenAll

	// OpenUser reopens the nodes held in the expanded set.
	OpenUser
)

// ChildState controls whether \HasChildren and \HasNoChildren are trusted.
// Servers without the CHILDREN extension may omit or misreport them.
type ChildState int

const (
	// ChildStateProbe asks the directory once whether the server reports child state.
	ChildStateProbe ChildState = iota
	ChildStateTrusted
	ChildStateUntrusted
)

// Tree is a client-side cache of a server's mailbox namespace.
// It is not safe for concurrent use; a tree is owned by a single request at a time.
type Tree struct {
	dir    directory.Directory
	sorter *mboxsort.Sorter

	delimiter string
	prefix    string
	nsRoot    string
	root      string
	mode      Mode
	dotfiles  bool
	openMode  OpenMode
	childMode ChildState
	labels    LabelDecoder
	reporter  reporter.Reporter

	// nodes holds every known mailbox by name.
	nodes map[string]*node

	// children holds the sorted child names of every node with children; top-level nodes are under "".
	children map[string][]string

	// first is the top-level node a cursor starts from: the first inserted, unless a later one sorts before it.
	first string

	showUnsub bool
	changed   bool

	// initializing is set while the tree is first populated.
	initializing bool
	fetchAll     bool

	// childState caches whether the server reports child state; nil until probed.
	childState *bool

	// viewable caches whether a node has descendants visible in the subscribed-only view.
	viewable map[string]bool

	expanded *NameSet
	poll     *NameSet
	subs     *Subscriptions

	mark map[string]node
}

// New builds a tree of the namespace exposed by the directory.
// Failed directory queries are logged and reported, and leave the tree with fewer nodes.
func New(ctx context.Context, dir directory.Directory, opts ...Option) *Tree {
	builder := newBuilder()

	for _, opt := range opts {
		opt.config(builder)
	}

	tree := builder.build(dir)

	tree.populate(ctx, builder.initMode)

	return tree
}

func (t *Tree) reset() {
	t.nodes = make(map[string]*node)
	t.children = make(map[string][]string)
	t.viewable = make(map[string]bool)
	t.first = ""
}

func (t *Tree) populate(ctx context.Context, mode InitMode) {
	t.reset()

	t.changed = true
	t.showUnsub = mode&InitUnsubscribed != 0
	t.initializing = true
	t.fetchAll = mode&InitFetchAll != 0

	defer func() {
		t.initializing = false
		t.fetchAll = false
	}()

	boxes, _ := t.list(ctx, t.prefix+"%", t.showUnsub)

	if t.mode == ModeMail && !xslices.Any(boxes, func(mbox directory.Mailbox) bool { return t.canon(mbox.Name) == t.root }) {
		mbox, ok := t.get(ctx, t.root)
		if !ok {
			mbox = directory.Mailbox{Name: t.root, Delimiter: t.delimiter}
		}

		boxes = append([]directory.Mailbox{mbox}, boxes...)
	}

	t.addLevel(ctx, boxes)

	logrus.WithField("nodes", len(t.nodes)).Debug("Tree initialized")
}

// Get returns the node with the given name.
func (t *Tree) Get(name string) (Node, bool) {
	n, ok := t.nodes[t.canon(name)]
	if !ok {
		return Node{}, false
	}

	return t.export(n), true
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Children returns the names of the children of the given node, in display order.
// The top-level nodes are the children of "".
func (t *Tree) Children(name string) []string {
	return slices.Clone(t.children[t.canon(name)])
}

func (t *Tree) Delimiter() string {
	return t.delimiter
}

// Root returns the name of the root anchor, or an empty string in news mode.
func (t *Tree) Root() string {
	return t.root
}

// Changed returns true if the tree was modified since it was last saved.
func (t *Tree) Changed() bool {
	return t.changed
}

// MarkSaved clears the changed flag. It is called once the tree has been persisted.
func (t *Tree) MarkSaved() {
	t.changed = false
}

// ShowingUnsubscribed returns true if unsubscribed mailboxes are visible.
func (t *Tree) ShowingUnsubscribed() bool {
	return t.showUnsub
}

// Expanded returns the set of mailboxes the user has expanded.
func (t *Tree) Expanded() *NameSet {
	return t.expanded
}

// Polled returns the set of mailboxes polled for new messages.
func (t *Tree) Polled() *NameSet {
	return t.poll
}

// Subscriptions returns the cached subscription lists.
func (t *Tree) Subscriptions() *Subscriptions {
	return t.subs
}

func (t *Tree) export(n *node) Node {
	return n.export(imap.Level(n.name, t.delimiter))
}

// canon returns the internal form of a name: in mail mode, any case variant of the root anchor is the anchor.
func (t *Tree) canon(name string) string {
	if t.mode != ModeMail {
		return name
	}

	return imap.Canon(name, t.delimiter, t.root)
}

func (t *Tree) canonAll(names []string) []string {
	return xslices.Map(names, t.canon)
}

func (t *Tree) isRoot(name string) bool {
	return t.root != "" && name == t.root
}

// split returns the parent and the label of the given name. Children of the namespace root are top-level.
func (t *Tree) split(name string) (string, string) {
	parent, label := imap.Split(name, t.delimiter)

	if parent == t.nsRoot {
		parent = ""
	}

	return parent, label
}

// superiors returns the names of the nodes above the given name, shallowest first.
func (t *Tree) superiors(name string) []string {
	return xslices.Filter(imap.Superiors(name, t.delimiter), func(superior string) bool {
		return t.nsRoot == "" || (superior != t.nsRoot && !imap.HasAncestor(t.nsRoot, superior, t.delimiter))
	})
}

// hidden returns true if the name may not be part of the tree: it is the namespace root, has an empty
// component, or has a dot-prefixed component while dotfiles are hidden.
func (t *Tree) hidden(name string) bool {
	if name == "" || (t.nsRoot != "" && name == t.nsRoot) {
		return true
	}

	for _, superior := range append(t.superiors(name), name) {
		_, label := t.split(superior)

		if label == "" || (!t.dotfiles && strings.HasPrefix(label, ".")) {
			return true
		}
	}

	return false
}

// makeNode builds a node from a directory entry. It is not yet part of the tree.
func (t *Tree) makeNode(ctx context.Context, mbox directory.Mailbox) *node {
	name := t.canon(mbox.Name)
	parent, label := t.split(name)

	n := &node{
		name:   name,
		parent: parent,
		label:  t.labels(label),
		attr:   attrFromFlags(mbox.Attributes),
	}

	if n.attr.Has(AttrHasChildren) && t.trustsChildState(ctx) {
		n.attr |= AttrChildren
	}

	n.attr = n.attr.set(AttrSubscribed, mbox.Subscribed || t.isRoot(name))
	n.attr = n.attr.set(AttrPolled, t.isRoot(name) || t.poll.Contains(name))

	if t.initializing && t.openAtInit(name) {
		n.attr |= AttrOpen
	}

	return n
}

// insertNode adds the node to the tree, first adding a container for its parent if needed.
// A node replaces an existing container of the same name, keeping the container's local state.
func (t *Tree) insertNode(ctx context.Context, n *node) bool {
	if t.hidden(n.name) {
		return false
	}

	if old, ok := t.nodes[n.name]; ok {
		if !old.container() || n.container() {
			return false
		}

		old.attr = old.attr.withServer(n.attr).set(AttrSubscribed, n.subscribed()) | n.attr&AttrChildren

		t.subs.mark(old.name, old.subscribed())
		t.invalidate(old.name)

		return true
	}

	if n.parent != "" {
		if _, ok := t.nodes[n.parent]; !ok {
			grandparent, label := t.split(n.parent)

			if !t.insertNode(ctx, &node{name: n.parent, parent: grandparent, label: t.labels(label), attr: AttrNoSelect}) {
				return false
			}
		}
	}

	t.nodes[n.name] = n
	t.addChild(n.parent, n.name)

	if n.parent == "" && (t.first == "" || t.sorter.Less(n.name, t.first)) {
		t.first = n.name
	}

	if !n.container() {
		t.subs.mark(n.name, n.subscribed())
	}

	t.invalidate(n.name)

	return true
}

// addLevel merges directory entries into the tree. While the tree is being populated, nodes that are open
// (or every node, when fetching everything) are discovered in turn.
func (t *Tree) addLevel(ctx context.Context, boxes []directory.Mailbox) {
	nodes := xslices.Map(boxes, func(mbox directory.Mailbox) *node {
		return t.makeNode(ctx, mbox)
	})

	slices.SortStableFunc(nodes, func(a, b *node) bool {
		if la, lb := imap.Level(a.name, t.delimiter), imap.Level(b.name, t.delimiter); la != lb {
			return la < lb
		}

		return t.sorter.Less(a.name, b.name)
	})

	for _, n := range nodes {
		if !t.insertNode(ctx, n) {
			continue
		}

		t.changed = true

		if !t.initializing {
			continue
		}

		if n := t.nodes[n.name]; t.fetchAll || n.open() {
			t.discover(ctx, n)

			if !t.rawChildren(ctx, n) {
				n.attr &^= AttrOpen
			}
		}
	}
}

func (t *Tree) addChild(parent, name string) {
	children := t.children[parent]

	idx := len(children)

	for i, child := range children {
		if t.sorter.Less(name, child) {
			idx = i
			break
		}
	}

	t.children[parent] = slices.Insert(children, idx, name)

	if p, ok := t.nodes[parent]; ok {
		p.attr |= AttrChildren
	}
}

func (t *Tree) removeChild(parent, name string) {
	children := t.children[parent]

	if idx := slices.Index(children, name); idx >= 0 {
		children = slices.Delete(children, idx, idx+1)
	}

	if len(children) > 0 {
		t.children[parent] = children
		return
	}

	delete(t.children, parent)

	if p, ok := t.nodes[parent]; ok {
		p.attr &^= AttrChildren
	}
}

// invalidate drops the cached viewable answers of the node and of every node above it.
func (t *Tree) invalidate(name string) {
	for ; name != ""; name, _ = t.split(name) {
		delete(t.viewable, name)
	}
}

func (t *Tree) openAtInit(name string) bool {
	switch t.openMode {
	case OpenAll:
		return true

	case OpenUser:
		return t.expanded.Contains(name)

	default:
		return false
	}
}

func (t *Tree) setOpen(n *node, open bool) {
	n.attr = n.attr.set(AttrOpen, open)

	if t.initializing {
		return
	}

	if open {
		t.expanded.Add(n.name)
	} else {
		t.expanded.Remove(n.name)
	}
}

func (t *Tree) setSubscribed(n *node, subscribed bool) {
	n.attr = n.attr.set(AttrSubscribed, subscribed)

	t.subs.mark(n.name, subscribed)
	t.invalidate(n.name)
}

// trustsChildState returns true if the server's \HasChildren and \HasNoChildren attributes are reliable.
func (t *Tree) trustsChildState(ctx context.Context) bool {
	switch t.childMode {
	case ChildStateTrusted:
		return true

	case ChildStateUntrusted:
		return false
	}

	if t.childState != nil {
		return *t.childState
	}

	var supported bool

	if rep, ok := t.dir.(directory.ChildStateReporter); ok {
		res, err := rep.ReportsChildState(ctx)
		if err != nil {
			t.degraded("probe child state", "", err)
			return false
		}

		supported = res
	}

	t.childState = &supported
	t.changed = true

	return supported
}

func (t *Tree) list(ctx context.Context, pattern string, includeUnsubscribed bool) ([]directory.Mailbox, bool) {
	boxes, err := t.dir.List(ctx, pattern, includeUnsubscribed)
	if err != nil {
		t.degraded("list", pattern, err)
		return nil, false
	}

	logrus.WithField("pattern", pattern).WithField("count", len(boxes)).Debug("Listed mailboxes")

	return boxes, true
}

func (t *Tree) get(ctx context.Context, name string) (directory.Mailbox, bool) {
	mbox, ok, err := t.dir.Get(ctx, name, true)
	if err != nil {
		t.degraded("get", name, err)
		return directory.Mailbox{}, false
	}

	return mbox, ok
}

// degraded records a failed directory query, which is then treated as having returned nothing.
func (t *Tree) degraded(query, pattern string, err error) {
	logrus.WithError(err).WithField("query", query).WithField("pattern", pattern).Warn("Directory query failed")

	if err := t.reporter.ReportMessageWithContext("Directory query failed", reporter.Context{
		"query":   query,
		"pattern": pattern,
		"error":   err.Error(),
	}); err != nil {
		logrus.WithError(err).Error("Failed to report directory failure")
	}
}
