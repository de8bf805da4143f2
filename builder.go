package foldertree

import (
	"strings"

	"github.com/ProtonMail/foldertree/directory"
	"github.com/ProtonMail/foldertree/imap"
	"github.com/ProtonMail/foldertree/mboxsort"
	"github.com/ProtonMail/foldertree/reporter"
)

type treeBuilder struct {
	delimiter  string
	prefix     string
	root       string
	mode       Mode
	dotfiles   bool
	initMode   InitMode
	openMode   OpenMode
	childState ChildState
	pinRoot    bool
	labels     LabelDecoder
	expanded   *NameSet
	poll       *NameSet
	subs       *Subscriptions
	reporter   reporter.Reporter
}

func newBuilder() *treeBuilder {
	return &treeBuilder{
		delimiter: "/",
		root:      imap.Inbox,
		mode:      ModeMail,
		initMode:  InitSubscribed,
		openMode:  OpenNone,
		pinRoot:   true,
		labels:    PlainLabels,
		reporter:  &reporter.NullReporter{},
	}
}

func (builder *treeBuilder) build(dir directory.Directory) *Tree {
	root := builder.root

	if builder.mode == ModeNews {
		root = ""
	}

	nsRoot := strings.TrimSuffix(builder.prefix, builder.delimiter)

	if nsRoot == root {
		nsRoot = ""
	}

	tree := &Tree{
		dir:       dir,
		sorter:    mboxsort.New(builder.delimiter, root, builder.pinRoot && root != ""),
		delimiter: builder.delimiter,
		prefix:    builder.prefix,
		nsRoot:    nsRoot,
		root:      root,
		mode:      builder.mode,
		dotfiles:  builder.dotfiles,
		openMode:  builder.openMode,
		childMode: builder.childState,
		labels:    builder.labels,
		reporter:  builder.reporter,
		expanded:  builder.expanded,
		poll:      builder.poll,
		subs:      builder.subs,
	}

	if tree.labels == nil {
		tree.labels = PlainLabels
	}

	if tree.reporter == nil {
		tree.reporter = &reporter.NullReporter{}
	}

	if tree.expanded == nil {
		tree.expanded = NewNameSet()
	}

	if tree.poll == nil {
		tree.poll = NewNameSet()
	}

	if tree.subs == nil {
		tree.subs = NewSubscriptions()
	}

	// The root anchor is always polled and never makes the set dirty.
	if root != "" {
		tree.poll.names[root] = struct{}{}
	}

	tree.reset()

	return tree
}
