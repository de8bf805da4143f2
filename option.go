package foldertree

import "github.com/ProtonMail/foldertree/reporter"

// Option represents a type that can be used to configure the tree.
type Option interface {
	config(*treeBuilder)
}

// WithDelimiter instructs the tree to use the given path delimiter instead of the default ('/').
func WithDelimiter(delimiter string) Option {
	return &withDelimiter{
		delimiter: delimiter,
	}
}

type withDelimiter struct {
	delimiter string
}

func (opt withDelimiter) config(builder *treeBuilder) {
	builder.delimiter = opt.delimiter
}

// WithPrefix instructs the tree to list top-level mailboxes below the given namespace prefix (e.g. "Mail/").
// The namespace root itself is never a node of the tree.
func WithPrefix(prefix string) Option {
	return &withPrefix{
		prefix: prefix,
	}
}

type withPrefix struct {
	prefix string
}

func (opt withPrefix) config(builder *treeBuilder) {
	builder.prefix = opt.prefix
}

// WithRootName instructs the tree to use the given name for the root anchor instead of INBOX.
func WithRootName(name string) Option {
	return &withRootName{
		name: name,
	}
}

type withRootName struct {
	name string
}

func (opt withRootName) config(builder *treeBuilder) {
	builder.root = opt.name
}

// WithDotfiles instructs the tree to keep mailboxes whose name starts with a dot.
func WithDotfiles(dotfiles bool) Option {
	return &withDotfiles{
		dotfiles: dotfiles,
	}
}

type withDotfiles struct {
	dotfiles bool
}

func (opt withDotfiles) config(builder *treeBuilder) {
	builder.dotfiles = opt.dotfiles
}

// WithMode sets whether the tree holds mail folders or news groups.
func WithMode(mode Mode) Option {
	return &withMode{
		mode: mode,
	}
}

type withMode struct {
	mode Mode
}

func (opt withMode) config(builder *treeBuilder) {
	builder.mode = opt.mode
}

// WithInitMode sets how the tree is first populated.
func WithInitMode(mode InitMode) Option {
	return &withInitMode{
		mode: mode,
	}
}

type withInitMode struct {
	mode InitMode
}

func (opt withInitMode) config(builder *treeBuilder) {
	builder.initMode = opt.mode
}

// WithOpenMode sets which nodes are opened while the tree is first populated.
func WithOpenMode(mode OpenMode) Option {
	return &withOpenMode{
		mode: mode,
	}
}

type withOpenMode struct {
	mode OpenMode
}

func (opt withOpenMode) config(builder *treeBuilder) {
	builder.openMode = opt.mode
}

// WithChildState sets whether \HasChildren and \HasNoChildren reported by the server are trusted.
func WithChildState(state ChildState) Option {
	return &withChildState{
		state: state,
	}
}

type withChildState struct {
	state ChildState
}

func (opt withChildState) config(builder *treeBuilder) {
	builder.childState = opt.state
}

// WithPinRoot sets whether the root anchor sorts before every other top-level mailbox.
func WithPinRoot(pin bool) Option {
	return &withPinRoot{
		pin: pin,
	}
}

type withPinRoot struct {
	pin bool
}

func (opt withPinRoot) config(builder *treeBuilder) {
	builder.pinRoot = opt.pin
}

// WithLabelDecoder instructs the tree to convert the last path component of every mailbox for display.
func WithLabelDecoder(decoder LabelDecoder) Option {
	return &withLabelDecoder{
		decoder: decoder,
	}
}

type withLabelDecoder struct {
	decoder LabelDecoder
}

func (opt withLabelDecoder) config(builder *treeBuilder) {
	builder.labels = opt.decoder
}

// WithExpandedSet gives the tree the set of mailboxes the user has expanded.
// The tree keeps the set in sync with expand and collapse operations.
func WithExpandedSet(set *NameSet) Option {
	return &withExpandedSet{
		set: set,
	}
}

type withExpandedSet struct {
	set *NameSet
}

func (opt withExpandedSet) config(builder *treeBuilder) {
	builder.expanded = opt.set
}

// WithPollSet gives the tree the set of mailboxes polled for new messages.
func WithPollSet(set *NameSet) Option {
	return &withPollSet{
		set: set,
	}
}

type withPollSet struct {
	set *NameSet
}

func (opt withPollSet) config(builder *treeBuilder) {
	builder.poll = opt.set
}

// WithSubscriptions gives the tree previously loaded subscription lists.
func WithSubscriptions(subs *Subscriptions) Option {
	return &withSubscriptions{
		subs: subs,
	}
}

type withSubscriptions struct {
	subs *Subscriptions
}

func (opt withSubscriptions) config(builder *treeBuilder) {
	builder.subs = opt.subs
}

// WithReporter instructs the tree to report directory queries that failed and were treated as empty.
func WithReporter(reporter reporter.Reporter) Option {
	return &withReporter{
		reporter: reporter,
	}
}

type withReporter struct {
	reporter reporter.Reporter
}

func (opt withReporter) config(builder *treeBuilder) {
	builder.reporter = opt.reporter
}
