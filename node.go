package foldertree

// Node is a copy of a single entry of the tree.
type Node struct {
	// Name is the full path of the mailbox.
	Name string

	// Label is the display form of the last path component.
	Label string

	// Parent is the full path of the parent node, or empty for a top-level node.
	Parent string

	// Level is the number of delimiters in Name.
	Level int

	Attributes Attr
}

// Container returns true if the node only groups its descendants and cannot be selected.
func (n Node) Container() bool {
	return n.Attributes.Has(AttrNoSelect)
}

func (n Node) Subscribed() bool {
	return n.Attributes.Has(AttrSubscribed)
}

func (n Node) Polled() bool {
	return n.Attributes.Has(AttrPolled)
}

func (n Node) Discovered() bool {
	return n.Attributes.Has(AttrDiscovered)
}

// Open returns true if the node was expanded. Whether its children are shown also depends on the view mode.
func (n Node) Open() bool {
	return n.Attributes.Has(AttrOpen)
}

type node struct {
	name   string
	parent string
	label  string
	attr   Attr
}

func (n *node) export(level int) Node {
	return Node{
		Name:       n.name,
		Label:      n.label,
		Parent:     n.parent,
		Level:      level,
		Attributes: n.attr,
	}
}

func (n *node) container() bool {
	return n.attr.Has(AttrNoSelect)
}

func (n *node) subscribed() bool {
	return n.attr.Has(AttrSubscribed)
}

func (n *node) open() bool {
	return n.attr.Has(AttrOpen)
}

func (n *node) discovered() bool {
	return n.attr.Has(AttrDiscovered)
}
