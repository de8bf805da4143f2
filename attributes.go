package foldertree

import (
	"strings"

	"github.com/ProtonMail/foldertree/imap"
)

// Attr is the attribute bit set of a node. The low bits mirror attributes reported by the server and are
// replaced whenever the server is queried again; the high bits are owned by the tree.
type Attr uint16

const (
	AttrNoInferiors Attr = 1 << iota
	AttrNoSelect
	AttrMarked
	AttrUnmarked
	AttrHasChildren
	AttrHasNoChildren

	// AttrChildren is set while the node is known to have children: at least one is in the tree, or a
	// trusted server reported \HasChildren.
	AttrChildren
	AttrOpen
	AttrSubscribed
	AttrDiscovered
	AttrPolled
)

const serverAttrs = AttrNoInferiors | AttrNoSelect | AttrMarked | AttrUnmarked | AttrHasChildren | AttrHasNoChildren

var attrNames = []struct {
	attr Attr
	name string
}{
	{AttrNoInferiors, "noinferiors"},
	{AttrNoSelect, "noselect"},
	{AttrMarked, "marked"},
	{AttrUnmarked, "unmarked"},
	{AttrHasChildren, "haschildren"},
	{AttrHasNoChildren, "hasnochildren"},
	{AttrChildren, "children"},
	{AttrOpen, "open"},
	{AttrSubscribed, "subscribed"},
	{AttrDiscovered, "discovered"},
	{AttrPolled, "polled"},
}

// Has returns true if all the given bits are set.
func (a Attr) Has(bits Attr) bool {
	return a&bits == bits
}

// Server returns only the bits mirrored from the server.
func (a Attr) Server() Attr {
	return a & serverAttrs
}

// Local returns only the bits owned by the tree.
func (a Attr) Local() Attr {
	return a &^ serverAttrs
}

func (a Attr) String() string {
	var names []string

	for _, n := range attrNames {
		if a.Has(n.attr) {
			names = append(names, n.name)
		}
	}

	return strings.Join(names, "|")
}

func (a Attr) set(bits Attr, on bool) Attr {
	if on {
		return a | bits
	}

	return a &^ bits
}

// withServer replaces the server bits, keeping local state.
func (a Attr) withServer(server Attr) Attr {
	return a.Local() | server.Server()
}

func attrFromFlags(flags imap.FlagSet) Attr {
	var attr Attr

	if flags.Contains(imap.AttrNoInferiors) {
		attr |= AttrNoInferiors
	}

	if flags.Contains(imap.AttrNoSelect) {
		attr |= AttrNoSelect
	}

	if flags.Contains(imap.AttrMarked) {
		attr |= AttrMarked
	}

	if flags.Contains(imap.AttrUnmarked) {
		attr |= AttrUnmarked
	}

	if flags.Contains(imap.AttrHasChildren) {
		attr |= AttrHasChildren
	}

	if flags.Contains(imap.AttrHasNoChildren) {
		attr |= AttrHasNoChildren
	}

	return attr
}
