package foldertree

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ProtonMail/foldertree/directory"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const snapshotVersion = 1

type snapshotJSON struct {
	Version          int                 `json:"version"`
	Delimiter        string              `json:"delimiter"`
	Prefix           string              `json:"prefix"`
	Root             string              `json:"root"`
	Mode             Mode                `json:"mode"`
	First            string              `json:"first"`
	ShowUnsubscribed bool                `json:"show_unsubscribed"`
	ChildState       *bool               `json:"child_state,omitempty"`
	Nodes            []snapshotNodeJSON  `json:"nodes"`
	Children         map[string][]string `json:"children"`
}

type snapshotNodeJSON struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Attr  Attr   `json:"attr"`
}

// Snapshot encodes the tree. The expanded set, the poll set and the subscription lists are not included;
// they are saved on their own.
func (t *Tree) Snapshot() ([]byte, error) {
	names := maps.Keys(t.nodes)

	t.sorter.Sort(names)

	snap := snapshotJSON{
		Version:          snapshotVersion,
		Delimiter:        t.delimiter,
		Prefix:           t.prefix,
		Root:             t.root,
		Mode:             t.mode,
		First:            t.first,
		ShowUnsubscribed: t.showUnsub,
		ChildState:       t.childState,
		Nodes:            make([]snapshotNodeJSON, 0, len(names)),
		Children:         t.children,
	}

	for _, name := range names {
		n := t.nodes[name]

		snap.Nodes = append(snap.Nodes, snapshotNodeJSON{Name: n.name, Label: n.label, Attr: n.attr})
	}

	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}

	return b, nil
}

// Restore decodes a tree encoded with Snapshot. The options must describe the same namespace as those the
// tree was built with; a snapshot of another namespace, or one whose nodes are inconsistent, is rejected with
// ErrInvalidSnapshot. The restored tree is unchanged until mutated.
func Restore(dir directory.Directory, data []byte, opts ...Option) (*Tree, error) {
	builder := newBuilder()

	for _, opt := range opts {
		opt.config(builder)
	}

	tree := builder.build(dir)

	var snap snapshotJSON

	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	if err := tree.load(snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	return tree, nil
}

func (t *Tree) load(snap snapshotJSON) error {
	switch {
	case snap.Version != snapshotVersion:
		return fmt.Errorf("unsupported version %v", snap.Version)

	case snap.Delimiter != t.delimiter, snap.Prefix != t.prefix, snap.Root != t.root, snap.Mode != t.mode:
		return errors.New("snapshot of another namespace")
	}

	for _, sn := range snap.Nodes {
		if _, ok := t.nodes[sn.Name]; ok {
			return fmt.Errorf("duplicate node %q", sn.Name)
		}

		if t.hidden(sn.Name) {
			return fmt.Errorf("hidden node %q", sn.Name)
		}

		parent, _ := t.split(sn.Name)

		t.nodes[sn.Name] = &node{
			name:   sn.Name,
			parent: parent,
			label:  sn.Label,
			attr:   sn.Attr.set(AttrPolled, t.isRoot(sn.Name) || t.poll.Contains(sn.Name)),
		}
	}

	listed := make(map[string]struct{}, len(t.nodes))

	for parent, children := range snap.Children {
		if _, ok := t.nodes[parent]; !ok && parent != "" {
			return fmt.Errorf("children of unknown node %q", parent)
		}

		for _, child := range children {
			n, ok := t.nodes[child]
			if !ok || n.parent != parent {
				return fmt.Errorf("node %q is not a child of %q", child, parent)
			}

			if _, ok := listed[child]; ok {
				return fmt.Errorf("node %q is listed twice", child)
			}

			listed[child] = struct{}{}
		}

		if len(children) > 0 {
			t.children[parent] = slices.Clone(children)
		}
	}

	if len(listed) != len(t.nodes) {
		return fmt.Errorf("%v nodes but %v children", len(t.nodes), len(listed))
	}

	if t.root != "" {
		if _, ok := t.nodes[t.root]; !ok {
			return fmt.Errorf("missing root %q", t.root)
		}
	}

	if _, ok := t.nodes[snap.First]; !ok && snap.First != "" {
		return fmt.Errorf("unknown first node %q", snap.First)
	}

	t.first = snap.First
	t.showUnsub = snap.ShowUnsubscribed
	t.childState = snap.ChildState
	t.changed = false

	return nil
}
