package foldertree

import "golang.org/x/exp/maps"

// Diff lists the nodes that changed since DiffStart was called.
type Diff struct {
	Added   []string
	Changed []string
	Deleted []string
}

// Empty returns true if no node changed.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Deleted) == 0
}

// DiffStart records the current state of every node, to be compared later by Diff.
func (t *Tree) DiffStart() {
	t.mark = make(map[string]node, len(t.nodes))

	for name, n := range t.nodes {
		t.mark[name] = *n
	}
}

// Diff returns the nodes added, changed or deleted since DiffStart and ends the comparison.
// It returns false if DiffStart was not called or nothing changed.
func (t *Tree) Diff() (Diff, bool) {
	if t.mark == nil {
		return Diff{}, false
	}

	defer func() { t.mark = nil }()

	var diff Diff

	for name, n := range t.nodes {
		old, ok := t.mark[name]

		switch {
		case !ok:
			diff.Added = append(diff.Added, name)

		case old != *n:
			diff.Changed = append(diff.Changed, name)
		}
	}

	for _, name := range maps.Keys(t.mark) {
		if _, ok := t.nodes[name]; !ok {
			diff.Deleted = append(diff.Deleted, name)
		}
	}

	if diff.Empty() {
		return Diff{}, false
	}

	t.sorter.Sort(diff.Added)
	t.sorter.Sort(diff.Changed)
	t.sorter.Sort(diff.Deleted)

	return diff, true
}
