// Package mboxsort orders mailbox names hierarchically.
//
// Names are compared component by component, so a parent is always immediately followed by its
// children. Components are compared in natural, case-insensitive order. Optionally, the root anchor
// (usually INBOX) is pinned before every other name.
package mboxsort

import (
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"
)

type Sorter struct {
	delimiter string
	root      string
	pinRoot   bool
	fold      cases.Caser
}

// New returns a sorter for names using the given delimiter. If pinRoot is set, names equal to root
// (compared case-insensitively) sort first.
func New(delimiter, root string, pinRoot bool) *Sorter {
	return &Sorter{
		delimiter: delimiter,
		root:      strings.ToUpper(root),
		pinRoot:   pinRoot && root != "",
		fold:      cases.Fold(),
	}
}

// Compare returns a negative number if a sorts before b, a positive number if it sorts after, and zero
// if the names are identical.
func (s *Sorter) Compare(a, b string) int {
	if a == b {
		return 0
	}

	if s.pinRoot {
		aRoot, bRoot := strings.ToUpper(a) == s.root, strings.ToUpper(b) == s.root

		switch {
		case aRoot && !bRoot:
			return -1

		case bRoot && !aRoot:
			return 1
		}
	}

	aParts, bParts := s.split(a), s.split(b)

	for i := 0; i < len(aParts) && i < len(bParts); i++ {
		if res := s.compareComponent(aParts[i], bParts[i]); res != 0 {
			return res
		}
	}

	if res := len(aParts) - len(bParts); res != 0 {
		return res
	}

	return strings.Compare(a, b)
}

// Less reports whether a sorts before b.
func (s *Sorter) Less(a, b string) bool {
	return s.Compare(a, b) < 0
}

// Sort sorts the names in place.
func (s *Sorter) Sort(names []string) {
	slices.SortStableFunc(names, s.Less)
}

// Deepest sorts the names in place so that the deepest names come first. Siblings keep hierarchical order.
func (s *Sorter) Deepest(names []string) {
	slices.SortStableFunc(names, func(a, b string) bool {
		if da, db := len(s.split(a)), len(s.split(b)); da != db {
			return da > db
		}

		return s.Less(a, b)
	})
}

// Shallowest sorts the names in place so that parents come before their children.
func (s *Sorter) Shallowest(names []string) {
	slices.SortStableFunc(names, func(a, b string) bool {
		if da, db := len(s.split(a)), len(s.split(b)); da != db {
			return da < db
		}

		return s.Less(a, b)
	})
}

func (s *Sorter) split(name string) []string {
	if s.delimiter == "" {
		return []string{name}
	}

	return strings.Split(name, s.delimiter)
}

func (s *Sorter) compareComponent(a, b string) int {
	if res := natural(s.fold.String(a), s.fold.String(b)); res != 0 {
		return res
	}

	return 0
}
