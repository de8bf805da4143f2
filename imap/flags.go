package imap

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// FlagSet represents a set of mailbox attributes. Attributes are case-insensitive and no duplicates are allowed.
// The case used when an attribute was first added is preserved.
type FlagSet map[string]string

// NewFlagSet creates a flag set containing the specified attributes.
func NewFlagSet(flags ...string) FlagSet {
	fs := make(FlagSet, len(flags))

	for _, flag := range flags {
		fs.add(flag)
	}

	return fs
}

// Len returns the number of attributes in the set.
func (fs FlagSet) Len() int {
	return len(fs)
}

// ToSlice returns the attributes in the set as a sorted slice.
func (fs FlagSet) ToSlice() []string {
	flags := maps.Values(fs)

	slices.Sort(flags)

	return flags
}

// Contains returns true if and only if the attribute is in the set.
func (fs FlagSet) Contains(flag string) bool {
	_, ok := fs[strings.ToLower(flag)]
	return ok
}

// ContainsAny returns true if any of the attributes are in the set.
func (fs FlagSet) ContainsAny(flags ...string) bool {
	for _, flag := range flags {
		if fs.Contains(flag) {
			return true
		}
	}

	return false
}

// Add returns a copy of the set with the given attributes added.
func (fs FlagSet) Add(flags ...string) FlagSet {
	return fs.clone().add(flags...)
}

// Remove returns a copy of the set with the given attributes removed.
func (fs FlagSet) Remove(flags ...string) FlagSet {
	clone := fs.clone()

	for _, flag := range flags {
		delete(clone, strings.ToLower(flag))
	}

	return clone
}

func (fs FlagSet) add(flags ...string) FlagSet {
	for _, flag := range flags {
		key := strings.ToLower(flag)

		if _, ok := fs[key]; !ok {
			fs[key] = flag
		}
	}

	return fs
}

func (fs FlagSet) clone() FlagSet {
	clone := make(FlagSet, len(fs))

	for k, v := range fs {
		clone[k] = v
	}

	return clone
}
