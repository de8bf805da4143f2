package foldertree

import (
	"encoding/json"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// NameSet is a set of mailbox names kept beside the tree, such as the expanded or polled mailboxes.
// It tracks whether it was modified since it was last persisted.
type NameSet struct {
	names map[string]struct{}
	dirty bool
}

func NewNameSet(names ...string) *NameSet {
	set := &NameSet{names: make(map[string]struct{}, len(names))}

	for _, name := range names {
		set.names[name] = struct{}{}
	}

	return set
}

func (s *NameSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s *NameSet) Add(name string) {
	if s.Contains(name) {
		return
	}

	s.names[name] = struct{}{}
	s.dirty = true
}

func (s *NameSet) Remove(name string) {
	if !s.Contains(name) {
		return
	}

	delete(s.names, name)
	s.dirty = true
}

func (s *NameSet) Clear() {
	if len(s.names) == 0 {
		return
	}

	s.names = make(map[string]struct{})
	s.dirty = true
}

func (s *NameSet) Len() int {
	return len(s.names)
}

// Names returns the names in the set in byte order.
func (s *NameSet) Names() []string {
	names := maps.Keys(s.names)

	slices.Sort(names)

	return names
}

// Dirty returns true if the set was modified since MarkClean was last called.
func (s *NameSet) Dirty() bool {
	return s.dirty
}

func (s *NameSet) MarkClean() {
	s.dirty = false
}

func (s *NameSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *NameSet) UnmarshalJSON(b []byte) error {
	var names []string

	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}

	*s = *NewNameSet(names...)

	return nil
}
