package foldertree

import (
	"encoding/json"
	"fmt"
)

// Subscriptions caches the names of subscribed and unsubscribed mailboxes below the namespace prefix.
// Either list is fetched from the directory the first time it is needed and is then kept in sync by the
// tree's mutations.
type Subscriptions struct {
	subscribed   *NameSet
	unsubscribed *NameSet
}

func NewSubscriptions() *Subscriptions {
	return &Subscriptions{}
}

// DecodeSubscriptions restores subscriptions encoded with Encode.
func DecodeSubscriptions(b []byte) (*Subscriptions, error) {
	var enc subscriptionsJSON

	if err := json.Unmarshal(b, &enc); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}

	return &Subscriptions{subscribed: enc.Subscribed, unsubscribed: enc.Unsubscribed}, nil
}

func (s *Subscriptions) Encode() ([]byte, error) {
	return json.Marshal(subscriptionsJSON{Subscribed: s.subscribed, Unsubscribed: s.unsubscribed})
}

// Subscribed returns the cached subscribed names and whether they were loaded.
func (s *Subscriptions) Subscribed() ([]string, bool) {
	if s.subscribed == nil {
		return nil, false
	}

	return s.subscribed.Names(), true
}

// Unsubscribed returns the cached unsubscribed names and whether they were loaded.
func (s *Subscriptions) Unsubscribed() ([]string, bool) {
	if s.unsubscribed == nil {
		return nil, false
	}

	return s.unsubscribed.Names(), true
}

func (s *Subscriptions) Dirty() bool {
	return (s.subscribed != nil && s.subscribed.Dirty()) || (s.unsubscribed != nil && s.unsubscribed.Dirty())
}

func (s *Subscriptions) MarkClean() {
	if s.subscribed != nil {
		s.subscribed.MarkClean()
	}

	if s.unsubscribed != nil {
		s.unsubscribed.MarkClean()
	}
}

func (s *Subscriptions) loaded(unsubscribed bool) bool {
	if unsubscribed {
		return s.unsubscribed != nil
	}

	return s.subscribed != nil
}

func (s *Subscriptions) setSubscribed(names []string) {
	s.subscribed = NewNameSet(names...)
	s.subscribed.dirty = true
}

func (s *Subscriptions) setUnsubscribed(names []string) {
	s.unsubscribed = NewNameSet(names...)
	s.unsubscribed.dirty = true
}

// mark records the subscription state of a mailbox in whichever lists are loaded.
func (s *Subscriptions) mark(name string, subscribed bool) {
	if s.subscribed != nil {
		if subscribed {
			s.subscribed.Add(name)
		} else {
			s.subscribed.Remove(name)
		}
	}

	if s.unsubscribed != nil {
		if subscribed {
			s.unsubscribed.Remove(name)
		} else {
			s.unsubscribed.Add(name)
		}
	}
}

func (s *Subscriptions) forget(name string) {
	if s.subscribed != nil {
		s.subscribed.Remove(name)
	}

	if s.unsubscribed != nil {
		s.unsubscribed.Remove(name)
	}
}

type subscriptionsJSON struct {
	Subscribed   *NameSet `json:"subscribed,omitempty"`
	Unsubscribed *NameSet `json:"unsubscribed,omitempty"`
}
