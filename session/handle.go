package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ProtonMail/foldertree"
	"github.com/ProtonMail/foldertree/reporter"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrClosed = errors.New("session is closed")

// Handle is a checked out tree. It must be closed to let other requests open the session.
type Handle struct {
	id      string
	key     string
	tree    *foldertree.Tree
	manager *Manager

	unlock func()
	closed bool
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) Tree() *foldertree.Tree {
	return h.tree
}

// Flush writes the tree and whichever of its sets changed since the last flush.
// On failure the tree stays marked as changed so that the flush can be retried.
func (h *Handle) Flush(ctx context.Context) error {
	if h.closed {
		return ErrClosed
	}

	type write struct {
		suffix string
		encode func() ([]byte, error)
		saved  func()
	}

	var writes []write

	if h.tree.Changed() {
		writes = append(writes, write{treeSuffix, h.tree.Snapshot, h.tree.MarkSaved})
	}

	if set := h.tree.Expanded(); set.Dirty() {
		writes = append(writes, write{expandedSuffix, func() ([]byte, error) { return json.Marshal(set) }, set.MarkClean})
	}

	if set := h.tree.Polled(); set.Dirty() {
		writes = append(writes, write{pollSuffix, func() ([]byte, error) { return json.Marshal(set) }, set.MarkClean})
	}

	if subs := h.tree.Subscriptions(); subs.Dirty() {
		writes = append(writes, write{subscriptionsSuffix, subs.Encode, subs.MarkClean})
	}

	if len(writes) == 0 {
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)

	for _, w := range writes {
		b, err := w.encode()
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", h.key+w.suffix, err)
		}

		key := h.key + w.suffix

		group.Go(func() error {
			return h.manager.store.Save(groupCtx, key, b)
		})
	}

	if err := group.Wait(); err != nil {
		if rerr := h.manager.reporter.ReportExceptionWithContext(err, reporter.Context{
			"session": h.id,
			"key":     h.key,
		}); rerr != nil {
			logrus.WithError(rerr).Error("Failed to report flush failure")
		}

		return fmt.Errorf("failed to flush session: %w", err)
	}

	for _, w := range writes {
		w.saved()
	}

	logrus.WithField("session", h.id).WithField("writes", len(writes)).Debug("Session flushed")

	return nil
}

// Close flushes the tree and checks the session back in. The session is released even if the flush fails.
func (h *Handle) Close(ctx context.Context) error {
	if h.closed {
		return nil
	}

	defer func() {
		h.closed = true

		if h.unlock != nil {
			h.unlock()
		}
	}()

	return h.Flush(ctx)
}
