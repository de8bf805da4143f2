// Package session checks trees out of a persist.Store for the length of a request and writes them back.
//
// A session is identified by a key. At most one handle per key is open at a time; opening a key that is
// checked out waits until the handle is closed.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ProtonMail/foldertree"
	"github.com/ProtonMail/foldertree/directory"
	"github.com/ProtonMail/foldertree/persist"
	"github.com/ProtonMail/foldertree/reporter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DirectoryFactory returns the directory of the session with the given key.
type DirectoryFactory func(ctx context.Context, key string) (directory.Directory, error)

const (
	treeSuffix          = "/tree"
	expandedSuffix      = "/expanded"
	pollSuffix          = "/poll"
	subscriptionsSuffix = "/subscriptions"
)

var suffixes = []string{treeSuffix, expandedSuffix, pollSuffix, subscriptionsSuffix}

type Manager struct {
	store    persist.Store
	dirs     DirectoryFactory
	opts     []foldertree.Option
	reporter reporter.Reporter

	locks     map[string]*keyLock
	locksLock sync.Mutex

	loads singleflight.Group
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func NewManager(store persist.Store, dirs DirectoryFactory, opts ...Option) *Manager {
	manager := &Manager{
		store:    store,
		dirs:     dirs,
		reporter: &reporter.NullReporter{},
		locks:    make(map[string]*keyLock),
	}

	for _, opt := range opts {
		opt.config(manager)
	}

	return manager
}

// Open checks out the session's tree. The tree is restored from the store if a usable snapshot exists and
// is built from the directory otherwise.
func (m *Manager) Open(ctx context.Context, key string) (*Handle, error) {
	unlock, err := m.lockKey(ctx, key)
	if err != nil {
		return nil, err
	}

	handle, err := m.open(ctx, key)
	if err != nil {
		unlock()
		return nil, err
	}

	handle.unlock = unlock

	return handle, nil
}

// View builds a detached copy of the session's tree without checking it out. It is never written back.
func (m *Manager) View(ctx context.Context, key string) (*foldertree.Tree, error) {
	handle, err := m.open(ctx, key)
	if err != nil {
		return nil, err
	}

	return handle.tree, nil
}

// Forget deletes everything stored for the session.
func (m *Manager) Forget(ctx context.Context, key string) error {
	unlock, err := m.lockKey(ctx, key)
	if err != nil {
		return err
	}

	defer unlock()

	group, ctx := errgroup.WithContext(ctx)

	for _, suffix := range suffixes {
		suffix := suffix

		group.Go(func() error {
			return m.store.Delete(ctx, key+suffix)
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("failed to forget session: %w", err)
	}

	logrus.WithField("key", key).Debug("Session forgotten")

	return nil
}

func (m *Manager) open(ctx context.Context, key string) (*Handle, error) {
	id := uuid.NewString()

	log := logrus.WithField("session", id).WithField("key", key)

	blobs, err := m.load(ctx, key)
	if err != nil {
		return nil, err
	}

	dir, err := m.dirs(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get directory: %w", err)
	}

	expanded, poll, subs := foldertree.NewNameSet(), foldertree.NewNameSet(), foldertree.NewSubscriptions()

	if b := blobs[expandedSuffix]; b != nil {
		if err := json.Unmarshal(b, expanded); err != nil {
			log.WithError(err).Warn("Discarding expanded set")
		}
	}

	if b := blobs[pollSuffix]; b != nil {
		if err := json.Unmarshal(b, poll); err != nil {
			log.WithError(err).Warn("Discarding poll set")
		}
	}

	if b := blobs[subscriptionsSuffix]; b != nil {
		if decoded, err := foldertree.DecodeSubscriptions(b); err != nil {
			log.WithError(err).Warn("Discarding subscriptions")
		} else {
			subs = decoded
		}
	}

	opts := append(m.opts[:len(m.opts):len(m.opts)],
		foldertree.WithExpandedSet(expanded),
		foldertree.WithPollSet(poll),
		foldertree.WithSubscriptions(subs),
		foldertree.WithReporter(m.reporter),
	)

	var tree *foldertree.Tree

	if b := blobs[treeSuffix]; b != nil {
		if tree, err = foldertree.Restore(dir, b, opts...); foldertree.IsInvalidSnapshot(err) {
			log.WithError(err).Warn("Discarding snapshot")
		} else if err != nil {
			return nil, err
		}
	}

	if tree == nil {
		tree = foldertree.New(ctx, dir, opts...)
	}

	log.WithField("nodes", tree.Len()).WithField("restored", !tree.Changed()).Debug("Session opened")

	return &Handle{
		id:      id,
		key:     key,
		tree:    tree,
		manager: m,
	}, nil
}

// load reads every value of the session. Concurrent loads of the same key share one read.
func (m *Manager) load(ctx context.Context, key string) (map[string][]byte, error) {
	res, err, _ := m.loads.Do(key, func() (any, error) {
		var (
			blobs = make(map[string][]byte, len(suffixes))
			lock  sync.Mutex
		)

		group, ctx := errgroup.WithContext(ctx)

		for _, suffix := range suffixes {
			suffix := suffix

			group.Go(func() error {
				b, err := m.store.Load(ctx, key+suffix)
				if persist.IsNotFound(err) {
					return nil
				} else if err != nil {
					return fmt.Errorf("failed to load %q: %w", key+suffix, err)
				}

				lock.Lock()
				defer lock.Unlock()

				blobs[suffix] = b

				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return nil, err
		}

		return blobs, nil
	})
	if err != nil {
		return nil, err
	}

	return res.(map[string][]byte), nil //nolint:forcetypeassert
}

func (m *Manager) lockKey(ctx context.Context, key string) (func(), error) {
	m.locksLock.Lock()

	l, ok := m.locks[key]
	if !ok {
		l = &keyLock{ch: make(chan struct{}, 1)}
		m.locks[key] = l
	}

	l.refs++

	m.locksLock.Unlock()

	select {
	case l.ch <- struct{}{}:
		var once sync.Once

		return func() {
			once.Do(func() {
				<-l.ch
				m.releaseKey(key, l)
			})
		}, nil

	case <-ctx.Done():
		m.releaseKey(key, l)
		return nil, ctx.Err()
	}
}

func (m *Manager) releaseKey(key string, l *keyLock) {
	m.locksLock.Lock()
	defer m.locksLock.Unlock()

	if l.refs--; l.refs == 0 {
		delete(m.locks, key)
	}
}
