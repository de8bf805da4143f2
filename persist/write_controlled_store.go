package persist

import (
	"context"
	"sync"
	"sync/atomic"
)

type syncRef struct {
	lock    sync.RWMutex
	counter int32
}

// WriteControlledStore lets any number of readers or a single writer access a key at once.
// Locks are kept per key and pooled once no one holds them.
type WriteControlledStore struct {
	impl Store

	lock       sync.Mutex
	entryTable map[string]*syncRef
	lockPool   []*syncRef
}

func NewWriteControlledStore(impl Store) *WriteControlledStore {
	return &WriteControlledStore{
		impl:       impl,
		entryTable: make(map[string]*syncRef),
	}
}

func (w *WriteControlledStore) acquireSyncRef(key string) *syncRef {
	w.lock.Lock()
	defer w.lock.Unlock()

	v, ok := w.entryTable[key]
	if !ok {
		var s *syncRef

		if len(w.lockPool) != 0 {
			s = w.lockPool[0]
			s.counter = 1
			w.lockPool = w.lockPool[1:]
		} else {
			s = &syncRef{counter: 1}
		}

		w.entryTable[key] = s

		return s
	}

	atomic.AddInt32(&v.counter, 1)

	return v
}

func (w *WriteControlledStore) releaseSyncRef(key string, ref *syncRef) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if atomic.AddInt32(&ref.counter, -1) <= 0 {
		delete(w.entryTable, key)
		w.lockPool = append(w.lockPool, ref)
	}
}

func (w *WriteControlledStore) Load(ctx context.Context, key string) ([]byte, error) {
	ref := w.acquireSyncRef(key)
	defer w.releaseSyncRef(key, ref)

	ref.lock.RLock()
	defer ref.lock.RUnlock()

	return w.impl.Load(ctx, key)
}

func (w *WriteControlledStore) Save(ctx context.Context, key string, data []byte) error {
	ref := w.acquireSyncRef(key)
	defer w.releaseSyncRef(key, ref)

	ref.lock.Lock()
	defer ref.lock.Unlock()

	return w.impl.Save(ctx, key, data)
}

func (w *WriteControlledStore) Delete(ctx context.Context, key string) error {
	ref := w.acquireSyncRef(key)
	defer w.releaseSyncRef(key, ref)

	ref.lock.Lock()
	defer ref.lock.Unlock()

	return w.impl.Delete(ctx, key)
}

func (w *WriteControlledStore) Close() error {
	return w.impl.Close()
}
