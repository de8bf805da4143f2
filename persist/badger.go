package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ProtonMail/foldertree/async"
	"github.com/ProtonMail/foldertree/logging"
	"github.com/dgraph-io/badger/v3"
	"github.com/sirupsen/logrus"
)

// BadgerStore keeps values in an encrypted badger database.
type BadgerStore struct {
	db       *badger.DB
	gcExitCh chan struct{}
	wg       sync.WaitGroup
}

func NewBadgerStore(path string, passphrase []byte, panicHandler async.PanicHandler) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).
		WithLogger(logrus.StandardLogger()).
		WithLoggingLevel(badger.ERROR).
		WithEncryptionKey(hash(passphrase)).
		WithIndexCacheSize(128 * 1024 * 1024),
	)
	if err != nil {
		return nil, err
	}

	store := &BadgerStore{
		db:       db,
		gcExitCh: make(chan struct{}),
	}

	store.wg.Add(1)

	logging.GoAnnotated(context.Background(), panicHandler, store.collectGarbage, logging.Labels{
		"Action": "Badger value log GC",
		"Path":   path,
	})

	return store, nil
}

// collectGarbage runs the value log garbage collection, which badger leaves to the caller.
func (b *BadgerStore) collectGarbage(context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for b.db.RunValueLogGC(0.5) == nil {
			}

		case <-b.gcExitCh:
			return
		}
	}
}

func (b *BadgerStore) Load(_ context.Context, key string) ([]byte, error) {
	var data []byte

	if err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)

		return err
	}); errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return data, nil
}

func (b *BadgerStore) Save(_ context.Context, key string, data []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (b *BadgerStore) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *BadgerStore) Close() error {
	close(b.gcExitCh)
	b.wg.Wait()

	return b.db.Close()
}
