package persist

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type onDiskStore struct {
	path string
	gcm  cipher.AEAD
	cmp  Compressor
	sem  *Semaphore
}

// Option configures an on-disk snapshot store.
type Option func(*onDiskStore)

// WithCompressor compresses snapshots before they are encrypted.
func WithCompressor(cmp Compressor) Option {
	return func(store *onDiskStore) {
		store.cmp = cmp
	}
}

// WithSemaphore bounds the number of snapshot files accessed at once.
func WithSemaphore(sem *Semaphore) Option {
	return func(store *onDiskStore) {
		store.sem = sem
	}
}

// NewOnDiskStore returns a store that keeps each value in its own file below path,
// encrypted with a key derived from pass.
func NewOnDiskStore(path string, pass []byte, opt ...Option) (Store, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, err
	}

	aes, err := aes.NewCipher(hash(pass))
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(aes)
	if err != nil {
		return nil, err
	}

	store := &onDiskStore{
		path: path,
		gcm:  gcm,
	}

	for _, opt := range opt {
		opt(store)
	}

	return store, nil
}

func (c *onDiskStore) Load(ctx context.Context, key string) ([]byte, error) {
	if c.sem != nil {
		if err := c.sem.Lock(ctx); err != nil {
			return nil, err
		}

		defer c.sem.Unlock()
	}

	enc, err := os.ReadFile(c.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if len(enc) < c.gcm.NonceSize() {
		return nil, fmt.Errorf("truncated value for %q", key)
	}

	b, err := c.gcm.Open(nil, enc[:c.gcm.NonceSize()], enc[c.gcm.NonceSize():], []byte(key))
	if err != nil {
		return nil, err
	}

	if c.cmp != nil {
		dec, err := c.cmp.Decompress(b)
		if err != nil {
			return nil, err
		}

		b = dec
	}

	return b, nil
}

func (c *onDiskStore) Save(ctx context.Context, key string, b []byte) error {
	if c.sem != nil {
		if err := c.sem.Lock(ctx); err != nil {
			return err
		}

		defer c.sem.Unlock()
	}

	nonce := make([]byte, c.gcm.NonceSize())

	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	if c.cmp != nil {
		enc, err := c.cmp.Compress(b)
		if err != nil {
			return err
		}

		b = enc
	}

	tmp, err := os.CreateTemp(c.path, ".save-*")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(c.gcm.Seal(nonce, nonce, b, []byte(key))); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), c.file(key))
}

func (c *onDiskStore) Delete(ctx context.Context, key string) error {
	if c.sem != nil {
		if err := c.sem.Lock(ctx); err != nil {
			return err
		}

		defer c.sem.Unlock()
	}

	return os.RemoveAll(c.file(key))
}

func (c *onDiskStore) Close() error {
	if c.sem != nil {
		c.sem.Block()
		defer c.sem.Unblock()
	}

	return nil
}

func (c *onDiskStore) file(key string) string {
	return filepath.Join(c.path, hashKey(key))
}
