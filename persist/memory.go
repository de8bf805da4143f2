package persist

import (
	"context"
	"sync"

	"golang.org/x/exp/slices"
)

type inMemoryStore struct {
	data map[string][]byte
	lock sync.RWMutex
}

func NewInMemoryStore() Store {
	return &inMemoryStore{
		data: make(map[string][]byte),
	}
}

func (s *inMemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	data, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}

	return slices.Clone(data), nil
}

func (s *inMemoryStore) Save(_ context.Context, key string, data []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.data[key] = slices.Clone(data)

	return nil
}

func (s *inMemoryStore) Delete(_ context.Context, key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.data, key)

	return nil
}

func (s *inMemoryStore) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.data = make(map[string][]byte)

	return nil
}
