package persist

import (
	"context"
	"fmt"

	"github.com/ProtonMail/gopenpgp/v2/crypto"
)

// PGPStore encrypts values to a key ring before handing them to another store.
type PGPStore struct {
	Store

	kr *crypto.KeyRing
}

// NewPGPStore wraps the store. The key ring must hold a private key to load values back.
func NewPGPStore(store Store, kr *crypto.KeyRing) *PGPStore {
	return &PGPStore{Store: store, kr: kr}
}

func (s *PGPStore) Load(ctx context.Context, key string) ([]byte, error) {
	enc, err := s.Store.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	dec, err := s.kr.Decrypt(crypto.NewPGPMessage(enc), nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %q: %w", key, err)
	}

	return dec.GetBinary(), nil
}

func (s *PGPStore) Save(ctx context.Context, key string, data []byte) error {
	enc, err := s.kr.Encrypt(crypto.NewPlainMessage(data), nil)
	if err != nil {
		return fmt.Errorf("failed to encrypt %q: %w", key, err)
	}

	return s.Store.Save(ctx, key, enc.GetBinary())
}
