// Package securestore wraps a storage backend with symmetric encryption.
//
// Every value is JSON-encoded, sealed with a key derived from a static
// application secret and persisted under its key. The storage key is bound as
// associated data, so a ciphertext copied under another key does not open.
//
// The secret ships with the client. This is obfuscation for a trusted local
// profile, not a security boundary.
//
// All operations are fail-soft: backend, cipher and codec failures are logged
// and reported as a false/absent result instead of an error.
package securestore

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/and161185/jobboard/internal/crypto/clientcrypto"
	"github.com/and161185/jobboard/internal/storage"
)

// Store is the encrypted key-value store used for all auth-related state.
type Store struct {
	backend storage.Backend
	key     []byte
	log     *zap.Logger
}

// New derives the store key from secret.
func New(backend storage.Backend, secret []byte, log *zap.Logger) (*Store, error) {
	key, err := clientcrypto.DeriveStoreKey(secret)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: backend, key: key, log: log.Named("securestore")}, nil
}

// Set serializes, encrypts and persists value under key. It reports whether the value was written.
func (s *Store) Set(ctx context.Context, key string, value any) bool {
	plain, err := json.Marshal(value)
	if err != nil {
		s.log.Error("encode value", zap.String("key", key), zap.Error(err))
		return false
	}
	blob, err := clientcrypto.Seal(s.key, []byte(key), plain)
	if err != nil {
		s.log.Error("encrypt value", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.backend.Set(ctx, key, blob); err != nil {
		s.log.Error("store value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Get loads key into dst. It returns false when the key is missing, corrupt or undecryptable.
func (s *Store) Get(ctx context.Context, key string, dst any) bool {
	blob, err := s.backend.Get(ctx, key)
	if err != nil {
		s.log.Error("load value", zap.String("key", key), zap.Error(err))
		return false
	}
	if blob == nil {
		return false
	}
	plain, err := clientcrypto.Open(s.key, []byte(key), blob)
	if err != nil {
		s.log.Warn("decrypt value", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(plain, dst); err != nil {
		s.log.Warn("decode value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.log.Error("remove value", zap.String("key", key), zap.Error(err))
	}
}

// Clear deletes every entry of the backend.
func (s *Store) Clear(ctx context.Context) {
	if err := s.backend.Clear(ctx); err != nil {
		s.log.Error("clear store", zap.Error(err))
	}
}

// Keys lists stored keys with the given prefix; nil on failure.
func (s *Store) Keys(ctx context.Context, prefix string) []string {
	keys, err := s.backend.Keys(ctx, prefix)
	if err != nil {
		s.log.Error("list keys", zap.String("prefix", prefix), zap.Error(err))
		return nil
	}
	return keys
}
