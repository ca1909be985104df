// Package clientcrypto contains client-side primitives for sealing values kept in local storage.
package clientcrypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	KeyLen = chacha20poly1305.KeySize

	storeKeyInfo   = "jobboard/securestore/v1"
	sessionKeyInfo = "jobboard/session-token/v1"
)

// ErrShortBlob is returned when a blob cannot even hold the nonce.
var ErrShortBlob = errors.New("blob too short")

func newNonce() ([]byte, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}

// DeriveStoreKey derives the store encryption key from the application secret via HKDF-SHA256.
// The secret ships with the client, so the result obfuscates rather than protects.
func DeriveStoreKey(secret []byte) ([]byte, error) {
	return derive(secret, storeKeyInfo)
}

// DeriveSessionKey derives the session token signing key from the same secret.
func DeriveSessionKey(secret []byte) ([]byte, error) {
	return derive(secret, sessionKeyInfo)
}

func derive(secret []byte, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, nil, []byte(info))
	key := make([]byte, KeyLen)
	_, err := r.Read(key)
	return key, err
}

// Seal encrypts plaintext with XChaCha20-Poly1305, random nonce prefixed, aad bound.
func Seal(key, aad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce, err := newNonce()
	if err != nil {
		return nil, err
	}
	// output is nonce || ciphertext, sealing appends in place after the nonce
	return aead.Seal(nonce, nonce, plaintext, aad), nil
}

// Open decrypts a blob produced by Seal with the same aad.
func Open(key, aad, blob []byte) ([]byte, error) {
	if len(blob) < chacha20poly1305.NonceSizeX {
		return nil, ErrShortBlob
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	n := aead.NonceSize()
	return aead.Open(nil, blob[:n], blob[n:], aad)
}
