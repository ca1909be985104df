package clientcrypto

import (
	"bytes"
	"crypto/subtle"
	"testing"
)

func TestSeal_FreshNonce(t *testing.T) {
	t.Parallel()
	key := bytes.Repeat([]byte{1}, KeyLen)
	a, err := Seal(key, []byte("user:1"), []byte("payload"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	b, _ := Seal(key, []byte("user:1"), []byte("payload"))
	if bytes.Equal(a[:24], b[:24]) {
		t.Fatalf("nonce reused between Seal calls")
	}
}

func TestDeriveKeys_DeterministicAndSeparated(t *testing.T) {
	t.Parallel()
	secret := []byte("your-secret-key-change-in-production")

	k1, err := DeriveStoreKey(secret)
	if err != nil {
		t.Fatalf("DeriveStoreKey: %v", err)
	}
	k2, _ := DeriveStoreKey(secret)
	if len(k1) != KeyLen || subtle.ConstantTimeCompare(k1, k2) != 1 {
		t.Fatalf("DeriveStoreKey not deterministic")
	}
	other, _ := DeriveStoreKey([]byte("another secret"))
	if subtle.ConstantTimeCompare(k1, other) != 0 {
		t.Fatalf("DeriveStoreKey must change with secret")
	}
	sk, _ := DeriveSessionKey(secret)
	if subtle.ConstantTimeCompare(k1, sk) != 0 {
		t.Fatalf("store and session keys must differ")
	}
}

func TestSealOpen_Roundtrip(t *testing.T) {
	t.Parallel()
	key, _ := DeriveStoreKey([]byte("s"))
	aad := []byte("users")
	pt := []byte(`[{"id":"1","email":"ann@example.com"}]`)

	blob, err := Seal(key, aad, pt)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Contains(blob, pt) {
		t.Fatalf("ciphertext must not contain plaintext")
	}
	got, err := Open(key, aad, blob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, pt) {
		t.Fatalf("roundtrip mismatch")
	}

	blob2, _ := Seal(key, aad, pt)
	if bytes.Equal(blob, blob2) {
		t.Fatalf("nonces must differ between seals")
	}
}

func TestOpen_RejectsTamperAADAndShort(t *testing.T) {
	t.Parallel()
	key, _ := DeriveStoreKey([]byte("s"))
	blob, _ := Seal(key, []byte("currentUser"), []byte("payload"))

	if _, err := Open(key, []byte("users"), blob); err == nil {
		t.Fatalf("expected error on aad mismatch")
	}

	bad := append([]byte(nil), blob...)
	bad[len(bad)-1] ^= 0xff
	if _, err := Open(key, []byte("currentUser"), bad); err == nil {
		t.Fatalf("expected error on tampered ciphertext")
	}

	other, _ := DeriveStoreKey([]byte("other"))
	if _, err := Open(other, []byte("currentUser"), blob); err == nil {
		t.Fatalf("expected error on wrong key")
	}

	if _, err := Open(key, nil, []byte{1, 2, 3}); err != ErrShortBlob {
		t.Fatalf("want ErrShortBlob, got %v", err)
	}
}
