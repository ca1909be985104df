// Package crypto implements password hashing and verification.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Supported hash algorithms.
const (
	AlgBcrypt   = "bcrypt"
	AlgArgon2id = "argon2id"
)

// DefaultBcryptCost matches the salt rounds the store was seeded with.
const DefaultBcryptCost = 10

// Argon2id parameters.
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16
)

var errMalformedHash = errors.New("malformed password hash")

// ErrPasswordTooLong is returned by bcrypt hashing for passwords over 72 bytes.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// Hasher hashes new passwords and verifies stored hashes.
type Hasher struct {
	alg  string
	cost int
}

// NewHasher returns a hasher producing hashes with alg. cost only applies to bcrypt.
func NewHasher(alg string, cost int) (*Hasher, error) {
	switch alg {
	case "", AlgBcrypt:
		if cost == 0 {
			cost = DefaultBcryptCost
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
		}
		return &Hasher{alg: AlgBcrypt, cost: cost}, nil
	case AlgArgon2id:
		return &Hasher{alg: AlgArgon2id}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", alg)
	}
}

// Alg returns the algorithm used for new hashes.
func (h *Hasher) Alg() string { return h.alg }

// Hash returns an encoded hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	if h.alg == AlgArgon2id {
		salt, err := RandBytes(argonSaltLen)
		if err != nil {
			return "", err
		}
		return encodeArgon2(salt, HashPassword([]byte(password), salt)), nil
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches encoded. The algorithm is taken
// from the hash itself so stores with mixed hashes keep working.
func (h *Hasher) Verify(password, encoded string) bool {
	if strings.HasPrefix(encoded, "$argon2id$") {
		salt, sum, err := decodeArgon2(encoded)
		if err != nil {
			return false
		}
		return VerifyPassword([]byte(password), salt, sum)
	}
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

// HashPassword returns Argon2id hash of password using the provided salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword verifies password against expected Argon2id hash and salt.
func VerifyPassword(password, salt, expected []byte) bool {
	got := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}

// encodeArgon2 renders the PHC string form: $argon2id$v=19$m=..,t=..,p=..$salt$hash.
func encodeArgon2(salt, sum []byte) string {
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads, b64.EncodeToString(salt), b64.EncodeToString(sum))
}

func decodeArgon2(encoded string) (salt, sum []byte, err error) {
	parts := strings.Split(encoded, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	if len(parts) != 6 {
		return nil, nil, errMalformedHash
	}
	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return nil, nil, errMalformedHash
	}
	if m != argonMemory || t != argonTime || p != argonThreads {
		return nil, nil, errMalformedHash
	}
	b64 := base64.RawStdEncoding
	if salt, err = b64.DecodeString(parts[4]); err != nil {
		return nil, nil, errMalformedHash
	}
	if sum, err = b64.DecodeString(parts[5]); err != nil {
		return nil, nil, errMalformedHash
	}
	return salt, sum, nil
}
