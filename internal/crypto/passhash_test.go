package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestRandBytes(t *testing.T) {
	t.Parallel()

	salt, err := RandBytes(argonSaltLen)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	if len(salt) != argonSaltLen {
		t.Fatalf("len=%d, want=%d", len(salt), argonSaltLen)
	}
	other, _ := RandBytes(argonSaltLen)
	if bytes.Equal(salt, other) {
		t.Fatalf("two salts are equal")
	}
	if bytes.Equal(salt, make([]byte, argonSaltLen)) {
		t.Fatalf("salt is all zeros")
	}
}

func TestArgon2Sum(t *testing.T) {
	t.Parallel()

	salt := bytes.Repeat([]byte{7}, argonSaltLen)
	sum := HashPassword([]byte("Applicant#2024"), salt)
	if len(sum) != int(argonKeyLen) {
		t.Fatalf("sum len=%d, want=%d", len(sum), argonKeyLen)
	}

	cases := []struct {
		name     string
		password string
		salt     []byte
		want     bool
	}{
		{"same input", "Applicant#2024", salt, true},
		{"case differs", "applicant#2024", salt, false},
		{"other salt", "Applicant#2024", bytes.Repeat([]byte{8}, argonSaltLen), false},
		{"empty password", "", salt, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := VerifyPassword([]byte(tc.password), tc.salt, sum); got != tc.want {
				t.Fatalf("VerifyPassword=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewHasher_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewHasher("md5", 0); err == nil {
		t.Fatalf("want error for unknown algorithm")
	}
	if _, err := NewHasher(AlgBcrypt, 99); err == nil {
		t.Fatalf("want error for bcrypt cost out of range")
	}
	h, err := NewHasher("", 0)
	if err != nil {
		t.Fatalf("NewHasher default: %v", err)
	}
	if h.alg != AlgBcrypt || h.cost != DefaultBcryptCost {
		t.Fatalf("default hasher = %+v", h)
	}
}

func TestHasher_Bcrypt_HashVerify(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(AlgBcrypt, 4)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	enc, err := h.Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if enc == "Str0ng!Pass" || !strings.HasPrefix(enc, "$2") {
		t.Fatalf("unexpected bcrypt encoding %q", enc)
	}
	if !h.Verify("Str0ng!Pass", enc) {
		t.Fatalf("Verify: expected true for correct password")
	}
	if h.Verify("str0ng!pass", enc) {
		t.Fatalf("Verify: expected false for wrong password")
	}
	if h.Verify("Str0ng!Pass", "garbage") {
		t.Fatalf("Verify: expected false for malformed hash")
	}
}

func TestHasher_Argon2id_HashVerify_AndCrossAlgorithm(t *testing.T) {
	t.Parallel()

	a, err := NewHasher(AlgArgon2id, 0)
	if err != nil {
		t.Fatalf("NewHasher argon2id: %v", err)
	}
	enc, err := a.Hash("p@ssw0rd")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(enc, "$argon2id$v=19$") {
		t.Fatalf("unexpected argon2 encoding %q", enc)
	}
	enc2, _ := a.Hash("p@ssw0rd")
	if enc == enc2 {
		t.Fatalf("salts must differ between hashes")
	}

	// a bcrypt-configured hasher still verifies argon2id hashes
	b, _ := NewHasher(AlgBcrypt, 4)
	if !b.Verify("p@ssw0rd", enc) {
		t.Fatalf("Verify argon2id via bcrypt hasher failed")
	}
	if b.Verify("p@ssw0rd!", enc) {
		t.Fatalf("Verify must fail for wrong password")
	}
	if b.Verify("p@ssw0rd", "$argon2id$v=19$m=1,t=1,p=1$AAAA$AAAA") {
		t.Fatalf("Verify must reject foreign parameters")
	}
}
