package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Cost 4 is the bcrypt minimum — tests run in milliseconds instead of
// ~250ms per hash.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(bcrypt.MinCost)
}

func TestHash_ReturnsNonEmptyHash(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("my-secret-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "" {
		t.Error("Hash() returned empty string")
	}
	if hash == "my-secret-password" {
		t.Error("Hash() returned the plaintext")
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	// bcrypt salts each hash, so two hashes of the same password differ.
	hash1, _ := ps.Hash("same-password")
	hash2, _ := ps.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password (salt must be random)")
	}
}

func TestHash_RejectsPasswordOver72Bytes(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("a", 73)); err == nil {
		t.Fatal("Hash() should return an error for passwords longer than 72 bytes")
	}
}

func TestVerify_CorrectPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() error = %v, want nil for matching password", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, _ := ps.Hash("right password")

	if err := ps.Verify(hash, "wrong password"); err == nil {
		t.Error("Verify() should return an error for a non-matching password")
	}
}

func TestVerify_HashedAtHigherCostStillVerifies(t *testing.T) {
	// The cost parameter is embedded in the digest, so digests hashed at
	// one cost verify under a service configured with another.
	high := NewPasswordServiceForTest(6)
	low := newTestPasswordService()

	hash, err := high.Hash("portable-digest")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := low.Verify(hash, "portable-digest"); err != nil {
		t.Errorf("Verify() error = %v, want nil across cost settings", err)
	}
}
