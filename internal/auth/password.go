// Package auth — password hashing.
//
// bcrypt is a password hashing function designed to be slow. That slowness
// is the security property: it makes brute-force attacks expensive. bcrypt
// also generates and embeds a random salt per hash, so two users with the
// same password get different digests, and it encodes its cost parameter in
// the output — raising the cost later never breaks verification of digests
// stored at the old cost.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly ~250ms on a
// modern server — negligible for login, brutal for attackers.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so that the cost can be injected in
// tests — bcrypt at cost 4 runs orders of magnitude faster than cost 12
// without changing the logic under test.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a reduced cost.
// Use bcrypt.MinCost (4) in tests. Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The output is self-contained (version, cost, salt, digest) — store it
// directly; Verify knows how to decode it.
//
// Returns an error if the plaintext exceeds 72 bytes: bcrypt silently
// truncates longer inputs, so we reject them explicitly instead.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// Returns nil on match. The comparison is constant-time internally, so it
// is safe against timing attacks.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
