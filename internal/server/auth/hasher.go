// Package auth implements the cryptographic building blocks of the
// service: bcrypt secret hashing, HS256-signed access tokens, and opaque
// refresh tokens.
package auth

import "golang.org/x/crypto/bcrypt"

// SecretHasher hashes plaintext secrets with bcrypt. The work factor is
// fixed at construction; production deployments use cost 12, tests may
// use bcrypt.MinCost since the cost affects only latency, never
// correctness.
type SecretHasher struct {
	cost int
}

// NewSecretHasher returns a hasher with the given work factor. Costs
// outside the range bcrypt accepts fall back to bcrypt.DefaultCost.
func NewSecretHasher(cost int) *SecretHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &SecretHasher{cost: cost}
}

// Hash returns the bcrypt hash of plaintext with a per-call random salt.
func (h *SecretHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext reproduces hashed. Malformed hashes
// verify as false, never as an error.
func (h *SecretHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
