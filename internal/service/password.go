package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier hashes and checks plaintext secrets.
type CredentialVerifier interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// BcryptVerifier is a CredentialVerifier backed by bcrypt. Every hash gets a
// fresh random salt; the cost is embedded in the hash.
type BcryptVerifier struct {
	cost int
}

// NewBcryptVerifier returns a verifier hashing at cost. Values outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptVerifier{cost: cost}
}

func (v *BcryptVerifier) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), v.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify re-hashes plaintext under the salt and cost embedded in hash and
// compares in constant time. Malformed hashes never verify.
func (v *BcryptVerifier) Verify(plaintext, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	return err == nil
}
