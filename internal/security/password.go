// Package security provides password digests and session token handling.
package security

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/allease/allease-core/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher digests passwords and verifies stored digests.
type PasswordHasher interface {
	// Hash returns the stored form of password.
	Hash(password string) (string, error)
	// Verify reports whether password matches the stored digest.
	Verify(digest, password string) bool
}

// NewPasswordHasher returns the hasher for the configured scheme.
func NewPasswordHasher(cfg config.AuthConfig) (PasswordHasher, error) {
	switch cfg.PasswordScheme {
	case config.SchemeSHA256, "":
		return SHA256Hasher{}, nil
	case config.SchemeBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("security: unsupported password scheme: %s", cfg.PasswordScheme)
	}
}

// SHA256Hasher digests passwords with a single unsalted SHA-256 round,
// hex-encoded. This matches the digest format already present in stored
// vault documents. It is NOT production-grade: without a salt or work
// factor, equal passwords produce equal digests and brute force is cheap.
// New installations should prefer BcryptHasher.
type SHA256Hasher struct{}

// Hash returns the lower-case hex SHA-256 digest of password.
func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// Verify reports whether password hashes to digest.
func (h SHA256Hasher) Verify(digest, password string) bool {
	computed, _ := h.Hash(password)
	return computed == digest
}

// BcryptHasher digests passwords with bcrypt.
type BcryptHasher struct {
	Cost int // Work factor; bcrypt.DefaultCost when zero.
}

// Hash returns the bcrypt digest of password.
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("security: hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether password matches the bcrypt digest.
func (BcryptHasher) Verify(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
