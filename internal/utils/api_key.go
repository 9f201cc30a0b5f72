package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/SscSPs/vaultline/internal/core/domain"
)

// apiKeyRandomBytes yields a 64 character hex body.
const apiKeyRandomBytes = 32

// APIKeyLength is the length of a well-formed raw key including its prefix.
const APIKeyLength = len(domain.APIKeyPrefix) + 2*apiKeyRandomBytes

// GenerateSecureRandomString generates a cryptographically secure random string of the specified byte length,
// then hex encodes it. For example, lengthInBytes=32 will result in a 64-character hex string.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAPIKey returns a new raw key of the form vl_<64 hex>.
func GenerateAPIKey() (string, error) {
	body, err := GenerateSecureRandomString(apiKeyRandomBytes)
	if err != nil {
		return "", err
	}
	return domain.APIKeyPrefix + body, nil
}

// HashAPIKey returns the lowercase hex SHA-256 of a raw key. Lookups are by this hash.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// IsWellFormedAPIKey checks prefix, length and hex body without touching storage.
func IsWellFormedAPIKey(raw string) bool {
	if len(raw) != APIKeyLength || !strings.HasPrefix(raw, domain.APIKeyPrefix) {
		return false
	}
	_, err := hex.DecodeString(raw[len(domain.APIKeyPrefix):])
	return err == nil
}
