package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashAlgorithm  = "sha256"
	saltLength     = 16
	hashIterations = 100000
	hashKeyLength  = 32
)

// HashPassword derives a PBKDF2-SHA256 hash with a random salt,
// stored as "algorithm:salt:hash".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	saltHex := hex.EncodeToString(salt)
	hash := computeHash(password, saltHex)
	return fmt.Sprintf("%s:%s:%s", hashAlgorithm, saltHex, hash), nil
}

// VerifyPassword checks a password against a stored hash in constant
// time. Malformed stored hashes simply fail verification.
func VerifyPassword(password, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 3 || parts[0] != hashAlgorithm {
		return false
	}

	computed := computeHash(password, parts[1])
	return subtle.ConstantTimeCompare([]byte(computed), []byte(parts[2])) == 1
}

func computeHash(password, saltHex string) string {
	key := pbkdf2.Key([]byte(password), []byte(saltHex), hashIterations, hashKeyLength, sha256.New)
	return hex.EncodeToString(key)
}
