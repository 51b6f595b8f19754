package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 600000
	pbkdf2KeyLen     = 32
	saltLen          = 16
)

// HashPassword derives a salted pbkdf2-sha256 hash in the format
// "pbkdf2:sha256:<iterations>$<salt>$<hex digest>".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	digest := pbkdf2.Key([]byte(password), []byte(saltHex), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", pbkdf2Iterations, saltHex, hex.EncodeToString(digest)), nil
}

// CheckPassword verifies a candidate password against a stored hash.
// Rows written before hashing was introduced hold the plaintext password;
// those are accepted by constant-time equality. Migration shim, remove once
// every row is rehashed.
func CheckPassword(stored, candidate string) bool {
	if !strings.HasPrefix(stored, "pbkdf2:") {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
	}

	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return false
	}
	header := strings.SplitN(parts[0], ":", 3)
	if len(header) != 3 || header[1] != "sha256" {
		return false
	}
	iterations, err := strconv.Atoi(header[2])
	if err != nil || iterations <= 0 {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(candidate), []byte(parts[1]), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(want, got) == 1
}
