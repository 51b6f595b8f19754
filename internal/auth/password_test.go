package auth

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "pbkdf2:sha256:") {
		t.Fatalf("unexpected hash format: %q", hash)
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	h1, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical, salt is not random")
	}
}

func TestCheckPasswordLegacyPlaintext(t *testing.T) {
	// Pre-hashing rows store the plaintext password directly.
	if !CheckPassword("oldplaintext", "oldplaintext") {
		t.Error("legacy plaintext comparison rejected a matching password")
	}
	if CheckPassword("oldplaintext", "other") {
		t.Error("legacy plaintext comparison accepted a mismatch")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	cases := []string{
		"pbkdf2:sha256:abc$salt$deadbeef", // non-numeric iterations
		"pbkdf2:sha256:1000$missingparts",
		"pbkdf2:md5:1000$salt$deadbeef",
		"pbkdf2:sha256:1000$salt$nothex!",
	}
	for _, stored := range cases {
		if CheckPassword(stored, "anything") {
			t.Errorf("malformed hash %q accepted a password", stored)
		}
	}
}
