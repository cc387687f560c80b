package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultHashIterations is the PBKDF2 work factor used for new hashes.
	DefaultHashIterations = 100_000

	saltLength = 16
	keyLength  = 32
)

// ErrCorruptCredential marks a stored credential that looks like a hash
// (three dot-separated fields) but cannot be decoded. Operators need to
// tell corrupted rows apart from plain wrong-password failures.
var ErrCorruptCredential = errors.New("stored credential is corrupt")

// PasswordHasher derives and verifies PBKDF2-SHA256 password hashes encoded
// as "iterations.salt.hash" with base64 payloads.
type PasswordHasher struct {
	iterations int
}

func NewPasswordHasher(iterations int) *PasswordHasher {
	if iterations <= 0 {
		iterations = DefaultHashIterations
	}
	return &PasswordHasher{iterations: iterations}
}

// Hash returns a self-describing hash string for the password. Two calls
// with the same password produce different strings because the salt is
// random per call.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, h.iterations, keyLength, sha256.New)

	return fmt.Sprintf("%d.%s.%s",
		h.iterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Verify checks the password against a stored hash string. A stored value
// that does not have exactly three dot-separated fields is not a hash at
// all (legacy plaintext row) and yields (false, nil); callers handle that
// case through the exact-match legacy path. A three-field value with
// undecodable payloads yields ErrCorruptCredential.
func (h *PasswordHasher) Verify(password, stored string) (bool, error) {
	parts := strings.Split(stored, ".")
	if len(parts) != 3 {
		return false, nil
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false, fmt.Errorf("%w: bad iteration count %q", ErrCorruptCredential, parts[0])
	}

	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("%w: bad salt encoding", ErrCorruptCredential)
	}

	expected, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("%w: bad hash encoding", ErrCorruptCredential)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)

	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// IsHashedCredential reports whether the stored value is in the structured
// hash format rather than a legacy plaintext password.
func IsHashedCredential(stored string) bool {
	return strings.Count(stored, ".") == 2
}
