package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HandleLength is the length of a derived display handle.
const HandleLength = 8

// DeriveHandle maps a network address to a short pseudonymous display handle.
// It is deliberately unsalted: the same address yields the same handle on
// every request, which is the whole session-less identity scheme.
func DeriveHandle(networkAddress string) string {
	sum := sha256.Sum256([]byte(networkAddress))
	return hex.EncodeToString(sum[:])[:HandleLength]
}

// SecretHasher hashes and verifies comment passwords with bcrypt.
//
// The configured pepper is folded in through an HMAC-SHA256 pre-hash, which
// also sidesteps bcrypt's 72-byte input limit.
type SecretHasher struct {
	pepper []byte
	cost   int
}

// NewSecretHasher creates a SecretHasher with the application pepper.
func NewSecretHasher(pepper string) *SecretHasher {
	return &SecretHasher{pepper: []byte(pepper), cost: bcrypt.DefaultCost}
}

func (h *SecretHasher) prehash(secret string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(secret))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}

// Hash returns the bcrypt hash of a peppered secret.
func (h *SecretHasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(h.prehash(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether secret matches a stored hash. It never returns an
// error: a malformed stored hash simply fails verification.
func (h *SecretHasher) Verify(secret, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), h.prehash(secret)) == nil
}
