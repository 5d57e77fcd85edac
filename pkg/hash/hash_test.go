package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveHandle(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{"ipv4", "203.0.113.7"},
		{"ipv4 private", "192.168.0.10"},
		{"ipv6", "2001:db8::1"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle := DeriveHandle(tt.addr)
			assert.Len(t, handle, HandleLength)
			// Deterministic: same address, same handle.
			assert.Equal(t, handle, DeriveHandle(tt.addr))
		})
	}
}

func TestDeriveHandleDistinctAddresses(t *testing.T) {
	a := DeriveHandle("203.0.113.7")
	b := DeriveHandle("203.0.113.8")
	assert.NotEqual(t, a, b)
}

func TestSecretHasherRoundTrip(t *testing.T) {
	h := NewSecretHasher("test-pepper")

	hashed, err := h.Hash("pw1")
	assert.NoError(t, err)
	assert.NotEqual(t, "pw1", hashed)

	assert.True(t, h.Verify("pw1", hashed))
	assert.False(t, h.Verify("bad-pw", hashed))
}

func TestSecretHasherSaltedHashesDiffer(t *testing.T) {
	h := NewSecretHasher("test-pepper")

	h1, err := h.Hash("pw1")
	assert.NoError(t, err)
	h2, err := h.Hash("pw1")
	assert.NoError(t, err)

	// bcrypt salts per hash; both still verify.
	assert.NotEqual(t, h1, h2)
	assert.True(t, h.Verify("pw1", h1))
	assert.True(t, h.Verify("pw1", h2))
}

func TestSecretHasherPepperMismatch(t *testing.T) {
	h1 := NewSecretHasher("pepper-a")
	h2 := NewSecretHasher("pepper-b")

	hashed, err := h1.Hash("pw1")
	assert.NoError(t, err)

	assert.False(t, h2.Verify("pw1", hashed))
}

func TestSecretHasherMalformedStoredHash(t *testing.T) {
	h := NewSecretHasher("test-pepper")
	assert.False(t, h.Verify("pw1", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("pw1", ""))
}

func TestSecretHasherLongSecret(t *testing.T) {
	h := NewSecretHasher("test-pepper")

	// Longer than bcrypt's 72-byte input limit; the HMAC pre-hash absorbs it.
	long := make([]byte, 200)
	for i := range long {
		long[i] = byte('a' + i%26)
	}

	hashed, err := h.Hash(string(long))
	assert.NoError(t, err)
	assert.True(t, h.Verify(string(long), hashed))
}
