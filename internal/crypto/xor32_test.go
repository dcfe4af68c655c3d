package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXor32RoundTrip(t *testing.T) {
	enc := NewXor32(0x5A)
	dec := NewXor32(0x5A)

	original := []byte("the quick brown fox jumps over the lazy dog")
	data := append([]byte(nil), original...)

	enc.Encrypt(data)
	assert.NotEqual(t, original, data)

	dec.Decrypt(data)
	assert.Equal(t, original, data)
}

func TestXor32StateChainsAcrossCalls(t *testing.T) {
	enc := NewXor32(0x00)
	dec := NewXor32(0x00)

	original := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	data := append([]byte(nil), original...)

	// Encrypt in two chunks to confirm state survives across calls.
	enc.Encrypt(data[:3])
	enc.Encrypt(data[3:])

	dec.Decrypt(data[:3])
	dec.Decrypt(data[3:])

	assert.Equal(t, original, data)
}

func TestXor3EncryptIsSelfInverse(t *testing.T) {
	key := [3]byte{0x11, 0x22, 0x33}
	original := []byte("myaccount1")
	data := append([]byte(nil), original...)

	Xor3Encrypt(data, key)
	assert.NotEqual(t, original, data)

	Xor3Encrypt(data, key)
	assert.Equal(t, original, data)
}
