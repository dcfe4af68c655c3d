package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEncryptKey = SimpleModulusKey{0x1111_1111, 0x2222_2222, 0x3333_3333, 0x4444_4444}
var testDecryptKey = testEncryptKey

func TestSimpleModulusRoundTrip(t *testing.T) {
	sm := NewSimpleModulus(testEncryptKey, testDecryptKey)

	plaintext := []byte("ADMIN123") // exactly one 8-byte block
	ciphertext := sm.Encrypt(plaintext)
	require.Len(t, ciphertext, SimpleModulusEncodedBlockSize)

	decoded, ok, err := sm.Decrypt(ciphertext, len(plaintext))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, plaintext, decoded)
}

func TestSimpleModulusRoundTripMultiBlockAndPadding(t *testing.T) {
	sm := NewSimpleModulus(testEncryptKey, testDecryptKey)

	plaintext := []byte("this is a much longer payload than one block")
	ciphertext := sm.Encrypt(plaintext)
	assert.Equal(t, EncryptedLen(len(plaintext)), len(ciphertext))

	decoded, ok, err := sm.Decrypt(ciphertext, len(plaintext))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, plaintext, decoded)
}

func TestSimpleModulusDetectsCorruption(t *testing.T) {
	sm := NewSimpleModulus(testEncryptKey, testDecryptKey)

	ciphertext := sm.Encrypt([]byte("ADMIN123"))
	ciphertext[0] ^= 0xFF // corrupt a byte

	_, ok, err := sm.Decrypt(ciphertext, 8)
	require.NoError(t, err)
	assert.False(t, ok, "corrupted block must fail checksum verification")
}

func TestSimpleModulusMismatchedKeyYieldsWrongPlaintext(t *testing.T) {
	// The checksum trailer only detects in-transit corruption (it is
	// computed from the ciphertext itself, not the key) — a mismatched
	// key still "verifies" but recovers garbage, which is why key setup
	// is a connection-level contract (spec §4.2), not something this
	// cipher can self-check.
	sm := NewSimpleModulus(testEncryptKey, testDecryptKey)
	wrongKey := SimpleModulusKey{0xAAAA, 0xBBBB, 0xCCCC, 0xDDDD}
	badDecoder := NewSimpleModulus(testEncryptKey, wrongKey)

	ciphertext := sm.Encrypt([]byte("ADMIN123"))
	decoded, ok, err := badDecoder.Decrypt(ciphertext, 8)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEqual(t, []byte("ADMIN123"), decoded)
}
