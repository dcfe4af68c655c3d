package crypto

// Xor3Key is the 3-byte rolling key used to obfuscate the login packet's
// username/password fields (spec §4.2 "Xor3 sub-cipher").
var Xor3Key = [3]byte{0xAB, 0xCD, 0xEF}

// Xor3Encrypt XORs data in place against key, cycling every 3 bytes.
// The transform is its own inverse, so Xor3Encrypt also decrypts.
func Xor3Encrypt(data []byte, key [3]byte) {
	for i := range data {
		data[i] ^= key[i%3]
	}
}
