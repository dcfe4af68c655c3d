package crypto

// Xor32 is the self-chaining stream obfuscator of spec §4.2: layered
// outside SimpleModulus on the outbound side only. Each byte is XORed
// with the running `state`, which is then updated from the plaintext
// byte just processed.
//
// Grounded on the teacher's internal/crypto/game_crypt.go rolling-XOR
// cipher (encrypted[i] = raw[i] ^ key[i&0xF] ^ prev), simplified to a
// single running byte of state per spec's literal description rather
// than the teacher's 16-byte rotating key array.
type Xor32 struct {
	state byte
}

// NewXor32 creates a Xor32 obfuscator with the given initial state.
func NewXor32(initialState byte) *Xor32 {
	return &Xor32{state: initialState}
}

// Encrypt XORs data in place with the running state, chained from the
// plaintext as required by spec §4.2: "updates `state` from the
// plaintext byte" — the update uses the byte BEFORE encryption so that
// Decrypt (which sees only the encrypted byte) can recover the same
// sequence of states by reversing the XOR first.
func (x *Xor32) Encrypt(data []byte) {
	for i := range data {
		plain := data[i]
		data[i] = plain ^ x.state
		x.state = plain
	}
}

// Decrypt reverses Encrypt given the same initial state.
func (x *Xor32) Decrypt(data []byte) {
	for i := range data {
		plain := data[i] ^ x.state
		x.state = plain
		data[i] = plain
	}
}

// Reset restores the obfuscator to a fresh initial state. Nothing in this
// module calls it: the client builds a new Pipeline for each Game-Server
// connection instead.
func (x *Xor32) Reset(initialState byte) {
	x.state = initialState
}
