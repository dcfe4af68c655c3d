package crypto

// DefaultEncryptKey/DefaultDecryptKey are the client-side SimpleModulus key
// pair. config.Config has no key fields, so the client always uses this
// pair; spec §6's
// Configuration list does not name a key-exchange component (out of scope
// per spec §2's "static lookup tables... out of scope" framing extended to
// key material), so a fixed pair is the simplest default that satisfies the
// pipeline's contract.
var (
	DefaultEncryptKey = SimpleModulusKey{0x5A, 0xA5, 0x3C, 0xC3}
	DefaultDecryptKey = SimpleModulusKey{0x5A, 0xA5, 0x3C, 0xC3}
)

// DefaultXor32InitialState is the starting accumulator byte for the Xor32
// outbound stream obfuscator (spec §4.2).
const DefaultXor32InitialState byte = 0
