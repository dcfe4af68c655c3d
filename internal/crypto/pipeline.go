package crypto

import "fmt"

// Pipeline stacks the two codecs of spec §4.2 for one connection.
// Outbound: application -> SimpleModulus-encrypt -> Xor32-encrypt -> socket.
// Inbound:  socket -> SimpleModulus-decrypt -> application (no Xor32 layer
// on the inbound side, per spec).
//
// A disabled Pipeline (Connect Server connections) passes bytes through
// unchanged — toggling is a connection-setup decision, never mutated
// mid-connection (spec §4.2 "Contract").
type Pipeline struct {
	enabled bool
	modulus *SimpleModulus
	xor     *Xor32
}

// NewPipeline builds an enabled pipeline from a SimpleModulus key pair and
// an initial Xor32 state.
func NewPipeline(encryptKey, decryptKey SimpleModulusKey, xorInitialState byte) *Pipeline {
	return &Pipeline{
		enabled: true,
		modulus: NewSimpleModulus(encryptKey, decryptKey),
		xor:     NewXor32(xorInitialState),
	}
}

// NewDisabledPipeline builds a pass-through pipeline (Connect Server).
func NewDisabledPipeline() *Pipeline {
	return &Pipeline{enabled: false}
}

// Enabled reports whether this pipeline performs any transformation.
func (p *Pipeline) Enabled() bool {
	return p.enabled
}

// EncodeOutbound applies SimpleModulus-encrypt then Xor32-encrypt to a
// plaintext payload, returning the bytes to place in a C3/C4 frame body.
// When disabled, returns plaintext unchanged (C1/C2 framing is used by the
// caller in that case).
func (p *Pipeline) EncodeOutbound(plaintext []byte) []byte {
	if !p.enabled {
		return plaintext
	}
	encrypted := p.modulus.Encrypt(plaintext)
	p.xor.Encrypt(encrypted)
	return encrypted
}

// DecodeInbound applies SimpleModulus-decrypt to an inbound C3/C4 frame
// body (no Xor32 layer inbound, per spec). originalLen trims the
// zero-padded final block back to the real payload length; pass -1 if the
// caller does not know the original length and wants the full decoded
// block set.
func (p *Pipeline) DecodeInbound(ciphertext []byte, originalLen int) ([]byte, error) {
	if !p.enabled {
		return ciphertext, nil
	}
	plaintext, ok, err := p.modulus.Decrypt(ciphertext, originalLen)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("crypto: simplemodulus checksum verification failed")
	}
	return plaintext, nil
}
