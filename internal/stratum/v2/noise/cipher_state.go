package noise

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20poly1305"
)

// aeadSealer is the minimal surface CipherState needs from an AEAD cipher;
// narrowed to an interface so the underlying cipher could be substituted
// for an equivalent AEAD, provided the protocol-name constant is updated
// to match.
type aeadSealer interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

// CipherState is one direction's symmetric AEAD state: a write-once key and
// a monotonic nonce counter. The counter is private with no "rewind" or
// "set" method, so a CipherState can only be driven forward, to exhaustion.
type CipherState struct {
	key   [SymKeySize]byte
	nonce uint64
	aead  aeadSealer
}

// NewCipherState seeds a fresh CipherState with the given key and a nonce
// counter starting at zero, per spec: "created by HandshakeEngine upon
// reaching the split step... rekeying produces a new CipherState."
func NewCipherState(key [SymKeySize]byte) (*CipherState, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	return &CipherState{key: key, nonce: 0, aead: aead}, nil
}

// buildNonce constructs the 96-bit AEAD nonce Sv2 uses: four zero bytes
// followed by the 64-bit counter in little-endian, per spec §4.1.
func buildNonce(counter uint64) [NonceSize]byte {
	var n [NonceSize]byte
	binary.LittleEndian.PutUint64(n[4:], counter)
	return n
}

// Nonce returns the current nonce counter. There is no setter: the only way
// to advance it is a successful Encrypt or Decrypt call.
func (c *CipherState) Nonce() uint64 {
	return c.nonce
}

// Encrypt appends a 16-byte authentication tag to plaintext, producing
// ciphertext of length len(plaintext)+16, using ad as associated data (may
// be nil). The nonce counter advances by one per call. Fails with
// ErrCipherExhausted if the counter would exceed 2^64-1 uses.
func (c *CipherState) Encrypt(plaintext, ad []byte) ([]byte, error) {
	if c.nonce >= MaxNonce {
		return nil, ErrCipherExhausted
	}
	nonce := buildNonce(c.nonce)
	c.nonce++
	return c.aead.Seal(nil, nonce[:], plaintext, ad), nil
}

// Decrypt validates and strips the trailing 16-byte tag from ciphertext,
// using the same nonce construction as Encrypt, then advances the counter.
// On tag mismatch it returns ErrDecryptAuth; the caller must discard the
// connection on failure rather than retry.
func (c *CipherState) Decrypt(ciphertext, ad []byte) ([]byte, error) {
	if c.nonce >= MaxNonce {
		return nil, ErrCipherExhausted
	}
	nonce := buildNonce(c.nonce)
	c.nonce++
	plaintext, err := c.aead.Open(nil, nonce[:], ciphertext, ad)
	if err != nil {
		return nil, ErrDecryptAuth
	}
	return plaintext, nil
}
