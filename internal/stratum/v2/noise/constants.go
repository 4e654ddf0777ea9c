// Package noise implements the Sv2 Noise_NX handshake and the post-handshake
// secure record codec built on top of it.
//
// The pattern is fixed by the Stratum V2 specification: a two-message
// NX-style exchange where static and ephemeral public keys are carried as
// 64-byte ElligatorSwift encodings of secp256k1 points, chained keys are
// derived with HKDF-SHA256, and records are sealed with ChaCha20-Poly1305.
// None of this is a paraphrase-friendly protocol: every constant below must
// match the protocol byte-for-byte or interoperability breaks.
package noise

import "time"

const (
	// ProtocolName is the Noise protocol name Sv2 uses for its NX variant.
	ProtocolName = "Noise_NX_Secp256k1+EllSwift_ChaChaPoly_SHA256"

	// DHKeySize is the width of a secp256k1 x-only coordinate and of the
	// ECDH output; EllswiftSize is the width of its ElligatorSwift encoding.
	DHKeySize    = 32
	EllswiftSize = 64

	// SymKeySize is the ChaCha20-Poly1305 key size, NonceSize its AEAD nonce
	// size, and TagSize its authentication tag size.
	SymKeySize = 32
	NonceSize  = 12
	TagSize    = 16

	// MaxNonce is the first nonce value a CipherState refuses to use: a
	// CipherState may make 2^64-1 encrypt/decrypt calls (nonces 0 through
	// MaxNonce-1) before the next one fails with ErrCipherExhausted.
	MaxNonce = ^uint64(0)

	// CertificatePayloadLen is the fixed length of the signature payload
	// carried in message 2: 2-byte version + 4-byte not-before +
	// 4-byte not-valid-after + 64-byte Schnorr signature.
	CertificatePayloadLen = 2 + 4 + 4 + 64

	// Message1Len, Message2Len are the fixed wire lengths of the two
	// handshake messages that travel over the connection (message 0 has no
	// counterpart in the NX pattern; the initiator's only message is
	// Message1).
	Message1Len = EllswiftSize
	Message2Len = EllswiftSize + (EllswiftSize + TagSize) + (CertificatePayloadLen + TagSize)

	// MaxFramePayload is the largest plaintext SecureCodec will seal into a
	// single record: the ciphertext (payload+tag) must fit a 16-bit length.
	MaxFramePayload = 65535 - TagSize

	// DefaultHandshakeTimeout is the wall-clock bound after which a
	// handshake that has not reached Split fails with ErrHandshakeTimeout.
	DefaultHandshakeTimeout = 10 * time.Second
)

// HashedProtocolName is SHA256(ProtocolName), precomputed and fixed by the
// Sv2 specification as the initial handshake hash `h` (and hence `ck`, since
// ck starts equal to h). It is never computed dynamically so that a typo in
// ProtocolName cannot silently desynchronize two otherwise-correct peers.
var HashedProtocolName = [32]byte{
	46, 180, 120, 129, 32, 142, 158, 238, 31, 102, 159, 103, 198, 110, 231, 14,
	169, 234, 136, 9, 13, 80, 63, 232, 48, 220, 75, 200, 62, 41, 191, 16,
}

// SupportedCiphersMessage declares the AEAD suite in use (ChaCha20-Poly1305)
// as a fixed bitmask with a single bit set rather than a negotiated value.
// Neither handshake role sends or checks it: message 1 starts directly with
// the initiator's ephemeral key.
var SupportedCiphersMessage = []byte{0x01, 0x00, 0x00, 0x00}

// ExpectedParity is the y-parity every certificate authority key must have.
// A responder's certificate is rejected before signature verification if the
// authority key on file has odd parity.
const ExpectedParity = ParityEven

// Parity identifies the y-coordinate parity of a secp256k1 public key.
type Parity int

const (
	ParityEven Parity = iota
	ParityOdd
)
