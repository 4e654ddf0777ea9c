package noise

import (
	"crypto/hmac"
	"crypto/sha256"
)

// symmetricState tracks the running chaining key and handshake hash shared
// by both handshake roles, plus the temporary CipherState that exists once
// mixKey has been called at least once. It implements the four primitives
// shared by both handshake roles: mixHash, mixKey, encryptAndHash,
// decryptAndHash.
type symmetricState struct {
	ck     [32]byte
	h      [32]byte
	cipher *CipherState
}

// newSymmetricState initializes h and ck to the fixed protocol-name hash:
// h starts at HashedProtocolName, ck starts equal to h, and no temporary
// key exists yet.
func newSymmetricState() *symmetricState {
	return &symmetricState{
		ck: HashedProtocolName,
		h:  HashedProtocolName,
	}
}

// mixHash folds data into the running handshake hash: h ← SHA256(h || data).
func (s *symmetricState) mixHash(data []byte) {
	hasher := sha256.New()
	hasher.Write(s.h[:])
	hasher.Write(data)
	copy(s.h[:], hasher.Sum(nil))
}

// mixKey derives a new chaining key and a temporary CipherState from input
// key material via the Noise two-output HKDF: ck ← t1, cipher ← CipherState(t2).
func (s *symmetricState) mixKey(inputKeyMaterial []byte) error {
	t1, t2 := hkdf2(s.ck[:], inputKeyMaterial)
	s.ck = t1
	cipher, err := NewCipherState(t2)
	if err != nil {
		return err
	}
	s.cipher = cipher
	return nil
}

// encryptAndHash encrypts plaintext (associated data is the running hash)
// and mixes the ciphertext into h. Before the first mixKey it instead
// emits plaintext as-is and mixes that into h.
func (s *symmetricState) encryptAndHash(plaintext []byte) ([]byte, error) {
	if s.cipher == nil {
		s.mixHash(plaintext)
		return plaintext, nil
	}
	ciphertext, err := s.cipher.Encrypt(plaintext, s.h[:])
	if err != nil {
		return nil, err
	}
	s.mixHash(ciphertext)
	return ciphertext, nil
}

// decryptAndHash is the inverse of encryptAndHash. mixHash always runs
// against the ciphertext bytes, even on decrypt failure, since h must
// track every handshake byte observed regardless of success. The caller
// still fails the handshake on error.
func (s *symmetricState) decryptAndHash(ciphertext []byte) ([]byte, error) {
	if s.cipher == nil {
		s.mixHash(ciphertext)
		return ciphertext, nil
	}
	plaintext, err := s.cipher.Decrypt(ciphertext, s.h[:])
	s.mixHash(ciphertext)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// split derives the two transport CipherStates via HKDF-SHA256(ck, empty, 2)
// and discards the handshake state; both counters start at zero.
func (s *symmetricState) split() (*CipherState, *CipherState, error) {
	t1, t2 := hkdf2(s.ck[:], nil)
	c1, err := NewCipherState(t1)
	if err != nil {
		return nil, nil, err
	}
	c2, err := NewCipherState(t2)
	if err != nil {
		return nil, nil, err
	}
	return c1, c2, nil
}

// hkdf2 implements the Noise HKDF used throughout the handshake: exactly
// two 32-byte outputs, keyed by salt, with no "info" parameter distinct from
// the fixed 0x01/0x02 counters. Grounded on the equivalent routine in
// other_examples' Distortions81-M45-goPool Sv2 transport (sv2NoiseHKDF2).
func hkdf2(salt, ikm []byte) (t1 [32]byte, t2 [32]byte) {
	prk := hmacSHA256(salt, ikm)
	t1 = hmacSHA256(prk[:], []byte{0x01})
	var t2Input [33]byte
	copy(t2Input[:32], t1[:])
	t2Input[32] = 0x02
	t2 = hmacSHA256(prk[:], t2Input[:])
	return t1, t2
}

func hmacSHA256(key, data []byte) [32]byte {
	m := hmac.New(sha256.New, key)
	m.Write(data)
	var out [32]byte
	copy(out[:], m.Sum(nil))
	return out
}
