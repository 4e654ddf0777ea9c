package noise

import (
	"encoding/binary"
	"fmt"
	"io"
)

// SecureCodec frames and encrypts application payloads over a completed
// handshake: a 2-byte big-endian length prefix followed by ciphertext and
// a 16-byte authentication tag. The two directions use
// independent CipherStates, so a codec is built from the (send, receive)
// pair that ReadMessage2 (initiator) or WriteMessage2 (responder) returned.
type SecureCodec struct {
	encryptor *CipherState
	decryptor *CipherState
}

// NewSecureCodec wraps a handshake's two derived CipherStates into a framed
// record codec. Both CipherStates must come from a handshake that actually
// reached Split; a nil encryptor or decryptor means the caller is trying to
// build a codec before the handshake completed.
func NewSecureCodec(encryptor, decryptor *CipherState) (*SecureCodec, error) {
	if encryptor == nil || decryptor == nil {
		return nil, ErrHandshakeNotComplete
	}
	return &SecureCodec{encryptor: encryptor, decryptor: decryptor}, nil
}

// EncodeFrame encrypts plaintext and prefixes it with its 2-byte big-endian
// ciphertext length. Rejects plaintext longer than MaxFramePayload, since
// the length prefix cannot otherwise round-trip and the tag would push the
// record past the maximum Sv2 frame size.
func (c *SecureCodec) EncodeFrame(plaintext []byte) ([]byte, error) {
	if len(plaintext) > MaxFramePayload {
		return nil, ErrFramePayloadTooLarge
	}
	ciphertext, err := c.encryptor.Encrypt(plaintext, nil)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 2+len(ciphertext))
	binary.BigEndian.PutUint16(out[:2], uint16(len(ciphertext)))
	copy(out[2:], ciphertext)
	return out, nil
}

// DecodeFrame reads the length prefix from record, validates it against the
// remaining bytes, and decrypts the ciphertext that follows.
func (c *SecureCodec) DecodeFrame(record []byte) (plaintext []byte, consumed int, err error) {
	if len(record) < 2 {
		return nil, 0, ErrMalformedFrame
	}
	length := int(binary.BigEndian.Uint16(record[:2]))
	if length < TagSize || len(record) < 2+length {
		return nil, 0, ErrMalformedFrame
	}
	ciphertext := record[2 : 2+length]
	plaintext, err = c.decryptor.Decrypt(ciphertext, nil)
	if err != nil {
		return nil, 0, err
	}
	return plaintext, 2 + length, nil
}

// ReadFrame reads exactly one length-prefixed record from r and decrypts
// it, blocking until the whole record has arrived.
func (c *SecureCodec) ReadFrame(r io.Reader) ([]byte, error) {
	var lenPrefix [2]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return nil, fmt.Errorf("noise: reading frame length: %w", err)
	}
	length := int(binary.BigEndian.Uint16(lenPrefix[:]))
	if length < TagSize {
		return nil, ErrMalformedFrame
	}
	ciphertext := make([]byte, length)
	if _, err := io.ReadFull(r, ciphertext); err != nil {
		return nil, fmt.Errorf("noise: reading frame body: %w", err)
	}
	plaintext, err := c.decryptor.Decrypt(ciphertext, nil)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// WriteFrame encodes and writes plaintext as one framed record.
func (c *SecureCodec) WriteFrame(w io.Writer, plaintext []byte) error {
	frame, err := c.EncodeFrame(plaintext)
	if err != nil {
		return err
	}
	_, err = w.Write(frame)
	return err
}
