package noise

import "errors"

// Every failure mode below is terminal to the operation that raised it and
// is never retried internally; the caller tears down the connection (or, for
// an odd-parity authority key, never gets a handshake to start).
var (
	ErrCipherExhausted       = errors.New("noise: cipher state nonce exhausted")
	ErrDecryptAuth           = errors.New("noise: aead authentication failed")
	ErrHandshakeTimeout      = errors.New("noise: handshake exceeded wall-clock bound")
	ErrElligatorSwiftDecode  = errors.New("noise: invalid elligatorswift encoding")
	ErrSignatureVerify       = errors.New("noise: schnorr signature verification failed")
	ErrCertificateExpired    = errors.New("noise: certificate is no longer valid")
	ErrCertificateNotValid   = errors.New("noise: certificate is not yet valid")
	ErrWrongParity           = errors.New("noise: authority key has odd y-parity")
	ErrMalformedFrame        = errors.New("noise: malformed frame length")
	ErrHandshakeNotComplete  = errors.New("noise: handshake has not reached split")
	ErrHandshakeAlreadyDone  = errors.New("noise: handshake already reached a terminal state")
	ErrInvalidKeyMaterial    = errors.New("noise: invalid key material")
	ErrFramePayloadTooLarge  = errors.New("noise: plaintext exceeds maximum frame payload")
)
