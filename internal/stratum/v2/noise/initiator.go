package noise

import (
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ellswift"
)

type initiatorPhase int

const (
	initiatorStart initiatorPhase = iota
	initiatorSentE
	initiatorSplit
	initiatorFailed
)

// InitiatorHandshake drives the initiator side of the two-message NX-style
// exchange: Start -> SentE -> Split. Any error at any step
// moves the handshake to a terminal Failed phase; there is no way back to
// Start and no way to reach Split except through a fully verified message 2.
type InitiatorHandshake struct {
	phase        initiatorPhase
	ephemeral    *KeyPair
	authorityPub *btcec.PublicKey
	ss           *symmetricState
	now          func() time.Time
	deadline     time.Time
}

// NewInitiatorHandshake builds an initiator bound to the given certificate
// authority public key. The authority key's parity is checked once here
// rather than on every certificate verification. The handshake must reach
// Split within DefaultHandshakeTimeout of construction, or the next call
// fails with ErrHandshakeTimeout.
func NewInitiatorHandshake(authorityPub *btcec.PublicKey) (*InitiatorHandshake, error) {
	if err := CheckAuthorityParity(authorityPub); err != nil {
		return nil, err
	}
	now := time.Now
	return &InitiatorHandshake{
		phase:        initiatorStart,
		authorityPub: authorityPub,
		ss:           newSymmetricState(),
		now:          now,
		deadline:     now().Add(DefaultHandshakeTimeout),
	}, nil
}

// checkDeadline fails the handshake if it has run past its wall-clock
// budget, moving it to its terminal Failed phase like any other error.
func (h *InitiatorHandshake) checkDeadline() error {
	if h.now().After(h.deadline) {
		h.phase = initiatorFailed
		return ErrHandshakeTimeout
	}
	return nil
}

// WriteMessage1 generates the initiator's ephemeral keypair and returns the
// 64-byte first handshake message: the raw ElligatorSwift encoding of its
// public key, sent unencrypted since no key material has been mixed yet.
func (h *InitiatorHandshake) WriteMessage1() ([]byte, error) {
	if h.phase != initiatorStart {
		return nil, ErrHandshakeAlreadyDone
	}
	if err := h.checkDeadline(); err != nil {
		return nil, err
	}

	ephemeral, err := GenerateKeyPair()
	if err != nil {
		h.phase = initiatorFailed
		return nil, err
	}
	h.ephemeral = ephemeral

	msg, err := h.ss.encryptAndHash(ephemeral.Ellswift[:])
	if err != nil {
		h.phase = initiatorFailed
		return nil, err
	}
	h.phase = initiatorSentE
	return msg, nil
}

// ReadMessage2 consumes the responder's 234-byte reply (ephemeral key,
// encrypted static key, encrypted certificate), validates the certificate
// against the authority key, and on success returns the two transport
// CipherStates in (send, receive) order for the initiator.
func (h *InitiatorHandshake) ReadMessage2(msg []byte) (send, receive *CipherState, err error) {
	if h.phase != initiatorSentE {
		return nil, nil, ErrHandshakeAlreadyDone
	}
	fail := func(e error) (*CipherState, *CipherState, error) {
		h.phase = initiatorFailed
		return nil, nil, e
	}
	if err := h.checkDeadline(); err != nil {
		return nil, nil, err
	}
	if len(msg) != Message2Len {
		return fail(ErrMalformedFrame)
	}

	responderE := msg[0:EllswiftSize]
	encStatic := msg[EllswiftSize : EllswiftSize+EllswiftSize+TagSize]
	encCert := msg[EllswiftSize+EllswiftSize+TagSize:]

	if _, err := h.ss.decryptAndHash(responderE); err != nil {
		return fail(err)
	}
	var responderEphemeral ellswift.ElligatorSwift
	copy(responderEphemeral[:], responderE)

	ee, err := dh(h.ephemeral, responderEphemeral, true)
	if err != nil {
		return fail(err)
	}
	if err := h.ss.mixKey(ee[:]); err != nil {
		return fail(err)
	}

	staticPlain, err := h.ss.decryptAndHash(encStatic)
	if err != nil {
		return fail(err)
	}
	if len(staticPlain) != EllswiftSize {
		return fail(ErrMalformedFrame)
	}
	var responderStatic ellswift.ElligatorSwift
	copy(responderStatic[:], staticPlain)

	es, err := dh(h.ephemeral, responderStatic, true)
	if err != nil {
		return fail(err)
	}
	if err := h.ss.mixKey(es[:]); err != nil {
		return fail(err)
	}

	certPlain, err := h.ss.decryptAndHash(encCert)
	if err != nil {
		return fail(err)
	}
	cert, err := ParseCertificate(certPlain)
	if err != nil {
		return fail(err)
	}
	if err := cert.Verify(h.authorityPub, responderStatic, h.now()); err != nil {
		return fail(err)
	}

	c1, c2, err := h.ss.split()
	if err != nil {
		return fail(err)
	}
	h.phase = initiatorSplit
	// Initiator sends with the first derived CipherState and receives with
	// the second, mirroring the responder's reversed assignment so both
	// sides agree on directionality without exchanging a flag.
	return c1, c2, nil
}
