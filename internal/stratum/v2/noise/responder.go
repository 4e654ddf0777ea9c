package noise

import (
	"time"

	"github.com/btcsuite/btcd/btcec/v2/ellswift"
)

type responderPhase int

const (
	responderStart responderPhase = iota
	responderReceivedE
	responderSplit
	responderFailed
)

// ResponderHandshake drives the responder side of the exchange:
// Start -> ReceivedE -> Split. The responder carries its
// own static keypair and a certificate already issued for it by the
// certificate authority; it never signs anything itself.
type ResponderHandshake struct {
	phase      responderPhase
	staticKey  *KeyPair
	cert       Certificate
	initiatorE ellswift.ElligatorSwift
	ss         *symmetricState
	now        func() time.Time
	deadline   time.Time
}

// NewResponderHandshake builds a responder bound to a static keypair and
// its pre-issued certificate. The handshake must reach Split within
// DefaultHandshakeTimeout of construction, or the next call fails with
// ErrHandshakeTimeout.
func NewResponderHandshake(staticKey *KeyPair, cert Certificate) (*ResponderHandshake, error) {
	if staticKey == nil {
		return nil, ErrInvalidKeyMaterial
	}
	now := time.Now
	return &ResponderHandshake{
		phase:     responderStart,
		staticKey: staticKey,
		cert:      cert,
		ss:        newSymmetricState(),
		now:       now,
		deadline:  now().Add(DefaultHandshakeTimeout),
	}, nil
}

// checkDeadline fails the handshake if it has run past its wall-clock
// budget, moving it to its terminal Failed phase like any other error.
func (h *ResponderHandshake) checkDeadline() error {
	if h.now().After(h.deadline) {
		h.phase = responderFailed
		return ErrHandshakeTimeout
	}
	return nil
}

// ReadMessage1 consumes the initiator's 64-byte ephemeral key message.
func (h *ResponderHandshake) ReadMessage1(msg []byte) error {
	if h.phase != responderStart {
		return ErrHandshakeAlreadyDone
	}
	if err := h.checkDeadline(); err != nil {
		return err
	}
	if len(msg) != Message1Len {
		h.phase = responderFailed
		return ErrMalformedFrame
	}
	if _, err := h.ss.decryptAndHash(msg); err != nil {
		h.phase = responderFailed
		return err
	}
	copy(h.initiatorE[:], msg)
	h.phase = responderReceivedE
	return nil
}

// WriteMessage2 generates the responder's ephemeral keypair, derives ee and
// es, and returns the 234-byte reply carrying the ephemeral key, the
// encrypted static key, and the encrypted certificate. On success it also
// returns the two transport CipherStates in (send, receive) order for the
// responder, the mirror image of the initiator's assignment.
func (h *ResponderHandshake) WriteMessage2() (msg []byte, send, receive *CipherState, err error) {
	if h.phase != responderReceivedE {
		return nil, nil, nil, ErrHandshakeAlreadyDone
	}
	fail := func(e error) ([]byte, *CipherState, *CipherState, error) {
		h.phase = responderFailed
		return nil, nil, nil, e
	}
	if err := h.checkDeadline(); err != nil {
		return nil, nil, nil, err
	}

	ephemeral, err := GenerateKeyPair()
	if err != nil {
		return fail(err)
	}

	ePlain, err := h.ss.encryptAndHash(ephemeral.Ellswift[:])
	if err != nil {
		return fail(err)
	}

	ee, err := dh(ephemeral, h.initiatorE, false)
	if err != nil {
		return fail(err)
	}
	if err := h.ss.mixKey(ee[:]); err != nil {
		return fail(err)
	}

	encStatic, err := h.ss.encryptAndHash(h.staticKey.Ellswift[:])
	if err != nil {
		return fail(err)
	}

	es, err := dh(h.staticKey, h.initiatorE, false)
	if err != nil {
		return fail(err)
	}
	if err := h.ss.mixKey(es[:]); err != nil {
		return fail(err)
	}

	certBytes := h.cert.Bytes()
	encCert, err := h.ss.encryptAndHash(certBytes[:])
	if err != nil {
		return fail(err)
	}

	out := make([]byte, 0, Message2Len)
	out = append(out, ePlain...)
	out = append(out, encStatic...)
	out = append(out, encCert...)

	c1, c2, err := h.ss.split()
	if err != nil {
		return fail(err)
	}
	h.phase = responderSplit
	// The responder receives with the CipherState the initiator sends with
	// and sends with the one the initiator receives with.
	return out, c2, c1, nil
}
