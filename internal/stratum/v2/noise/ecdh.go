package noise

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ellswift"
)

// KeyPair is a secp256k1 keypair together with the ElligatorSwift encoding
// of its public key. Every static or ephemeral public key on the wire is a
// 64-byte ElligatorSwift blob, never a raw compressed point, so the two are
// generated and carried together rather than derived on demand, matching
// other_examples' Distortions81-M45-goPool Sv2 transport
// (ellswift.EllswiftCreate paired with the private key it returns).
type KeyPair struct {
	Private  *btcec.PrivateKey
	Ellswift ellswift.ElligatorSwift
}

// GenerateKeyPair creates a fresh secp256k1 keypair and its ElligatorSwift
// encoding. Used both for per-handshake ephemeral keys and, once, for a
// node's long-lived static key.
func GenerateKeyPair() (*KeyPair, error) {
	priv, enc, err := ellswift.EllswiftCreate()
	if err != nil {
		return nil, err
	}
	return &KeyPair{Private: priv, Ellswift: enc}, nil
}

// dh performs the Sv2 ElligatorSwift-x-only ECDH variant: combine the
// caller's keypair with a peer's ElligatorSwift-encoded public key, yielding
// a 32-byte shared secret that does not depend on which side computes it.
// initiator must be true when called by the handshake initiator and false
// when called by the responder; the variant mixes this into the secret so
// a transcript replayed in the wrong direction does not collide.
func dh(kp *KeyPair, theirEllswift ellswift.ElligatorSwift, initiator bool) ([32]byte, error) {
	shared, err := ellswift.V2Ecdh(kp.Private, theirEllswift, kp.Ellswift, initiator)
	if err != nil {
		return [32]byte{}, ErrElligatorSwiftDecode
	}
	return *shared, nil
}
