package noise

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ellswift"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Certificate is the fixed-layout record a responder presents to prove its
// static key was issued by a trusted authority: a version, a validity
// window, and a BIP-340 Schnorr signature over the static key plus that
// window. Grounded on the certificate payload shape in
// other_examples' Distortions81-M45-goPool Sv2 transport
// (sv2NoiseBuildTOFUCertPayload), extended here with real authority
// verification rather than that example's trust-on-first-use stub.
type Certificate struct {
	Version   uint16
	NotBefore uint32
	NotAfter  uint32
	Signature [64]byte
}

// certificateMessage computes the bytes the authority signs:
// SHA256(static public key || version || not-before || not-valid-after).
func certificateMessage(staticKey ellswift.ElligatorSwift, version uint16, notBefore, notAfter uint32) [32]byte {
	var fields [2 + 4 + 4]byte
	binary.LittleEndian.PutUint16(fields[0:2], version)
	binary.LittleEndian.PutUint32(fields[2:6], notBefore)
	binary.LittleEndian.PutUint32(fields[6:10], notAfter)

	h := sha256.New()
	h.Write(staticKey[:])
	h.Write(fields[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// SignCertificate is run out of band by the authority (never by the
// responder itself) to issue a certificate for a responder's static key.
func SignCertificate(authorityPriv *btcec.PrivateKey, staticKey ellswift.ElligatorSwift, notBefore, notAfter time.Time) (Certificate, error) {
	nb := uint32(notBefore.Unix())
	na := uint32(notAfter.Unix())
	msg := certificateMessage(staticKey, 0, nb, na)

	sig, err := schnorr.Sign(authorityPriv, msg[:])
	if err != nil {
		return Certificate{}, err
	}
	cert := Certificate{Version: 0, NotBefore: nb, NotAfter: na}
	copy(cert.Signature[:], sig.Serialize())
	return cert, nil
}

// Bytes serializes the certificate to its fixed on-wire layout: 2-byte
// version, 4-byte not-before, 4-byte not-valid-after, 64-byte signature,
// all little-endian integers.
func (c Certificate) Bytes() [CertificatePayloadLen]byte {
	var out [CertificatePayloadLen]byte
	binary.LittleEndian.PutUint16(out[0:2], c.Version)
	binary.LittleEndian.PutUint32(out[2:6], c.NotBefore)
	binary.LittleEndian.PutUint32(out[6:10], c.NotAfter)
	copy(out[10:74], c.Signature[:])
	return out
}

// ParseCertificate reads the fixed layout produced by Bytes. The caller
// must supply exactly CertificatePayloadLen bytes.
func ParseCertificate(b []byte) (Certificate, error) {
	if len(b) != CertificatePayloadLen {
		return Certificate{}, ErrMalformedFrame
	}
	var c Certificate
	c.Version = binary.LittleEndian.Uint16(b[0:2])
	c.NotBefore = binary.LittleEndian.Uint32(b[2:6])
	c.NotAfter = binary.LittleEndian.Uint32(b[6:10])
	copy(c.Signature[:], b[10:74])
	return c, nil
}

// Verify checks the certificate's Schnorr signature against authorityPub
// for the given static key, and that now falls within [NotBefore,
// NotAfter]. authorityPub must already be known to have even parity; that
// check happens once, when NewInitiatorHandshake is given the key
// (CheckAuthorityParity), not on every verification.
func (c Certificate) Verify(authorityPub *btcec.PublicKey, staticKey ellswift.ElligatorSwift, now time.Time) error {
	nowUnix := uint32(now.Unix())
	if nowUnix < c.NotBefore {
		return ErrCertificateNotValid
	}
	if nowUnix > c.NotAfter {
		return ErrCertificateExpired
	}

	msg := certificateMessage(staticKey, c.Version, c.NotBefore, c.NotAfter)
	sig, err := schnorr.ParseSignature(c.Signature[:])
	if err != nil {
		return ErrSignatureVerify
	}
	if !sig.Verify(msg[:], authorityPub) {
		return ErrSignatureVerify
	}
	return nil
}

// CheckAuthorityParity rejects an authority public key with odd y-parity.
// Certificate authorities are required to hold an even-parity key, and a
// responder's certificate is rejected before signature verification if
// the authority key on file fails this check.
func CheckAuthorityParity(authorityPub *btcec.PublicKey) error {
	compressed := authorityPub.SerializeCompressed()
	if compressed[0] != 0x02 {
		return ErrWrongParity
	}
	return nil
}
