package mining

// ExtranonceLen is the fixed width of every extranonce buffer, per spec
// §9's EXTRANONCE_LEN constant.
const ExtranonceLen = 32

// Extranonce is a 32-byte counter a miner varies to search hash space
// without rebuilding its coinbase transaction. Internally it is held as a
// big-endian counter; WireBytes produces the little-endian form actually
// carried on the wire.
type Extranonce struct {
	buf [ExtranonceLen]byte
}

// ExtranonceFromWire reverses the little-endian wire encoding into the
// big-endian internal representation.
func ExtranonceFromWire(wire [ExtranonceLen]byte) Extranonce {
	return Extranonce{buf: reverse32(wire)}
}

// ExtranonceFromHeadTail builds an Extranonce from its two 128-bit halves,
// head being the more significant half of the big-endian counter.
func ExtranonceFromHeadTail(head, tail uint128) Extranonce {
	var e Extranonce
	headBytes := head.beBytes()
	tailBytes := tail.beBytes()
	copy(e.buf[0:16], headBytes[:])
	copy(e.buf[16:32], tailBytes[:])
	return e
}

// Head returns the more significant 128-bit half of the counter.
func (e Extranonce) Head() uint128 {
	return uint128FromBE(e.buf[0:16])
}

// Tail returns the less significant 128-bit half of the counter.
func (e Extranonce) Tail() uint128 {
	return uint128FromBE(e.buf[16:32])
}

// WireBytes is the inverse of ExtranonceFromWire: a byte-for-byte reversal
// of the internal big-endian buffer.
func (e Extranonce) WireBytes() [ExtranonceLen]byte {
	return reverse32(e.buf)
}

// Bytes returns the internal big-endian representation.
func (e Extranonce) Bytes() [ExtranonceLen]byte {
	return e.buf
}

// Next returns a new Extranonce one greater than e, or
// ErrExtranonceExhausted if e is already all-0xFF.
func (e Extranonce) Next() (Extranonce, error) {
	next := e
	if err := incrementBytesBE(next.buf[:]); err != nil {
		return next, err
	}
	return next, nil
}
