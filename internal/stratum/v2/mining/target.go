package mining

import "encoding/binary"

// uint128 is a 128-bit unsigned integer stored as two 64-bit halves,
// value = hi*2^64 + lo. It gives the two 128-bit halves of Target and of
// Extranonce a comparable, fixed-size representation; Go has no native
// 128-bit integer type.
type uint128 struct {
	hi uint64
	lo uint64
}

func uint128FromLE(b []byte) uint128 {
	return uint128{
		lo: binary.LittleEndian.Uint64(b[0:8]),
		hi: binary.LittleEndian.Uint64(b[8:16]),
	}
}

func (u uint128) leBytes() [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], u.lo)
	binary.LittleEndian.PutUint64(b[8:16], u.hi)
	return b
}

func uint128FromBE(b []byte) uint128 {
	return uint128{
		hi: binary.BigEndian.Uint64(b[0:8]),
		lo: binary.BigEndian.Uint64(b[8:16]),
	}
}

func (u uint128) beBytes() [16]byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], u.hi)
	binary.BigEndian.PutUint64(b[8:16], u.lo)
	return b
}

func (u uint128) less(other uint128) bool {
	if u.hi != other.hi {
		return u.hi < other.hi
	}
	return u.lo < other.lo
}

// Target is a 256-bit difficulty threshold split into two 128-bit halves
// for cheap lexicographic comparison. A submitted share is valid when its
// hash, read the same way, is strictly less than the target.
type Target struct {
	Head uint128
	Tail uint128
}

// reverse32 returns b with its byte order reversed; it is its own inverse.
func reverse32(b [32]byte) [32]byte {
	for i := 0; i < 16; i++ {
		b[i], b[31-i] = b[31-i], b[i]
	}
	return b
}

// TargetFromWire decodes the 32-byte little-endian wire form into a Target.
// The wire layout reverses the whole buffer before splitting it in half;
// see spec §4.4 for why this quirk exists on the wire but not internally.
func TargetFromWire(wire [32]byte) Target {
	reversed := reverse32(wire)
	var head, tail [16]byte
	copy(head[:], reversed[0:16])
	copy(tail[:], reversed[16:32])
	return Target{
		Head: uint128FromLE(head[:]),
		Tail: uint128FromLE(tail[:]),
	}
}

// ToWire is the inverse of TargetFromWire.
func (t Target) ToWire() [32]byte {
	var assembled [32]byte
	headBytes := t.Head.leBytes()
	tailBytes := t.Tail.leBytes()
	copy(assembled[0:16], headBytes[:])
	copy(assembled[16:32], tailBytes[:])
	return reverse32(assembled)
}

// Less reports whether t is strictly less than other, comparing (Head,
// Tail) lexicographically, the same order as the underlying 256-bit
// integer.
func (t Target) Less(other Target) bool {
	if t.Head != other.Head {
		return t.Head.less(other.Head)
	}
	return t.Tail.less(other.Tail)
}

// Meets reports whether hash (as a Target-shaped 256-bit value) satisfies
// this target, i.e. hash < t.
func (t Target) Meets(hash Target) bool {
	return hash.Less(t)
}
