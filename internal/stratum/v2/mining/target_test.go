package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// -----------------------------------------------------------------------------
// Target ordering and wire round-trip
// -----------------------------------------------------------------------------

func TestTarget_OrderingIsLexicographic(t *testing.T) {
	a := Target{Head: uint128{hi: 0, lo: 0}, Tail: uint128{hi: 0, lo: 0}}
	b := Target{Head: uint128{hi: 0, lo: 0}, Tail: uint128{hi: 0, lo: 1}}
	c := Target{Head: uint128{hi: 0, lo: 1}, Tail: uint128{hi: 0, lo: 0}}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.True(t, a.Less(c))
	assert.False(t, b.Less(a))
}

func TestTarget_WireRoundTrip(t *testing.T) {
	var wire [32]byte
	for i := range wire {
		wire[i] = byte(i * 3)
	}

	target := TargetFromWire(wire)
	assert.Equal(t, wire, target.ToWire())
}

func TestTarget_WireRoundTrip_AllZero(t *testing.T) {
	var wire [32]byte
	target := TargetFromWire(wire)
	assert.Equal(t, wire, target.ToWire())
}

func TestTarget_WireRoundTrip_AllOnes(t *testing.T) {
	var wire [32]byte
	for i := range wire {
		wire[i] = 0xFF
	}
	target := TargetFromWire(wire)
	assert.Equal(t, wire, target.ToWire())
}

func TestTarget_Meets(t *testing.T) {
	target := Target{Head: uint128{hi: 0, lo: 100}, Tail: uint128{hi: 0, lo: 0}}
	lowHash := Target{Head: uint128{hi: 0, lo: 0}, Tail: uint128{hi: 0, lo: 5}}
	highHash := Target{Head: uint128{hi: 0, lo: 200}, Tail: uint128{hi: 0, lo: 0}}

	assert.True(t, target.Meets(lowHash))
	assert.False(t, target.Meets(highHash))
}
