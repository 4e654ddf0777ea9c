package mining

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Extranonce increment and wire round-trip
// -----------------------------------------------------------------------------

func TestExtranonce_WireRoundTrip(t *testing.T) {
	var wire [ExtranonceLen]byte
	for i := range wire {
		wire[i] = byte(i + 1)
	}

	e := ExtranonceFromWire(wire)
	assert.Equal(t, wire, e.WireBytes())
}

func TestExtranonce_NextIncrementsTailThenCarriesIntoHead(t *testing.T) {
	head := uint128{hi: 0, lo: 5}
	tail := uint128{hi: ^uint64(0), lo: ^uint64(0) - 10}
	e := ExtranonceFromHeadTail(head, tail)

	var err error
	for i := 0; i < 100; i++ {
		e, err = e.Next()
		require.NoError(t, err)
	}

	assert.Equal(t, uint64(0), e.Head().hi)
	assert.Equal(t, uint64(6), e.Head().lo)
	assert.Equal(t, uint64(0), e.Tail().hi)
	assert.Equal(t, uint64(89), e.Tail().lo)
}

func TestExtranonce_NextFromZeroIsOne(t *testing.T) {
	var e Extranonce
	next, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next.Tail().lo)
}

func TestExtranonce_NextOnMaxFailsAndLeavesAllOnes(t *testing.T) {
	var e Extranonce
	for i := range e.buf {
		e.buf[i] = 0xFF
	}

	_, err := e.Next()
	assert.ErrorIs(t, err, ErrExtranonceExhausted)

	for _, b := range e.buf {
		assert.Equal(t, byte(0xFF), b)
	}
}

func TestExtranonce_SuccessiveNextValuesAreStrictlyMonotone(t *testing.T) {
	var e Extranonce
	var prev [ExtranonceLen]byte
	for i := 0; i < 1000; i++ {
		next, err := e.Next()
		require.NoError(t, err)
		nextBytes := next.Bytes()
		assert.Negative(t, bytes.Compare(prev[:], nextBytes[:]))
		prev = nextBytes
		e = next
	}
}
