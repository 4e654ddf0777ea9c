package mining

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardRanges() (Range, Range, Range) {
	return Range{Start: 0, End: 4}, Range{Start: 4, End: 20}, Range{Start: 20, End: 32}
}

// -----------------------------------------------------------------------------
// ExtendedExtranonce / HashSpaceAllocator
// -----------------------------------------------------------------------------

func TestNewExtendedExtranonce_ValidPartition(t *testing.T) {
	r0, r1, r2 := standardRanges()
	alloc, err := NewExtendedExtranonce(r0, r1, r2)
	require.NoError(t, err)
	assert.Equal(t, r0, alloc.Range0())
	assert.Equal(t, r1, alloc.Range1())
	assert.Equal(t, r2, alloc.Range2())
}

func TestNewExtendedExtranonce_RejectsGapBetweenRanges(t *testing.T) {
	_, err := NewExtendedExtranonce(Range{0, 4}, Range{5, 20}, Range{20, 32})
	assert.ErrorIs(t, err, ErrInvalidPartition)
}

func TestNewExtendedExtranonce_RejectsNonZeroStart(t *testing.T) {
	_, err := NewExtendedExtranonce(Range{1, 4}, Range{4, 20}, Range{20, 32})
	assert.ErrorIs(t, err, ErrInvalidPartition)
}

func TestNewExtendedExtranonce_RejectsShortOfFullWidth(t *testing.T) {
	_, err := NewExtendedExtranonce(Range{0, 4}, Range{4, 20}, Range{20, 31})
	assert.ErrorIs(t, err, ErrInvalidPartition)
}

func TestFromUpstream_RejectsNonzeroRange2Byte(t *testing.T) {
	r0, r1, r2 := Range{0, 4}, Range{4, 20}, Range{20, 32}
	var value [ExtranonceLen]byte
	value[0], value[1], value[2], value[3] = 1, 1, 1, 1
	value[31] = 1

	_, err := FromUpstream(value, r0, r1, r2)
	assert.ErrorIs(t, err, ErrExtranonceRangeOccupied)
}

func TestFromUpstream_RejectsNonzeroRange1Byte(t *testing.T) {
	r0, r1, r2 := standardRanges()
	var value [ExtranonceLen]byte
	value[10] = 1

	_, err := FromUpstream(value, r0, r1, r2)
	assert.ErrorIs(t, err, ErrExtranonceRangeOccupied)
}

func TestFromUpstream_AcceptsZeroedReservedRanges(t *testing.T) {
	r0, r1, r2 := standardRanges()
	var value [ExtranonceLen]byte
	value[0], value[1], value[2], value[3] = 9, 9, 9, 9

	alloc, err := FromUpstream(value, r0, r1, r2)
	require.NoError(t, err)
	assert.Equal(t, value, alloc.buf)
}

func TestNextStandard_IncrementsRange2AndIsMonotone(t *testing.T) {
	r0, r1, r2 := standardRanges()
	alloc, err := NewExtendedExtranonce(r0, r1, r2)
	require.NoError(t, err)

	first, err := alloc.NextStandard()
	require.NoError(t, err)
	second, err := alloc.NextStandard()
	require.NoError(t, err)

	firstBytes, secondBytes := first.Bytes(), second.Bytes()
	assert.Negative(t, bytes.Compare(firstBytes[:], secondBytes[:]))
}

func TestNextStandard_ExhaustionFailsWithoutWrapping(t *testing.T) {
	r0, r1, r2 := standardRanges()
	alloc, err := NewExtendedExtranonce(r0, r1, r2)
	require.NoError(t, err)
	for i := r2.Start; i < r2.End; i++ {
		alloc.buf[i] = 0xFF
	}

	_, err = alloc.NextStandard()
	assert.ErrorIs(t, err, ErrExtranonceExhausted)
	for i := r2.Start; i < r2.End; i++ {
		assert.Equal(t, byte(0xFF), alloc.buf[i])
	}
}

func TestNextExtended_RejectsRequiredLenLargerThanRange2(t *testing.T) {
	r0, r1, r2 := standardRanges()
	alloc, err := NewExtendedExtranonce(r0, r1, r2)
	require.NoError(t, err)

	_, err = alloc.NextExtended(r2.Len() + 1)
	assert.ErrorIs(t, err, ErrExtranonceExhausted)
}

func TestNextExtended_IncrementsRange1(t *testing.T) {
	r0, r1, r2 := standardRanges()
	alloc, err := NewExtendedExtranonce(r0, r1, r2)
	require.NoError(t, err)

	before := alloc.buf
	out, err := alloc.NextExtended(4)
	require.NoError(t, err)
	assert.Equal(t, out, alloc.buf)
	assert.NotEqual(t, before[r1.Start:r1.End], alloc.buf[r1.Start:r1.End])
}

func TestIncrementBytesBE_AllFFFailsAndStaysAllFF(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF}
	err := incrementBytesBE(buf)
	assert.ErrorIs(t, err, ErrExtranonceExhausted)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF}, buf)
}

func TestIncrementBytesBE_CarriesAcrossBytes(t *testing.T) {
	buf := []byte{0x00, 0xFF}
	err := incrementBytesBE(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00}, buf)
}
