// Package mining implements the post-handshake scalar types a Stratum V2
// node needs once its secure channel is up: the extranonce space a pool
// carves into upstream/self/downstream ranges, and the 256-bit target a
// submitted share is compared against.
package mining

import "errors"

var (
	// ErrExtranonceExhausted covers both ways an allocator can run out of
	// room: a counter incremented past all-0xFF, and a next_extended
	// request wider than the range available to carve out of.
	ErrExtranonceExhausted = errors.New("mining: extranonce range exhausted")

	// ErrExtranonceRangeOccupied is returned by FromUpstream when the
	// supplied value has nonzero bytes outside its reserved range_0.
	ErrExtranonceRangeOccupied = errors.New("mining: upstream extranonce value occupies a reserved range")

	// ErrInvalidPartition is returned by New/FromUpstream when the three
	// ranges are not contiguous and do not exactly cover 32 bytes.
	ErrInvalidPartition = errors.New("mining: extranonce range partition is invalid")
)
