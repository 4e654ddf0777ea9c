package noise

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairedCodecs(t *testing.T) (*SecureCodec, *SecureCodec) {
	t.Helper()
	var key [SymKeySize]byte
	for i := range key {
		key[i] = byte(i * 7)
	}
	a, err := NewCipherState(key)
	require.NoError(t, err)
	b, err := NewCipherState(key)
	require.NoError(t, err)
	left, err := NewSecureCodec(a, b)
	require.NoError(t, err)
	right, err := NewSecureCodec(b, a)
	require.NoError(t, err)
	return left, right
}

// -----------------------------------------------------------------------------
// SecureCodec construction
// -----------------------------------------------------------------------------

func TestNewSecureCodec_RejectsIncompleteHandshake(t *testing.T) {
	var key [SymKeySize]byte
	cipher, err := NewCipherState(key)
	require.NoError(t, err)

	_, err = NewSecureCodec(nil, cipher)
	assert.ErrorIs(t, err, ErrHandshakeNotComplete)
	_, err = NewSecureCodec(cipher, nil)
	assert.ErrorIs(t, err, ErrHandshakeNotComplete)
}

// -----------------------------------------------------------------------------
// SecureCodec framing
// -----------------------------------------------------------------------------

func TestSecureCodec_EncodeDecodeRoundTrip(t *testing.T) {
	left, right := pairedCodecs(t)

	frame, err := left.EncodeFrame([]byte("open_standard_mining_channel"))
	require.NoError(t, err)

	plaintext, consumed, err := right.DecodeFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, len(frame), consumed)
	assert.Equal(t, []byte("open_standard_mining_channel"), plaintext)
}

func TestSecureCodec_EncodeRejectsOversizedPlaintext(t *testing.T) {
	left, _ := pairedCodecs(t)
	_, err := left.EncodeFrame(make([]byte, MaxFramePayload+1))
	assert.ErrorIs(t, err, ErrFramePayloadTooLarge)
}

func TestSecureCodec_DecodeRejectsTruncatedRecord(t *testing.T) {
	left, right := pairedCodecs(t)
	frame, err := left.EncodeFrame([]byte("payload"))
	require.NoError(t, err)

	_, _, err = right.DecodeFrame(frame[:len(frame)-1])
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestSecureCodec_WriteReadFrameOverStream(t *testing.T) {
	left, right := pairedCodecs(t)
	var buf bytes.Buffer

	require.NoError(t, left.WriteFrame(&buf, []byte("set_target")))

	plaintext, err := right.ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("set_target"), plaintext)
}
