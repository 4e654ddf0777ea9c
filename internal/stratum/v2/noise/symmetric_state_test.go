package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// symmetricState primitives
// -----------------------------------------------------------------------------

func TestSymmetricState_InitialHashIsProtocolName(t *testing.T) {
	ss := newSymmetricState()
	assert.Equal(t, HashedProtocolName, ss.h)
	assert.Equal(t, HashedProtocolName, ss.ck)
	assert.Nil(t, ss.cipher)
}

func TestSymmetricState_EncryptAndHashBeforeMixKeyIsPlaintext(t *testing.T) {
	ss := newSymmetricState()
	out, err := ss.encryptAndHash([]byte("ephemeral-key-bytes"))
	require.NoError(t, err)
	assert.Equal(t, []byte("ephemeral-key-bytes"), out)
}

func TestSymmetricState_MixKeyThenEncryptProducesCiphertext(t *testing.T) {
	ss := newSymmetricState()
	err := ss.mixKey([]byte("some-shared-secret-material"))
	require.NoError(t, err)
	require.NotNil(t, ss.cipher)

	out, err := ss.encryptAndHash([]byte("payload"))
	require.NoError(t, err)
	assert.NotEqual(t, []byte("payload"), out)
	assert.Len(t, out, len("payload")+TagSize)
}

func TestSymmetricState_DecryptAndHashMirrorsEncrypt(t *testing.T) {
	alice := newSymmetricState()
	bob := newSymmetricState()

	ikm := []byte("shared-secret")
	require.NoError(t, alice.mixKey(ikm))
	require.NoError(t, bob.mixKey(ikm))

	ciphertext, err := alice.encryptAndHash([]byte("hello responder"))
	require.NoError(t, err)

	plaintext, err := bob.decryptAndHash(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello responder"), plaintext)
	assert.Equal(t, alice.h, bob.h)
}

func TestSymmetricState_SplitProducesDistinctCipherStates(t *testing.T) {
	ss := newSymmetricState()
	require.NoError(t, ss.mixKey([]byte("chaining material")))

	c1, c2, err := ss.split()
	require.NoError(t, err)
	assert.NotEqual(t, c1.key, c2.key)
}

func TestHKDF2_DeterministicForSameInputs(t *testing.T) {
	t1a, t2a := hkdf2([]byte("salt"), []byte("ikm"))
	t1b, t2b := hkdf2([]byte("salt"), []byte("ikm"))
	assert.Equal(t, t1a, t1b)
	assert.Equal(t, t2a, t2b)
	assert.NotEqual(t, t1a, t2a)
}
