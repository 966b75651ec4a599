package secretcrypt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/saylorsolutions/saltybox/pkg/saltyerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnvelope() *Envelope {
	env := &Envelope{
		SealedBox: bytes.Repeat([]byte{0xab}, Overhead+12),
	}
	for i := range env.Salt {
		env.Salt[i] = 0x42
	}
	for i := range env.Nonce {
		env.Nonce[i] = 0x24
	}
	return env
}

func TestEnvelope_EncodeLayout(t *testing.T) {
	env := testEnvelope()
	data, err := env.Encode()
	require.NoError(t, err)
	require.Len(t, data, HeaderLen+len(env.SealedBox))

	assert.Equal(t, env.Salt[:], data[:SaltLen])
	assert.Equal(t, env.Nonce[:], data[SaltLen:SaltLen+NonceLen])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0x1c}, data[SaltLen+NonceLen:HeaderLen])
	assert.Equal(t, env.SealedBox, data[HeaderLen:])
}

func TestEnvelope_RoundTrip(t *testing.T) {
	env := testEnvelope()
	data, err := env.Encode()
	require.NoError(t, err)

	decoded, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, env, decoded)
}

func TestEnvelope_EmptySealedBox(t *testing.T) {
	env := &Envelope{SealedBox: []byte{}}
	data, err := env.Encode()
	require.NoError(t, err)
	assert.Len(t, data, HeaderLen)

	decoded, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Empty(t, decoded.SealedBox)
}

func withLength(t *testing.T, length int64) []byte {
	t.Helper()
	data := make([]byte, HeaderLen)
	binary.BigEndian.PutUint64(data[SaltLen+NonceLen:], uint64(length))
	return data
}

func TestDecodeEnvelope_Validation(t *testing.T) {
	valid, err := testEnvelope().Encode()
	require.NoError(t, err)

	tests := map[string]struct {
		input   []byte
		kind    saltyerr.Kind
		message string
	}{
		"empty input": {
			input:   nil,
			kind:    saltyerr.TruncatedInput,
			message: "input likely truncated while reading salt",
		},
		"within salt": {
			input:   valid[:3],
			kind:    saltyerr.TruncatedInput,
			message: "input likely truncated while reading salt",
		},
		"within nonce": {
			input:   valid[:SaltLen+3],
			kind:    saltyerr.TruncatedInput,
			message: "input likely truncated while reading nonce",
		},
		"at nonce boundary": {
			input:   valid[:SaltLen],
			kind:    saltyerr.TruncatedInput,
			message: "input likely truncated while reading nonce",
		},
		"within length": {
			input:   valid[:SaltLen+NonceLen+3],
			kind:    saltyerr.TruncatedInput,
			message: "input likely truncated while reading sealed box",
		},
		"within sealed box": {
			input:   valid[:len(valid)-1],
			kind:    saltyerr.TruncatedInput,
			message: "truncated or corrupt input (while reading sealed box)",
		},
		"at sealed box boundary": {
			input:   valid[:HeaderLen],
			kind:    saltyerr.TruncatedInput,
			message: "truncated or corrupt input (while reading sealed box)",
		},
		"negative length": {
			input:   withLength(t, -1),
			kind:    saltyerr.BinaryFormat,
			message: "negative sealed box length",
		},
		"most negative length": {
			input:   withLength(t, math.MinInt64),
			kind:    saltyerr.BinaryFormat,
			message: "negative sealed box length",
		},
		"claimed length too long": {
			input:   withLength(t, 1000000),
			kind:    saltyerr.BinaryFormat,
			message: "claimed length greater than available input",
		},
		"trailing byte": {
			input:   append(append([]byte{}, valid...), 0xff),
			kind:    saltyerr.TrailingData,
			message: "unexpected data after sealed box",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			env, err := DecodeEnvelope(tc.input)
			assert.Nil(t, env)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), "expected kind %q, got %v", tc.kind, err)
			assert.Equal(t, saltyerr.User, saltyerr.CategoryOf(err))
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestDecodeEnvelope_EveryTruncation(t *testing.T) {
	valid, err := testEnvelope().Encode()
	require.NoError(t, err)
	for i := 0; i < len(valid); i++ {
		_, err := DecodeEnvelope(valid[:i])
		assert.ErrorIs(t, err, saltyerr.TruncatedInput, "truncated to %d bytes", i)
	}
}
