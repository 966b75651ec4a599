package secretcrypt

import (
	"bytes"
	"errors"
	"testing"

	"github.com/saylorsolutions/saltybox/pkg/saltyerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allByteValues() []byte {
	b := make([]byte, 256)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	tests := map[string][]byte{
		"empty":           {},
		"single byte":     []byte("t"),
		"small":           []byte("hello"),
		"all byte values": allByteValues(),
		"all zero":        make([]byte, 100),
		"all 0xff":        bytes.Repeat([]byte{0xff}, 100),
		"large":           bytes.Repeat([]byte{0x42}, 128*1024),
	}
	for name, plaintext := range tests {
		t.Run(name, func(t *testing.T) {
			crypted, err := Encrypt([]byte("testphrase"), plaintext)
			require.NoError(t, err)
			assert.Len(t, crypted, HeaderLen+Overhead+len(plaintext))

			plain, err := Decrypt([]byte("testphrase"), crypted)
			require.NoError(t, err)
			assert.Equal(t, plaintext, plain)
		})
	}
}

func TestEncrypt_FreshSaltAndNonce(t *testing.T) {
	a, err := Encrypt([]byte("test"), []byte("same plaintext"))
	require.NoError(t, err)
	b, err := Encrypt([]byte("test"), []byte("same plaintext"))
	require.NoError(t, err)

	assert.NotEqual(t, a[:SaltLen], b[:SaltLen], "salt should be random per call")
	assert.NotEqual(t, a[SaltLen:SaltLen+NonceLen], b[SaltLen:SaltLen+NonceLen], "nonce should be random per call")
}

func TestEncryptFrom_ShortRandom(t *testing.T) {
	_, err := EncryptFrom(bytes.NewReader(make([]byte, SaltLen+3)), []byte("test"), []byte("data"))
	require.Error(t, err)
	assert.Equal(t, saltyerr.Internal, saltyerr.CategoryOf(err))
	assert.ErrorIs(t, err, saltyerr.Io)
}

func TestDecrypt_WrongPassphrase(t *testing.T) {
	crypted, err := Encrypt([]byte("correct"), []byte("secret data"))
	require.NoError(t, err)

	plain, err := Decrypt([]byte("wrong"), crypted)
	assert.Nil(t, plain)
	require.Error(t, err)
	assert.True(t, errors.Is(err, saltyerr.AuthenticationFailed))
	assert.Equal(t, saltyerr.User, saltyerr.CategoryOf(err))
	assert.Contains(t, err.Error(), "corrupt input, tampered-with data, or bad passphrase")
}

func TestDecrypt_TamperedSealedBox(t *testing.T) {
	var (
		salt  = Salt{1, 2, 3, 4, 5, 6, 7, 8}
		nonce = Nonce{9}
		pass  = []byte("test")
	)
	crypted, err := EncryptDeterministically(pass, []byte("test payload"), salt, nonce)
	require.NoError(t, err)

	tampered := append([]byte{}, crypted...)
	tampered[len(tampered)-1] ^= 0x01
	_, err = Decrypt(pass, tampered)
	assert.ErrorIs(t, err, saltyerr.AuthenticationFailed)

	// Open every single-bit corruption of the tag and ciphertext with one derived key.
	key, err := DeriveKey(pass, salt)
	require.NoError(t, err)
	defer key.Destroy()
	env, err := DecodeEnvelope(crypted)
	require.NoError(t, err)

	for i := 0; i < len(env.SealedBox); i++ {
		for bit := 0; bit < 8; bit++ {
			box := append([]byte{}, env.SealedBox...)
			box[i] ^= 1 << bit
			plain, err := Open(key, nonce, box)
			assert.Nil(t, plain, "byte %d bit %d", i, bit)
			assert.ErrorIs(t, err, saltyerr.AuthenticationFailed, "byte %d bit %d", i, bit)
		}
	}
}

func TestOpen_ShortBox(t *testing.T) {
	key, err := DeriveKey([]byte("test"), Salt{})
	require.NoError(t, err)
	defer key.Destroy()

	for n := 0; n < Overhead; n++ {
		_, err := Open(key, Nonce{}, make([]byte, n))
		assert.ErrorIs(t, err, saltyerr.AuthenticationFailed)
	}
}

func TestEncryptDeterministically_Deterministic(t *testing.T) {
	var (
		salt   = Salt{1, 1, 1, 1, 1, 1, 1, 1}
		nonce1 = Nonce{2}
		nonce2 = Nonce{3}
		pass   = []byte("test")
		plain  = []byte("hello world")
	)
	ct1, err := EncryptDeterministically(pass, plain, salt, nonce1)
	require.NoError(t, err)
	ct2, err := EncryptDeterministically(pass, plain, salt, nonce1)
	require.NoError(t, err)
	assert.Equal(t, ct1, ct2)

	ct3, err := EncryptDeterministically(pass, plain, salt, nonce2)
	require.NoError(t, err)
	assert.NotEqual(t, ct1, ct3)

	for _, ct := range [][]byte{ct1, ct3} {
		got, err := Decrypt(pass, ct)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

// This exact byte sequence is produced by every saltybox implementation.
func TestCrossImplementationCompatibility(t *testing.T) {
	var (
		salt  Salt
		nonce Nonce
	)
	for i := range salt {
		salt[i] = 0x42
	}
	for i := range nonce {
		nonce[i] = 0x24
	}
	expected := []byte{
		0x42, 0x42, 0x42, 0x42, 0x42, 0x42, 0x42, 0x42,
		0x24, 0x24, 0x24, 0x24, 0x24, 0x24, 0x24, 0x24,
		0x24, 0x24, 0x24, 0x24, 0x24, 0x24, 0x24, 0x24,
		0x24, 0x24, 0x24, 0x24, 0x24, 0x24, 0x24, 0x24,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1c,
		0x44, 0x87, 0xfe, 0xcd, 0x6f, 0xcf, 0x10, 0x75,
		0x7b, 0x4c, 0xb9, 0xc6, 0x59, 0xda, 0x83, 0x61,
		0x28, 0xfc, 0xf4, 0x30, 0x39, 0x85, 0x4a, 0x66,
		0xcf, 0xb5, 0xcf, 0xd4,
	}

	crypted, err := EncryptDeterministically([]byte("test"), []byte("test payload"), salt, nonce)
	require.NoError(t, err)
	assert.Equal(t, expected, crypted)

	plain, err := Decrypt([]byte("test"), expected)
	require.NoError(t, err)
	assert.Equal(t, "test payload", string(plain))
}

func TestDeriveKey(t *testing.T) {
	a, err := DeriveKey([]byte("test"), Salt{1})
	require.NoError(t, err)
	defer a.Destroy()
	b, err := DeriveKey([]byte("test"), Salt{1})
	require.NoError(t, err)
	defer b.Destroy()
	c, err := DeriveKey([]byte("test"), Salt{2})
	require.NoError(t, err)
	defer c.Destroy()

	assert.Equal(t, KeyLen, a.Len())
	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.NotEqual(t, a.Bytes(), c.Bytes())
}
