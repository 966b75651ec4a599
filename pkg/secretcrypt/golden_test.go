package secretcrypt_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/saylorsolutions/saltybox/pkg/secretcrypt"
	"github.com/saylorsolutions/saltybox/pkg/varmor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type goldenVector struct {
	Plaintext  []byte `json:"plaintext"`
	Ciphertext string `json:"ciphertext"`
	Nonce      []byte `json:"nonce"`
	Salt       []byte `json:"salt"`
	Passphrase []byte `json:"passphrase"`
	Comment    string `json:"comment"`
}

func loadGoldenVectors(t *testing.T) []goldenVector {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "golden-vectors.json"))
	require.NoError(t, err)
	var vectors []goldenVector
	require.NoError(t, json.Unmarshal(data, &vectors))
	require.NotEmpty(t, vectors)
	return vectors
}

func TestGoldenVectors(t *testing.T) {
	vectors := loadGoldenVectors(t)
	if testing.Short() {
		vectors = vectors[:5]
	}
	for _, v := range vectors {
		t.Run(v.Comment, func(t *testing.T) {
			require.Len(t, v.Salt, secretcrypt.SaltLen)
			require.Len(t, v.Nonce, secretcrypt.NonceLen)

			body, err := varmor.Unwrap(v.Ciphertext)
			require.NoError(t, err)
			plain, err := secretcrypt.Decrypt(v.Passphrase, body)
			require.NoError(t, err)
			assert.Equal(t, v.Plaintext, plain)

			var (
				salt  secretcrypt.Salt
				nonce secretcrypt.Nonce
			)
			copy(salt[:], v.Salt)
			copy(nonce[:], v.Nonce)
			crypted, err := secretcrypt.EncryptDeterministically(v.Passphrase, v.Plaintext, salt, nonce)
			require.NoError(t, err)
			assert.Equal(t, v.Ciphertext, varmor.Wrap(crypted))
		})
	}
}
