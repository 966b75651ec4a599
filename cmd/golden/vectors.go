package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/saylorsolutions/saltybox/pkg/secretcrypt"
	"github.com/saylorsolutions/saltybox/pkg/varmor"
)

// vector is one golden test vector. Byte fields are standard base64 in JSON.
type vector struct {
	Plaintext  []byte `json:"plaintext"`
	Ciphertext string `json:"ciphertext"`
	Nonce      []byte `json:"nonce"`
	Salt       []byte `json:"salt"`
	Passphrase []byte `json:"passphrase"`
	Comment    string `json:"comment"`
}

// vectorInput is the seed of a vector. Salt and nonce are truncated or zero padded to their fixed sizes.
type vectorInput struct {
	plaintext  []byte
	passphrase []byte
	salt       string
	nonce      string
	comment    string
}

var testpass = []byte("testpass")

func sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 256)
	}
	return b
}

func vectorInputs() []vectorInput {
	allBytes := sequence(256)
	inputs := []vectorInput{
		{[]byte{}, testpass, "salt0000", "nonce000000000000000000", "empty plaintext"},
		{[]byte("x"), testpass, "salt0001", "nonce000000000000000001", "single byte plaintext"},
		{[]byte("hello world"), testpass, "salt0002", "nonce000000000000000002", "basic hello world"},
		{make([]byte, 5), testpass, "salt0003", "nonce000000000000000003", "all zero bytes plaintext"},
		{bytes.Repeat([]byte{0xff}, 5), testpass, "salt0004", "nonce000000000000000004", "all 0xFF bytes plaintext"},
		{allBytes, testpass, "salt0005", "nonce000000000000000005", "all byte values 0-255 in plaintext"},
		{sequence(10000), testpass, "salt0006", "nonce000000000000000006", "large plaintext 10KB"},
		{[]byte("Hello 世界 🌍"), testpass, "salt0007", "nonce000000000000000007", "UTF-8 multibyte characters"},
		{[]byte("secret"), []byte{}, "salt0008", "nonce000000000000000008", "empty passphrase"},
		{[]byte("data"), make([]byte, 1000), "salt0009", "nonce000000000000000009", "very long passphrase"},
		{[]byte("data"), []byte("p@ss w0rd!🔐"), "salt0010", "nonce000000000000000010", "passphrase with special chars"},
		{[]byte("test"), testpass, string(make([]byte, 8)), "nonce000000000000000011", "all zero salt"},
		{[]byte("test"), testpass, string(bytes.Repeat([]byte{0xff}, 8)), "nonce000000000000000012", "all 0xFF salt"},
		{[]byte("test"), testpass, "salt0013", string(make([]byte, 24)), "all zero nonce"},
		{[]byte("test"), testpass, "salt0014", string(bytes.Repeat([]byte{0xff}, 24)), "all 0xFF nonce"},
		{[]byte("line1\nline2\r\nline3\r"), testpass, "salt0016", "nonce000000000000000016", "newlines in plaintext"},
		{[]byte("saltybox1:fakedata"), testpass, "salt0017", "nonce000000000000000017", "plaintext resembling format header"},
		{[]byte("x"), make([]byte, 10000), "salt0018", "nonce000000000000000018", "tiny data, huge passphrase"},
		{[]byte("test"), allBytes, "salt0019", "nonce000000000000000019", "all byte values 0-255 in passphrase"},
	}
	for i := 0; i < 32; i++ {
		start := i * secretcrypt.SaltLen
		inputs = append(inputs, vectorInput{
			plaintext:  []byte("test"),
			passphrase: testpass,
			salt:       string(allBytes[start : start+secretcrypt.SaltLen]),
			nonce:      fmt.Sprintf("nonce00000000000000000%02d", 20+i),
			comment:    fmt.Sprintf("all byte values %d-%d in salt", start, start+secretcrypt.SaltLen-1),
		})
	}
	for i := 0; i < 10; i++ {
		start := i * secretcrypt.NonceLen
		inputs = append(inputs, vectorInput{
			plaintext:  []byte("test"),
			passphrase: testpass,
			salt:       fmt.Sprintf("salt00%02d", 52+i),
			nonce:      string(allBytes[start : start+secretcrypt.NonceLen]),
			comment:    fmt.Sprintf("all byte values %d-%d in nonce", start, start+secretcrypt.NonceLen-1),
		})
	}
	inputs = append(inputs, vectorInput{
		plaintext:  []byte("test"),
		passphrase: testpass,
		salt:       "salt0062",
		nonce:      string(allBytes[240:256]),
		comment:    "all byte values 240-255 in nonce",
	})
	return inputs
}

func (in vectorInput) vector() (vector, error) {
	var (
		salt  secretcrypt.Salt
		nonce secretcrypt.Nonce
	)
	copy(salt[:], in.salt)
	copy(nonce[:], in.nonce)
	crypted, err := secretcrypt.EncryptDeterministically(in.passphrase, in.plaintext, salt, nonce)
	if err != nil {
		return vector{}, fmt.Errorf("failed to encrypt vector %q: %w", in.comment, err)
	}
	return vector{
		Plaintext:  in.plaintext,
		Ciphertext: varmor.Wrap(crypted),
		Nonce:      nonce[:],
		Salt:       salt[:],
		Passphrase: in.passphrase,
		Comment:    in.comment,
	}, nil
}

// generateVectors creates every vector, sorted by ciphertext so that changes produce reasonable diffs.
func generateVectors() ([]vector, error) {
	inputs := vectorInputs()
	vectors := make([]vector, 0, len(inputs))
	for _, in := range inputs {
		v, err := in.vector()
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	sort.Slice(vectors, func(i, j int) bool {
		return vectors[i].Ciphertext < vectors[j].Ciphertext
	})
	return vectors, nil
}

func encodeVectors(vectors []vector) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(vectors); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// validateVector decrypts v and re-encrypts its plaintext with the recorded salt and nonce.
func validateVector(v vector) error {
	if len(v.Salt) != secretcrypt.SaltLen {
		return fmt.Errorf("salt must be %d bytes, got %d", secretcrypt.SaltLen, len(v.Salt))
	}
	if len(v.Nonce) != secretcrypt.NonceLen {
		return fmt.Errorf("nonce must be %d bytes, got %d", secretcrypt.NonceLen, len(v.Nonce))
	}
	body, err := varmor.Unwrap(v.Ciphertext)
	if err != nil {
		return fmt.Errorf("failed to unarmor ciphertext: %w", err)
	}
	plaintext, err := secretcrypt.Decrypt(v.Passphrase, body)
	if err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}
	if !bytes.Equal(plaintext, v.Plaintext) {
		return fmt.Errorf("plaintext mismatch (expected %d bytes, got %d bytes)", len(v.Plaintext), len(plaintext))
	}
	var (
		salt  secretcrypt.Salt
		nonce secretcrypt.Nonce
	)
	copy(salt[:], v.Salt)
	copy(nonce[:], v.Nonce)
	crypted, err := secretcrypt.EncryptDeterministically(v.Passphrase, v.Plaintext, salt, nonce)
	if err != nil {
		return fmt.Errorf("failed to re-encrypt: %w", err)
	}
	if varmor.Wrap(crypted) != v.Ciphertext {
		return fmt.Errorf("re-encryption does not reproduce the ciphertext")
	}
	return nil
}
