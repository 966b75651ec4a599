package secretcrypt

import (
	"crypto/rand"
	"io"

	"github.com/saylorsolutions/saltybox/pkg/saltyerr"
)

// Encrypt encrypts plaintext under a key derived from passphrase, using a fresh random salt and nonce.
// The result is an encoded Envelope.
func Encrypt(passphrase []byte, plaintext []byte) ([]byte, error) {
	return EncryptFrom(rand.Reader, passphrase, plaintext)
}

// EncryptFrom is Encrypt with the salt and nonce drawn from random.
func EncryptFrom(random io.Reader, passphrase []byte, plaintext []byte) ([]byte, error) {
	var (
		salt  Salt
		nonce Nonce
	)
	if _, err := io.ReadFull(random, salt[:]); err != nil {
		return nil, saltyerr.Wrap(saltyerr.Internal, saltyerr.Io, "failed to generate salt", err)
	}
	if _, err := io.ReadFull(random, nonce[:]); err != nil {
		return nil, saltyerr.Wrap(saltyerr.Internal, saltyerr.Io, "failed to generate nonce", err)
	}
	return EncryptDeterministically(passphrase, plaintext, salt, nonce)
}

// EncryptDeterministically encrypts with a caller-provided salt and nonce.
// It exists to produce reproducible test vectors. Reusing a salt and nonce pair with the same passphrase
// destroys confidentiality, so anything else should call Encrypt.
func EncryptDeterministically(passphrase []byte, plaintext []byte, salt Salt, nonce Nonce) ([]byte, error) {
	key, err := DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()

	sealed, err := Seal(key, nonce, plaintext)
	if err != nil {
		return nil, err
	}
	env := &Envelope{
		Salt:      salt,
		Nonce:     nonce,
		SealedBox: sealed,
	}
	return env.Encode()
}

// Decrypt decrypts an encoded Envelope previously produced by Encrypt.
//
// There is no way to tell whether an AuthenticationFailed error is due to a bad passphrase, tampering, or
// corruption of the sealed box.
func Decrypt(passphrase []byte, crypttext []byte) ([]byte, error) {
	env, err := DecodeEnvelope(crypttext)
	if err != nil {
		return nil, err
	}
	key, err := DeriveKey(passphrase, env.Salt)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()
	return Open(key, env.Nonce, env.SealedBox)
}
