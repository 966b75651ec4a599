package secretcrypt

import (
	"github.com/saylorsolutions/saltybox/pkg/saltyerr"
	"github.com/saylorsolutions/saltybox/pkg/secret"
	"golang.org/x/crypto/nacl/secretbox"
)

// Overhead is the size of the Poly1305 tag prepended to every sealed box.
const Overhead = secretbox.Overhead

// Seal encrypts and authenticates plaintext with XSalsa20-Poly1305.
func Seal(key *secret.Secret, nonce Nonce, plaintext []byte) ([]byte, error) {
	k, err := key.Array32()
	if err != nil {
		return nil, saltyerr.Wrap(saltyerr.Internal, saltyerr.SecretboxFailure, "unusable secretbox key", err)
	}
	n := [NonceLen]byte(nonce)
	return secretbox.Seal(nil, plaintext, &n, k), nil
}

// Open verifies and decrypts a sealed box.
// Every verification failure is reported identically, and no plaintext is ever returned alongside an error.
func Open(key *secret.Secret, nonce Nonce, sealed []byte) ([]byte, error) {
	k, err := key.Array32()
	if err != nil {
		return nil, saltyerr.Wrap(saltyerr.Internal, saltyerr.SecretboxFailure, "unusable secretbox key", err)
	}
	n := [NonceLen]byte(nonce)
	plaintext, ok := secretbox.Open(nil, sealed, &n, k)
	if !ok {
		return nil, saltyerr.WithKind(saltyerr.User, saltyerr.AuthenticationFailed, "corrupt input, tampered-with data, or bad passphrase")
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
