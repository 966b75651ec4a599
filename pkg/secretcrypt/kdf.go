package secretcrypt

import (
	"github.com/saylorsolutions/saltybox/pkg/saltyerr"
	"github.com/saylorsolutions/saltybox/pkg/secret"
	"golang.org/x/crypto/scrypt"
)

const (
	// These are the recommended values for 2009, with one more power of 2 added to N (32768 rather than 16384).
	// They are part of the format; changing them requires a new armor version.
	ScryptN = 1 << 15
	ScryptR = 8
	ScryptP = 1

	KeyLen = 32
)

// DeriveKey derives the symmetric key for a passphrase and salt.
// The returned key must be destroyed by the caller.
func DeriveKey(passphrase []byte, salt Salt) (*secret.Secret, error) {
	key, err := scrypt.Key(passphrase, salt[:], ScryptN, ScryptR, ScryptP, KeyLen)
	if err != nil {
		return nil, saltyerr.Wrap(saltyerr.Internal, saltyerr.ScryptFailure, "scrypt key derivation failed", err)
	}
	return secret.New(key), nil
}
