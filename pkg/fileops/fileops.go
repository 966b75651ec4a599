package fileops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"

	"github.com/saylorsolutions/saltybox/pkg/preader"
	"github.com/saylorsolutions/saltybox/pkg/saltyerr"
	"github.com/saylorsolutions/saltybox/pkg/secret"
	"github.com/saylorsolutions/saltybox/pkg/secretcrypt"
	"github.com/saylorsolutions/saltybox/pkg/varmor"
	"github.com/sirupsen/logrus"
)

// Codec performs saltybox operations with a fixed configuration.
type Codec struct {
	log    logrus.FieldLogger
	mode   os.FileMode
	random io.Reader
}

// New creates a Codec, applying opts over the defaults.
func New(opts ...Option) (*Codec, error) {
	c := new(Codec)
	defaults(c)
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Encrypt encrypts plaintext with a fresh salt and nonce and returns armored text.
func (c *Codec) Encrypt(passphrase []byte, plaintext []byte) (string, error) {
	start := time.Now()
	crypted, err := secretcrypt.EncryptFrom(c.random, passphrase, plaintext)
	if err != nil {
		return "", saltyerr.WithContext(err, "encryption failed")
	}
	c.log.WithFields(logrus.Fields{
		"bytes":   len(plaintext),
		"elapsed": time.Since(start),
	}).Debug("derive key and encrypt")
	return varmor.Wrap(crypted), nil
}

// Decrypt unwraps and decrypts armored text.
// The returned error identifies which stage failed.
func (c *Codec) Decrypt(passphrase []byte, armored string) ([]byte, error) {
	crypted, err := varmor.Unwrap(armored)
	if err != nil {
		return nil, saltyerr.WithContext(err, "failed to unarmor")
	}
	start := time.Now()
	plaintext, err := secretcrypt.Decrypt(passphrase, crypted)
	if err != nil {
		return nil, saltyerr.WithContext(err, "failed to decrypt")
	}
	c.log.WithFields(logrus.Fields{
		"bytes":   len(plaintext),
		"elapsed": time.Since(start),
	}).Debug("derive key and decrypt")
	return plaintext, nil
}

// Update validates passphrase against existing, and only then encrypts newPlaintext under it.
func (c *Codec) Update(passphrase []byte, newPlaintext []byte, existing string) (string, error) {
	if err := c.validate(passphrase, existing); err != nil {
		return "", err
	}
	return c.Encrypt(passphrase, newPlaintext)
}

func (c *Codec) validate(passphrase []byte, existing string) error {
	old, err := c.Decrypt(passphrase, existing)
	if err != nil {
		return err
	}
	secret.Wipe(old)
	return nil
}

// EncryptFile encrypts the file at inPath into outPath.
func (c *Codec) EncryptFile(inPath, outPath string, pr preader.PassphraseReader) error {
	plaintext, err := c.readFile(inPath)
	if err != nil {
		return err
	}
	defer secret.Wipe(plaintext)

	pass, err := pr.ReadPassphrase()
	if err != nil {
		return err
	}
	defer pass.Destroy()

	armored, err := c.Encrypt(pass.Bytes(), plaintext)
	if err != nil {
		return err
	}
	return c.writeFile(outPath, []byte(armored))
}

// DecryptFile decrypts the armored file at inPath into outPath.
// The input is checked to be valid text before a passphrase is requested.
func (c *Codec) DecryptFile(inPath, outPath string, pr preader.PassphraseReader) error {
	armored, err := c.readArmored(inPath, "input file is not valid UTF-8")
	if err != nil {
		return err
	}

	pass, err := pr.ReadPassphrase()
	if err != nil {
		return err
	}
	defer pass.Destroy()

	plaintext, err := c.Decrypt(pass.Bytes(), armored)
	if err != nil {
		return err
	}
	defer secret.Wipe(plaintext)
	return c.writeFile(outPath, plaintext)
}

// UpdateFile re-encrypts the content of plainPath into cryptPath, which must already hold data encrypted with the
// passphrase pr produces. If cryptPath cannot be decrypted with that passphrase, it is left untouched.
// The passphrase is read once, no matter how many times it is used.
func (c *Codec) UpdateFile(plainPath, cryptPath string, pr preader.PassphraseReader) error {
	existing, err := c.readArmored(cryptPath, "encrypted file is not valid UTF-8")
	if err != nil {
		return err
	}

	cached := preader.NewCaching(pr)
	defer cached.Destroy()

	if err := c.validateWith(cached, existing); err != nil {
		return err
	}
	c.log.WithField("path", cryptPath).Debug("passphrase validated against existing file")

	plaintext, err := c.readFile(plainPath)
	if err != nil {
		return err
	}
	defer secret.Wipe(plaintext)

	pass, err := cached.ReadPassphrase()
	if err != nil {
		return err
	}
	defer pass.Destroy()

	armored, err := c.Encrypt(pass.Bytes(), plaintext)
	if err != nil {
		return err
	}
	return c.writeFile(cryptPath, []byte(armored))
}

func (c *Codec) validateWith(pr preader.PassphraseReader, existing string) error {
	pass, err := pr.ReadPassphrase()
	if err != nil {
		return err
	}
	defer pass.Destroy()
	return c.validate(pass.Bytes(), existing)
}

func (c *Codec) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		msg := fmt.Sprintf("failed to read from %s", path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, saltyerr.Wrap(saltyerr.User, saltyerr.Io, msg, err)
		}
		return nil, saltyerr.Wrap(saltyerr.Internal, saltyerr.Io, msg, err)
	}
	c.log.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(data),
	}).Debug("read input")
	return data, nil
}

func (c *Codec) readArmored(path string, invalidMsg string) (string, error) {
	data, err := c.readFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", saltyerr.WithKind(saltyerr.User, saltyerr.Io, invalidMsg)
	}
	return string(data), nil
}

func (c *Codec) writeFile(path string, data []byte) error {
	start := time.Now()
	if err := WriteAtomic(path, data, c.mode); err != nil {
		return saltyerr.WithContext(err, fmt.Sprintf("failed to write to %s", path))
	}
	c.log.WithFields(logrus.Fields{
		"path":    path,
		"bytes":   len(data),
		"elapsed": time.Since(start),
	}).Debug("atomic replace")
	return nil
}
