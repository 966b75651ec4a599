// Package secret holds sensitive byte sequences (passphrases, derived keys) in locked memory that is
// overwritten when the owner calls Destroy, instead of waiting for the garbage collector.
package secret

import (
	"errors"

	"github.com/awnumar/memguard"
)

var ErrDestroyed = errors.New("secret has been destroyed")

// Secret is an owned, read-only secret buffer.
// The zero value and nil are both valid empty secrets.
type Secret struct {
	buf       *memguard.LockedBuffer
	destroyed bool
}

// New moves src into a locked buffer. The caller's slice is wiped.
func New(src []byte) *Secret {
	return &Secret{buf: memguard.NewBufferFromBytes(src)}
}

// FromString copies s into a locked buffer.
// The string itself cannot be wiped, so this should be reserved for tests and constants.
func FromString(s string) *Secret {
	return New([]byte(s))
}

// Bytes exposes the secret bytes. The returned slice must not be retained after Destroy.
func (s *Secret) Bytes() []byte {
	if s == nil || s.buf == nil || s.destroyed {
		return nil
	}
	return s.buf.Bytes()
}

// Len is the length of the secret in bytes.
func (s *Secret) Len() int {
	return len(s.Bytes())
}

// Alive reports whether the secret has not yet been destroyed.
func (s *Secret) Alive() bool {
	return s == nil || !s.destroyed
}

// Clone creates an independent copy that must be destroyed separately.
func (s *Secret) Clone() (*Secret, error) {
	if !s.Alive() {
		return nil, ErrDestroyed
	}
	src := s.Bytes()
	cp := make([]byte, len(src))
	copy(cp, src)
	return New(cp), nil
}

// Array32 exposes a 32 byte secret as an array pointer, which is what nacl primitives consume.
func (s *Secret) Array32() (*[32]byte, error) {
	if !s.Alive() {
		return nil, ErrDestroyed
	}
	if s.Len() != 32 {
		return nil, errors.New("secret is not 32 bytes long")
	}
	return s.buf.ByteArray32(), nil
}

// Destroy wipes and releases the underlying memory. It is safe to call more than once.
func (s *Secret) Destroy() {
	if s == nil || s.destroyed {
		return
	}
	s.destroyed = true
	if s.buf != nil {
		s.buf.Destroy()
	}
}

// Wipe overwrites b with zeroes.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
