package secretcrypt

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	bin "github.com/saylorsolutions/binmap"
	"github.com/saylorsolutions/saltybox/pkg/saltyerr"
)

const (
	SaltLen  = 8
	NonceLen = 24

	lengthFieldLen = 8
	// HeaderLen is the number of bytes preceding the sealed box in an encoded Envelope.
	HeaderLen = SaltLen + NonceLen + lengthFieldLen
)

var order = binary.BigEndian

// Salt is the unencrypted scrypt salt stored in an Envelope.
type Salt [SaltLen]byte

// Nonce is the unencrypted secretbox nonce stored in an Envelope.
type Nonce [NonceLen]byte

// Envelope is the binary container: salt, nonce, sealed box length as a big-endian int64, and the sealed box.
type Envelope struct {
	Salt      Salt
	Nonce     Nonce
	SealedBox []byte
}

// fixedBytes maps a pre-sized byte slice verbatim; byte order is irrelevant for raw bytes.
type fixedBytes []byte

func (f fixedBytes) Read(r io.Reader, _ binary.ByteOrder) error {
	_, err := io.ReadFull(r, f)
	return err
}

func (f fixedBytes) Write(w io.Writer, _ binary.ByteOrder) error {
	_, err := w.Write(f)
	return err
}

func (e *Envelope) mapper(sealedLen *uint64) bin.Mapper {
	return bin.MapSequence(
		fixedBytes(e.Salt[:]),
		fixedBytes(e.Nonce[:]),
		bin.Int(sealedLen),
		fixedBytes(e.SealedBox),
	)
}

// Encode serializes the Envelope.
func (e *Envelope) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderLen + len(e.SealedBox))
	// The length is written as the two's complement bits of an int64.
	sealedLen := uint64(int64(len(e.SealedBox)))
	if err := e.mapper(&sealedLen).Write(&buf, order); err != nil {
		return nil, saltyerr.Wrap(saltyerr.Internal, saltyerr.InternalInvariant, "failed to encode envelope", err)
	}
	return buf.Bytes(), nil
}

// DecodeEnvelope parses an encoded Envelope, checking each field in order so that a truncated input can be
// told apart from one that is complete but structurally invalid.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	r := bytes.NewReader(data)

	if r.Len() < SaltLen {
		return nil, truncated("input likely truncated while reading salt")
	}
	if err := fixedBytes(env.Salt[:]).Read(r, order); err != nil {
		return nil, invariant(err)
	}

	if r.Len() < NonceLen {
		return nil, truncated("input likely truncated while reading nonce")
	}
	if err := fixedBytes(env.Nonce[:]).Read(r, order); err != nil {
		return nil, invariant(err)
	}

	if r.Len() < lengthFieldLen {
		return nil, truncated("input likely truncated while reading sealed box")
	}
	var rawLen uint64
	if err := bin.Int(&rawLen).Read(r, order); err != nil {
		return nil, invariant(err)
	}
	sealedLen := int64(rawLen)

	if sealedLen < 0 {
		return nil, malformed("negative sealed box length (when interpreted as a big-endian int64)")
	}
	if uint64(sealedLen) > uint64(math.MaxInt) {
		// Valid input can fail this on platforms with a small int.
		return nil, malformed("sealed box length exceeds this system's max int")
	}
	if sealedLen > int64(len(data)) {
		return nil, malformed("truncated or corrupt input; claimed length greater than available input")
	}
	if int64(r.Len()) < sealedLen {
		return nil, truncated("truncated or corrupt input (while reading sealed box)")
	}
	env.SealedBox = make([]byte, sealedLen)
	if err := fixedBytes(env.SealedBox).Read(r, order); err != nil {
		return nil, invariant(err)
	}

	if r.Len() > 0 {
		return nil, saltyerr.WithKind(saltyerr.User, saltyerr.TrailingData, "invalid input: unexpected data after sealed box")
	}
	return &env, nil
}

func truncated(msg string) error {
	return saltyerr.WithKind(saltyerr.User, saltyerr.TruncatedInput, msg)
}

func malformed(msg string) error {
	return saltyerr.WithKind(saltyerr.User, saltyerr.BinaryFormat, msg)
}

func invariant(err error) error {
	return saltyerr.Wrap(saltyerr.Internal, saltyerr.InternalInvariant, "read failed despite sufficient input", err)
}
