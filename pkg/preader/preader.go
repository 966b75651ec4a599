// Package preader provides the sources a passphrase can be read from.
package preader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/saylorsolutions/saltybox/pkg/saltyerr"
	"github.com/saylorsolutions/saltybox/pkg/secret"
	"golang.org/x/term"
)

// Prompt is written before reading a passphrase interactively.
const Prompt = "Passphrase (saltybox): "

// PassphraseReader produces a passphrase on demand.
// The caller owns the returned secret and must destroy it.
type PassphraseReader interface {
	ReadPassphrase() (*secret.Secret, error)
}

var (
	_ PassphraseReader = (*Terminal)(nil)
	_ PassphraseReader = (*Reader)(nil)
	_ PassphraseReader = (*Constant)(nil)
	_ PassphraseReader = (*Caching)(nil)
)

// Terminal prompts on Out and reads a passphrase from In without echo.
type Terminal struct {
	In  *os.File
	Out io.Writer
}

// NewTerminal reads from stdin and prompts on stderr.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stderr}
}

func (t *Terminal) ReadPassphrase() (*secret.Secret, error) {
	fd := int(t.In.Fd())
	if !term.IsTerminal(fd) {
		return nil, saltyerr.WithKind(saltyerr.User, saltyerr.PassphraseUnavailable,
			"cannot read passphrase from terminal - stdin is not a terminal")
	}
	if _, err := fmt.Fprint(t.Out, Prompt); err != nil {
		return nil, saltyerr.Wrap(saltyerr.Internal, saltyerr.Io, "failed to write passphrase prompt", err)
	}
	pass, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(t.Out)
	if err != nil {
		return nil, saltyerr.Wrap(saltyerr.Internal, saltyerr.Io, "failed to read passphrase from terminal", err)
	}
	if !utf8.Valid(pass) {
		secret.Wipe(pass)
		return nil, saltyerr.WithKind(saltyerr.User, saltyerr.PassphraseUnavailable, "passphrase is not valid UTF-8")
	}
	return secret.New(pass), nil
}

// Reader consumes the entire content of an io.Reader as the passphrase, verbatim.
// Trailing newlines are part of the passphrase.
type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (r *Reader) ReadPassphrase() (*secret.Secret, error) {
	pass, err := readAll(r.r)
	if err != nil {
		return nil, saltyerr.Wrap(saltyerr.Internal, saltyerr.Io, "failed to read passphrase", err)
	}
	if !utf8.Valid(pass) {
		wipe(pass)
		return nil, saltyerr.WithKind(saltyerr.User, saltyerr.PassphraseUnavailable, "passphrase is not valid UTF-8")
	}
	return secret.New(pass), nil
}

const initialReadSize = 512

var wipe = secret.Wipe

// readAll reads r to EOF. Every backing array it outgrows is wiped, so no stray copies of the content are left
// for the garbage collector. On error everything read so far is wiped.
func readAll(r io.Reader) ([]byte, error) {
	buf := make([]byte, 0, initialReadSize)
	for {
		if len(buf) == cap(buf) {
			grown := make([]byte, len(buf), 2*cap(buf))
			copy(grown, buf)
			wipe(buf)
			buf = grown
		}
		n, err := r.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]
		if errors.Is(err, io.EOF) {
			return buf, nil
		}
		if err != nil {
			wipe(buf[:cap(buf)])
			return nil, err
		}
	}
}

// Constant always returns the same passphrase.
type Constant struct {
	value string
}

func NewConstant(passphrase string) *Constant {
	return &Constant{value: passphrase}
}

func (c *Constant) ReadPassphrase() (*secret.Secret, error) {
	return secret.FromString(c.value), nil
}

// Caching reads from its upstream at most once, and hands out copies of that passphrase afterward.
// A failed upstream read is not cached.
type Caching struct {
	mux      sync.Mutex
	upstream PassphraseReader
	cached   *secret.Secret
}

func NewCaching(upstream PassphraseReader) *Caching {
	return &Caching{upstream: upstream}
}

func (c *Caching) ReadPassphrase() (*secret.Secret, error) {
	c.mux.Lock()
	defer c.mux.Unlock()
	if c.cached == nil {
		pass, err := c.upstream.ReadPassphrase()
		if err != nil {
			return nil, err
		}
		c.cached = pass
	}
	cp, err := c.cached.Clone()
	if err != nil {
		return nil, saltyerr.Wrap(saltyerr.Internal, saltyerr.InternalInvariant, "cached passphrase is unusable", err)
	}
	return cp, nil
}

// Destroy wipes the cached passphrase, if any. The next read goes upstream again.
func (c *Caching) Destroy() {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.cached.Destroy()
	c.cached = nil
}
