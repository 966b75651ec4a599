package fileops

import (
	"crypto/rand"
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultFileMode is applied to every file written, since both plaintext and crypttext are secrets at rest.
const DefaultFileMode os.FileMode = 0600

type Option = func(*Codec) error

// WithLogger sets the logger that receives per-stage debug output. Secrets are never logged.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Codec) error {
		if log == nil {
			return errors.New("nil logger")
		}
		c.log = log
		return nil
	}
}

// WithFileMode overrides the permission bits of written files.
func WithFileMode(mode os.FileMode) Option {
	return func(c *Codec) error {
		if mode&^os.ModePerm != 0 {
			return errors.New("file mode may only contain permission bits")
		}
		c.mode = mode
		return nil
	}
}

// WithRandom sets the source of salts and nonces. This is only useful for reproducible tests.
func WithRandom(random io.Reader) Option {
	return func(c *Codec) error {
		if random == nil {
			return errors.New("nil random source")
		}
		c.random = random
		return nil
	}
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func defaults(c *Codec) {
	c.log = discardLogger()
	c.mode = DefaultFileMode
	c.random = rand.Reader
}
