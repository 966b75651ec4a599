package saltyerr

import (
	"errors"
)

// Category is the broad classification of a failure, always present on an Error.
type Category int

const (
	// Internal is any failure that cannot be confidently attributed to the caller.
	// It is never a guarantee that the failure was not, for example, caused by bad input.
	Internal Category = iota
	// User means the caller provided invalid input or asked for something impossible.
	User
)

func (c Category) String() string {
	switch c {
	case User:
		return "user"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Kind is an optional fine-grained condition tag.
// A Kind is itself an error so it can be used as the target of errors.Is.
type Kind string

func (k Kind) Error() string {
	return string(k)
}

const (
	ArmoringInvalid       Kind = "armoring invalid"
	ArmoringDecode        Kind = "armoring decode failed"
	ArmoringFromFuture    Kind = "armoring from a future version"
	BinaryFormat          Kind = "invalid binary format"
	TruncatedInput        Kind = "truncated input"
	TrailingData          Kind = "trailing data"
	AuthenticationFailed  Kind = "authentication failed"
	PassphraseUnavailable Kind = "passphrase unavailable"
	ScryptFailure         Kind = "scrypt failure"
	SecretboxFailure      Kind = "secretbox failure"
	InternalInvariant     Kind = "internal invariant violated"
	Io                    Kind = "i/o failure"
)

// Error is the concrete error type returned by the saltybox packages.
// Consumers must handle an empty Kind.
type Error struct {
	Category Category
	Kind     Kind
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a Kind target against the kind carried by this error.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	if !ok {
		return false
	}
	return e.Kind != "" && e.Kind == k
}

// New creates an Error with no kind.
func New(category Category, msg string) *Error {
	return &Error{Category: category, Msg: msg}
}

// WithKind creates an Error tagged with a kind.
func WithKind(category Category, kind Kind, msg string) *Error {
	return &Error{Category: category, Kind: kind, Msg: msg}
}

// Wrap creates an Error tagged with a kind that retains cause as its underlying error.
func Wrap(category Category, kind Kind, msg string, cause error) *Error {
	return &Error{Category: category, Kind: kind, Msg: msg, Err: cause}
}

// WithContext wraps err with a higher-level message, preserving the category and kind of the
// closest Error in the chain. Errors from outside this package are treated as Internal.
func WithContext(err error, msg string) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return &Error{Category: se.Category, Kind: se.Kind, Msg: msg, Err: err}
	}
	return &Error{Category: Internal, Msg: msg, Err: err}
}

// CategoryOf reports the category of the first Error in the chain, or Internal if there is none.
func CategoryOf(err error) Category {
	var se *Error
	if errors.As(err, &se) {
		return se.Category
	}
	return Internal
}

// KindOf reports the kind of the first Error in the chain that carries one.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		var se *Error
		if !errors.As(err, &se) {
			return "", false
		}
		if se.Kind != "" {
			return se.Kind, true
		}
		err = se.Err
	}
	return "", false
}
