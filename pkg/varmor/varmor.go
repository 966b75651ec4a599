// Package varmor wraps binary crypttext in versioned, text-safe armor.
//
// Armored text is the magic marker "saltybox", a version number, a colon, and the URL-safe base64 encoding of the
// body without padding. A version that this package does not know how to unwrap is reported as such, so that older
// builds fail clearly on input produced by newer ones.
package varmor

import (
	"encoding/base64"
	"strings"

	"github.com/saylorsolutions/saltybox/pkg/saltyerr"
)

const (
	// MagicPrefix identifies any version of saltybox armor.
	MagicPrefix = "saltybox"
	// V1Magic is the full marker of the only supported armor version.
	V1Magic = MagicPrefix + "1:"
)

// Strict decoding rejects non-canonical trailing bits, so each body has exactly one armored form.
var encoding = base64.RawURLEncoding.Strict()

// Wrap armors body with the current armor version.
func Wrap(body []byte) string {
	var sb strings.Builder
	sb.Grow(len(V1Magic) + encoding.EncodedLen(len(body)))
	sb.WriteString(V1Magic)
	sb.WriteString(encoding.EncodeToString(body))
	return sb.String()
}

// Unwrap validates the armor of text and returns the decoded body.
func Unwrap(text string) ([]byte, error) {
	if len(text) < len(V1Magic) {
		return nil, saltyerr.WithKind(saltyerr.User, saltyerr.ArmoringInvalid, "input size smaller than magic marker; likely truncated")
	}
	if strings.HasPrefix(text, V1Magic) {
		encoded := text[len(V1Magic):]
		// The decoder skips line breaks on its own.
		if strings.ContainsAny(encoded, "\r\n") {
			return nil, saltyerr.WithKind(saltyerr.User, saltyerr.ArmoringDecode, "base64 decoding failed: unexpected line break")
		}
		body, err := encoding.DecodeString(encoded)
		if err != nil {
			return nil, saltyerr.Wrap(saltyerr.User, saltyerr.ArmoringDecode, "base64 decoding failed", err)
		}
		return body, nil
	}
	if strings.HasPrefix(text, MagicPrefix) {
		return nil, saltyerr.WithKind(saltyerr.User, saltyerr.ArmoringFromFuture, "input claims to be saltybox, but not a version we support")
	}
	return nil, saltyerr.WithKind(saltyerr.User, saltyerr.ArmoringInvalid, "input unrecognized as saltybox data")
}
