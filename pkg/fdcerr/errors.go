// Package fdcerr defines the tagged error kinds surfaced at the core
// boundary. The core packages return *Error rather than a bare error so
// callers can switch on Kind without string matching; the transport in
// pkg/transport/noisetcp returns plain wrapped errors for its own I/O
// and handshake failures.
package fdcerr

import "fmt"

// Kind classifies the distinct ways a chain operation can fail.
type Kind int

const (
	// BadEncoding covers malformed base64/binary input, non-group-element
	// points, and non-canonical scalars.
	BadEncoding Kind = iota
	// InvalidSignature means a Schnorr verification failed.
	InvalidSignature
	// BrokenChain means a pushed record's hprev did not match the chain's
	// lhash (this includes a head pushed onto an existing chain), or,
	// during recovery, a decrypted lprev did not match its predecessor's
	// lambda.
	BrokenChain
	// NotHeadRecord means the record passed to New has an hprev other
	// than salt(id,table), which is also how a tail passed to New fails.
	NotHeadRecord
	// DecryptFailed covers CBC decryption or inner deserialization failure.
	DecryptFailed
	// BadShare means shares were combined across mismatched indices, or
	// fewer than t+1 shares were supplied to a recovery.
	BadShare
)

func (k Kind) String() string {
	switch k {
	case BadEncoding:
		return "BadEncoding"
	case InvalidSignature:
		return "InvalidSignature"
	case BrokenChain:
		return "BrokenChain"
	case NotHeadRecord:
		return "NotHeadRecord"
	case DecryptFailed:
		return "DecryptFailed"
	case BadShare:
		return "BadShare"
	default:
		return "Unknown"
	}
}

// Error is the single tagged error type returned at the core boundary.
type Error struct {
	Kind    Kind
	Msg     string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// New builds an *Error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error carrying an underlying cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Wrapped: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
