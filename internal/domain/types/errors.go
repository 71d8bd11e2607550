package types

// ErrorKind classifies failures so callers can branch on cause without the
// core distinguishing AuthFailure sub-causes (tag mismatch vs signature
// mismatch vs wallet mismatch are deliberately indistinguishable to
// callers).
type ErrorKind int

const (
	// KindAuthFailure covers AEAD tag mismatch, signature mismatch, and
	// wallet-address mismatch, collapsed into one generic rejection.
	KindAuthFailure ErrorKind = iota
	// KindNotFound covers an unpublished peer bundle or an envelope whose
	// conversation is unknown.
	KindNotFound
	// KindInvalidArgument covers sending to self, malformed topics, and
	// unknown content-type codecs.
	KindInvalidArgument
	// KindTransport covers relay unavailability, timeouts, and disconnects.
	KindTransport
	// KindInvariant covers programmer errors such as a missing private key
	// bundle where one is required.
	KindInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthFailure:
		return "auth_failure"
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindTransport:
		return "transport"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is the core's single error type; Kind lets callers branch while the
// message carries detail for logs.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an *Error, optionally wrapping a lower-level cause.
func NewError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// ErrAuthFailure is a ready-made sentinel for callers comparing with
// errors.Is; it carries no message of its own. Most call sites prefer
// NewError(KindAuthFailure, ...) to attach context.
var ErrAuthFailure = &Error{Kind: KindAuthFailure, Msg: "could not decrypt/verify"}

// Is implements errors.Is support by Kind rather than pointer identity, so
// errors.Is(err, types.ErrAuthFailure) matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var _ error = (*Error)(nil)
