package rpc

import "fmt"

// ErrorKind classifies a failed ledger call. The core never matches on
// remote error text; node responses are mapped to a kind here and callers
// branch on that.
type ErrorKind int

const (
	// ErrorKindTransport is a transient network, timeout or node failure.
	// The synchronizer and the submission path retry these with backoff.
	ErrorKindTransport ErrorKind = iota
	// ErrorKindRejected means the ledger refused the call. Never retried.
	ErrorKindRejected
	// ErrorKindNotFound means the queried entity does not exist (yet).
	ErrorKindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTransport:
		return "transport"
	case ErrorKindRejected:
		return "rejected"
	case ErrorKindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Error is a failed ledger call with its structured classification.
type Error struct {
	Kind ErrorKind
	Op   string
	Code int
	Msg  string
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("rpc %s: %s (code %d): %s", e.Op, e.Kind, e.Code, e.Msg)
	}
	return fmt.Sprintf("rpc %s: %s: %s", e.Op, e.Kind, e.Msg)
}

// IsTransport reports whether err is a transient ledger transport failure.
func IsTransport(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == ErrorKindTransport
}

// IsNotFound reports whether err means the queried entity is absent.
func IsNotFound(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == ErrorKindNotFound
}
