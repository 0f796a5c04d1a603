package protocol

import (
	"errors"
	"strings"
)

// Error kinds. Match them with errors.Is.
var (
	ErrIO            = errors.New("i/o")
	ErrDecode        = errors.New("decode")
	ErrProtocolState = errors.New("protocol state")
	ErrDisconnected  = errors.New("disconnected")
	ErrCallbackPanic = errors.New("callback panic")
)

// Error is the error type surfaced by the stream and the client.
type Error struct {
	Kind   error
	Op     string
	Reason string // server-provided text for ErrDisconnected
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

// IOError wraps err as an ErrIO.
func IOError(op string, err error) error {
	return &Error{Kind: ErrIO, Op: op, Err: err}
}

// DecodeError wraps err as an ErrDecode.
func DecodeError(op string, err error) error {
	return &Error{Kind: ErrDecode, Op: op, Err: err}
}

// Disconnected builds an ErrDisconnected carrying the server's reason.
func Disconnected(reason string) error {
	return &Error{Kind: ErrDisconnected, Op: "server", Reason: reason}
}

// Reason returns the server-provided disconnect text in err, if any.
func Reason(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ""
}
