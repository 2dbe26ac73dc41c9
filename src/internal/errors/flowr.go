package errors

import (
	stderr "errors"
	"fmt"
)

// TransportError reports that the connection to the analysis server could not be opened or broke.
// It is terminal for the session it occurred in.
type TransportError struct {
	Op  string
	Err error
}

// Error is an implementation of the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolTimeoutError reports that a response never arrived, either because the
// session was torn down while the request was outstanding or because the handshake timed out.
type ProtocolTimeoutError struct {
	RequestID string
	Reason    string
}

// Error is an implementation of the error interface.
func (e *ProtocolTimeoutError) Error() string {
	if e.RequestID == "" {
		return fmt.Sprintf("no response received: %s", e.Reason)
	}
	return fmt.Sprintf("no response received for request %q: %s", e.RequestID, e.Reason)
}

// MalformedResponseError reports a frame that is not valid JSON or lacks an expected field.
type MalformedResponseError struct {
	Expected string
	Reason   string
	Frame    []byte
}

// Error is an implementation of the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %s", e.Expected, e.Reason)
}

// RemoteQueryError reports that the server could not complete a request.
type RemoteQueryError struct {
	RequestID string
	Fatal     bool
	Reason    string
}

// Error is an implementation of the error interface.
func (e *RemoteQueryError) Error() string {
	return fmt.Sprintf("server failed request %q: %s", e.RequestID, e.Reason)
}

// IsTransport reports whether a TransportError is part of the error chain.
func IsTransport(e error) bool {
	var te *TransportError
	return stderr.As(e, &te)
}

// IsProtocolTimeout reports whether a ProtocolTimeoutError is part of the error chain.
func IsProtocolTimeout(e error) bool {
	var te *ProtocolTimeoutError
	return stderr.As(e, &te)
}

// IsMalformedResponse reports whether a MalformedResponseError is part of the error chain.
func IsMalformedResponse(e error) bool {
	var me *MalformedResponseError
	return stderr.As(e, &me)
}

// IsRemoteQuery reports whether a RemoteQueryError is part of the error chain.
func IsRemoteQuery(e error) bool {
	var re *RemoteQueryError
	return stderr.As(e, &re)
}

// IsSessionTerminal reports whether the error ends the session it occurred in.
// Per-query errors leave the session usable.
func IsSessionTerminal(e error) bool {
	return IsTransport(e) || IsProtocolTimeout(e) || stderr.Is(e, SessionClosedError)
}
