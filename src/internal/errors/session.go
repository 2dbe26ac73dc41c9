package errors

import (
	stderr "errors"
	"fmt"

	"github.com/gofrs/uuid"
)

// SessionNotFoundError reports an editor session id without a registered session.
type SessionNotFoundError struct {
	UUID uuid.UUID
}

func (n *SessionNotFoundError) Error() string {
	return fmt.Sprintf("editor session %s is not registered", n.UUID)
}

// IsSessionNotFound returns the missing session id and true if a SessionNotFoundError is part of the error chain.
func IsSessionNotFound(e error) (_ uuid.UUID, ok bool) {
	var nf *SessionNotFoundError
	if !stderr.As(e, &nf) {
		return uuid.Nil, false
	}
	return nf.UUID, true
}

// NoSessionFoundError indicates that a request context carries no editor session id.
type NoSessionFoundError struct{}

func (n *NoSessionFoundError) Error() string {
	return "no editor session in context"
}
