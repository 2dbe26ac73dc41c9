// Package errors holds the error taxonomy shared by the daemon's layers.
package errors

import stderr "errors"

// New returns an error that formats as the given text.
func New(msg string) error {
	return stderr.New(msg)
}

// SessionClosedError reports that an analysis session was used after it was destroyed.
var SessionClosedError = New("session is closed")
