package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "document not found",
			err:  &DocumentNotFoundError{},
		},
		{
			name: "document outdated",
			err:  &DocumentOutdatedError{},
		},
		{
			name: "document size limit",
			err:  &DocumentSizeLimitError{Size: 10, Limit: 5},
		},
		{
			name: "no session found",
			err:  &NoSessionFoundError{},
		},
		{
			name: "transport",
			err:  &TransportError{Op: "dial", Err: New("refused")},
		},
		{
			name: "protocol timeout",
			err:  &ProtocolTimeoutError{Reason: "connection closed"},
		},
		{
			name: "protocol timeout with id",
			err:  &ProtocolTimeoutError{RequestID: "1", Reason: "connection closed"},
		},
		{
			name: "malformed response",
			err:  &MalformedResponseError{Expected: "response-slice"},
		},
		{
			name: "remote query",
			err:  &RemoteQueryError{RequestID: "2", Reason: "parse error"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.err)
			assert.True(t, len(tt.err.Error()) > 0)
		})
	}
}

func TestTaxonomyPredicates(t *testing.T) {
	transport := fmt.Errorf("initialize: %w", &TransportError{Op: "read", Err: New("reset")})
	timeout := fmt.Errorf("slice: %w", &ProtocolTimeoutError{RequestID: "3", Reason: "connection closed"})
	malformed := fmt.Errorf("slice: %w", &MalformedResponseError{Expected: "response-slice", Reason: "not json"})
	remote := fmt.Errorf("slice: %w", &RemoteQueryError{RequestID: "3", Reason: "unknown file token"})

	assert.True(t, IsTransport(transport))
	assert.False(t, IsTransport(remote))
	assert.True(t, IsProtocolTimeout(timeout))
	assert.True(t, IsMalformedResponse(malformed))
	assert.True(t, IsRemoteQuery(remote))

	assert.True(t, IsSessionTerminal(transport))
	assert.True(t, IsSessionTerminal(timeout))
	assert.True(t, IsSessionTerminal(fmt.Errorf("query: %w", SessionClosedError)))
	assert.False(t, IsSessionTerminal(malformed))
	assert.False(t, IsSessionTerminal(remote))
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := New("connection refused")
	err := &TransportError{Op: "dial", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "transport dial: connection refused", err.Error())
}
