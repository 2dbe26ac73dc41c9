package errors

import (
	"fmt"

	"go.lsp.dev/protocol"
)

// DocumentNotFoundError indicates that a document is not open in the daemon.
type DocumentNotFoundError struct {
	Document protocol.TextDocumentIdentifier
}

// Error is an implementation of the error interface.
func (n *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document %q not found", n.Document.URI)
}

// DocumentOutdatedError indicates that a change was received for an older version of a document.
type DocumentOutdatedError struct {
	URI            protocol.DocumentURI
	CurrentVersion int32
	ChangeVersion  int32
}

// Error is an implementation of the error interface.
func (n *DocumentOutdatedError) Error() string {
	return fmt.Sprintf("document %q version is outdated.  Current version: %v, change version: %v", n.URI, n.CurrentVersion, n.ChangeVersion)
}

// DocumentSizeLimitError indicates that a document exceeds the configured size limit.
type DocumentSizeLimitError struct {
	Size  int64
	Limit int64
}

// Error is an implementation of the error interface.
func (n *DocumentSizeLimitError) Error() string {
	return fmt.Sprintf("document size %d bytes exceeds the limit of %d bytes", n.Size, n.Limit)
}
