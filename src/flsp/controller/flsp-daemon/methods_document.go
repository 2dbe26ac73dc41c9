package flspdaemon

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"
)

func (c *controller) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	return c.documents.DidOpen(ctx, params)
}

// DidChange stores the new text and refreshes the slice of the document, if it has one.
// A failed refresh is reported to the editor log and does not fail the notification.
func (c *controller) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if err := c.documents.DidChange(ctx, params); err != nil {
		return err
	}

	if _, err := c.slicer.Refresh(ctx, params.TextDocument.TextDocumentIdentifier); err != nil {
		c.logMessage(ctx, protocol.MessageTypeWarning, fmt.Sprintf("updating slice of %s: %s", params.TextDocument.URI, err))
	}
	return nil
}

// DidClose forgets a document and removes its diagnostics.
func (c *controller) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	doc := params.TextDocument
	if err := c.slicer.DidClose(ctx, doc); err != nil {
		c.logger.Warnf("closing slice of %s: %s", doc.URI, err)
	}
	if err := c.dependencies.DidClose(ctx, doc); err != nil {
		c.logger.Warnf("closing dependencies of %s: %s", doc.URI, err)
	}
	if err := c.diagnostics.ClearDiagnostics(ctx, doc.URI); err != nil {
		c.logger.Warnf("clearing diagnostics of %s: %s", doc.URI, err)
	}
	return c.documents.DidClose(ctx, params)
}

func (c *controller) logMessage(ctx context.Context, messageType protocol.MessageType, message string) {
	c.logger.Warn(message)
	if err := c.ideGateway.LogMessage(ctx, &protocol.LogMessageParams{Type: messageType, Message: message}); err != nil {
		c.logger.Warnf("sending log message: %s", err)
	}
}
