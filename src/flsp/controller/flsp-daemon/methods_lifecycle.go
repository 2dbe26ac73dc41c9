package flspdaemon

import (
	"context"
	"fmt"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
	"go.lsp.dev/protocol"
)

// Initialize stores the editor's parameters and announces full document sync.
func (c *controller) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting session from context: %w", err)
	}

	s.InitializeParams = params
	s.WorkspaceRoot = mapper.WorkspaceRoot(params)
	if err := c.sessions.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("setting updated session state: %w", err)
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name: _serverName,
		},
	}, nil
}

// Initialized reports where the analysis server is expected. The connection itself is opened on first use.
func (c *controller) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	status := c.connection.Status(ctx)
	c.logger.Infow("editor initialized", "session", s.UUID, "workspaceRoot", s.WorkspaceRoot, "server", status.Server)
	if err := c.ideGateway.LogMessage(ctx, &protocol.LogMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: fmt.Sprintf("%s initialized, analysis server at %s", _serverName, status.Server),
	}); err != nil {
		c.logger.Warnf("sending log message: %s", err)
	}
	return nil
}

// Shutdown only checks that the editor has a session. Cleanup waits for Exit.
func (c *controller) Shutdown(ctx context.Context) error {
	if _, err := c.sessions.GetFromContext(ctx); err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}
	return nil
}

// Exit ends the editor's session and its document state. After RequestFullShutdown
// it stops the daemon instead.
func (c *controller) Exit(ctx context.Context) error {
	c.idleTimerMu.Lock()
	if c.fullShutdown {
		// The idle timer owns daemon shutdown.
		c.idleTimer.Reset(0)
		c.idleTimerMu.Unlock()
		return nil
	}
	c.idleTimerMu.Unlock()

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("error during session exit: %w", err)
	}
	return c.EndSession(ctx, s.UUID)
}
