// Package diagnostics publishes analysis results to the editor as diagnostics.
package diagnostics

import (
	"context"
	"fmt"
	"sync"

	ideclient "github.com/flowr-analysis/flowr-lsp/src/flsp/gateway/ide-client"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "diagnostics"

// Controller keeps the diagnostics published to each editor session.
type Controller interface {
	// ApplyDiagnostics replaces the diagnostics of a document and publishes them to the session in ctx.
	ApplyDiagnostics(ctx context.Context, docURI uri.URI, diagnostics []protocol.Diagnostic) error
	// ClearDiagnostics publishes an empty set for a document, if any were published before.
	ClearDiagnostics(ctx context.Context, docURI uri.URI) error
	// GetDiagnostics returns what was last published for a document.
	GetDiagnostics(ctx context.Context, docURI uri.URI) ([]protocol.Diagnostic, error)
	// EndSession forgets the diagnostics of an editor session.
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
}

type diagnosticStore map[uuid.UUID]map[uri.URI][]protocol.Diagnostic

type controller struct {
	ideGateway    ideclient.Gateway
	logger        *zap.SugaredLogger
	diagnostics   diagnosticStore
	diagnosticsMu sync.Mutex
	stats         tally.Scope
}

// New creates a new diagnostics controller.
func New(p Params) Controller {
	return &controller{
		ideGateway:  p.IdeGateway,
		logger:      p.Logger.With("plugin", _nameKey),
		diagnostics: make(diagnosticStore),
		stats:       p.Stats.SubScope(_nameKey),
	}
}

func (c *controller) ApplyDiagnostics(ctx context.Context, docURI uri.URI, diagnostics []protocol.Diagnostic) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	c.diagnosticsMu.Lock()
	if _, ok := c.diagnostics[id]; !ok {
		c.diagnostics[id] = make(map[uri.URI][]protocol.Diagnostic)
	}
	c.diagnostics[id][docURI] = diagnostics
	c.diagnosticsMu.Unlock()

	c.logger.Debugf("publishing %d diagnostics for %s", len(diagnostics), docURI)
	c.stats.Counter("reported").Inc(int64(len(diagnostics)))
	c.stats.Counter("runs").Inc(1)
	if err := c.ideGateway.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: diagnostics,
	}); err != nil {
		c.stats.Counter("publish_errors").Inc(1)
		return fmt.Errorf("publishing diagnostics for %s: %w", docURI, err)
	}
	return nil
}

func (c *controller) ClearDiagnostics(ctx context.Context, docURI uri.URI) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}

	c.diagnosticsMu.Lock()
	_, published := c.diagnostics[id][docURI]
	delete(c.diagnostics[id], docURI)
	c.diagnosticsMu.Unlock()

	if !published {
		return nil
	}
	if err := c.ideGateway.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: []protocol.Diagnostic{},
	}); err != nil {
		return fmt.Errorf("clearing diagnostics for %s: %w", docURI, err)
	}
	return nil
}

func (c *controller) GetDiagnostics(ctx context.Context, docURI uri.URI) ([]protocol.Diagnostic, error) {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return nil, err
	}

	c.diagnosticsMu.Lock()
	defer c.diagnosticsMu.Unlock()
	return c.diagnostics[id][docURI], nil
}

func (c *controller) EndSession(ctx context.Context, id uuid.UUID) error {
	c.diagnosticsMu.Lock()
	defer c.diagnosticsMu.Unlock()
	delete(c.diagnostics, id)
	return nil
}
