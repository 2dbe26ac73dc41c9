// Package flspdaemon implements the flsp-daemon business logic.
package flspdaemon

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/connection"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/dependencies"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/diagnostics"
	docsync "github.com/flowr-analysis/flowr-lsp/src/flsp/controller/doc-sync"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/slicer"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	ideclient "github.com/flowr-analysis/flowr-lsp/src/flsp/gateway/ide-client"
	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/repository/session"
	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	// Configuration keys
	_idleTimeoutMinutesKey = "idleTimeoutMinutes"

	_serverName = "flowR Language Server"
)

// Controller orchestrates the business logic for each request.
type Controller interface {
	// LSP Methods defined per protocol.
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) error
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error

	// Document related methods.
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error

	// Analysis server methods.
	Connect(ctx context.Context) (*entity.Status, error)
	Disconnect(ctx context.Context) (*entity.Status, error)
	Status(ctx context.Context) (*entity.Status, error)
	ToggleCriterion(ctx context.Context, params *entity.ToggleCriterionParams) (*entity.SliceState, error)
	ClearSlice(ctx context.Context, params *entity.DocumentParams) (*entity.SliceState, error)
	Reconstruct(ctx context.Context, params *entity.DocumentParams) (*entity.Reconstruction, error)
	Dependencies(ctx context.Context, params *entity.DocumentParams) (*entity.DependencyView, error)

	// Custom methods for use within this service.
	RequestFullShutdown(ctx context.Context) error
	InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error)
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Shutdowner fx.Shutdowner
	Sessions   session.Repository
	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
	Config     config.Provider
	Stats      tally.Scope

	Connection   connection.Controller
	Documents    docsync.Controller
	Diagnostics  diagnostics.Controller
	Slicer       slicer.Controller
	Dependencies dependencies.Controller
}

// sessionPlugin is implemented by every controller that keeps per editor state.
type sessionPlugin interface {
	EndSession(ctx context.Context, id uuid.UUID) error
}

type controller struct {
	sessions   session.Repository
	shutdowner fx.Shutdowner
	ideGateway ideclient.Gateway
	logger     *zap.SugaredLogger
	stats      tally.Scope

	connection   connection.Controller
	documents    docsync.Controller
	diagnostics  diagnostics.Controller
	slicer       slicer.Controller
	dependencies dependencies.Controller
	plugins      map[string]sessionPlugin

	fullShutdown bool
	idleTimeout  time.Duration
	idleTimer    *time.Timer
	idleTimerMu  sync.Mutex
}

// New constructs a new top-level controller for the service.
func New(p Params) (Controller, error) {
	var timeoutMinutesRaw int64
	if err := p.Config.Get(_idleTimeoutMinutesKey).Populate(&timeoutMinutesRaw); err != nil || timeoutMinutesRaw <= 0 {
		return nil, fmt.Errorf("unable to get idle timeout from config: %w", err)
	}

	c := &controller{
		sessions:     p.Sessions,
		shutdowner:   p.Shutdowner,
		ideGateway:   p.IdeGateway,
		logger:       p.Logger,
		stats:        p.Stats,
		connection:   p.Connection,
		documents:    p.Documents,
		diagnostics:  p.Diagnostics,
		slicer:       p.Slicer,
		dependencies: p.Dependencies,
		idleTimeout:  time.Duration(timeoutMinutesRaw) * time.Minute,
		plugins: map[string]sessionPlugin{
			"slicer":       p.Slicer,
			"dependencies": p.Dependencies,
			"diagnostics":  p.Diagnostics,
			"doc_sync":     p.Documents,
		},
	}
	c.refreshIdleTimer(context.Background())
	return c, nil
}

// InitSession creates a new empty session and returns its UUID.
func (c *controller) InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error) {
	defer c.refreshIdleTimer(ctx)

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	if err := c.ideGateway.RegisterClient(ctx, id, conn); err != nil {
		return uuid.Nil, err
	}
	if err := c.sessions.Set(ctx, &entity.EditorSession{UUID: id, Conn: conn}); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// EndSession releases everything kept for an editor session. It is safe to call more than once.
func (c *controller) EndSession(ctx context.Context, id uuid.UUID) error {
	defer c.refreshIdleTimer(ctx)

	var errs error
	for name, plugin := range c.plugins {
		if err := plugin.EndSession(ctx, id); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("plugin %q: %w", name, err))
		}
	}
	if errs != nil {
		c.logger.Errorf("ending session %s: %s", id, errs)
	}

	if err := c.ideGateway.DeregisterClient(ctx, id); err != nil {
		c.logger.Error(err)
	}
	if _, err := c.sessions.Get(ctx, id); err != nil {
		if _, ok := flsperrors.IsSessionNotFound(err); ok {
			return nil
		}
		return err
	}
	return c.sessions.Delete(ctx, id)
}

// RequestFullShutdown will set the controller to treat subsequent Exit requests as requests to exit the entire process.
func (c *controller) RequestFullShutdown(ctx context.Context) error {
	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()
	c.fullShutdown = true
	return nil
}

// refreshIdleTimer shuts the service down after a period without connections.
func (c *controller) refreshIdleTimer(ctx context.Context) {
	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	// First call arms the timer before the first connection.
	if c.idleTimer == nil {
		c.idleTimer = time.AfterFunc(c.idleTimeout, c.shutdown)
		return
	}

	count, err := c.sessions.SessionCount(ctx)
	if err != nil {
		c.logger.Errorf("resetting idle timer: %s", err)
		return
	}

	c.idleTimer.Stop()
	if count == 0 {
		c.idleTimer.Reset(c.idleTimeout)
	}
}

func (c *controller) shutdown() {
	c.logger.Info("Shutdown signal received.")
	if err := c.shutdowner.Shutdown(); err != nil {
		os.Exit(1)
	}
}
