// Package flspdaemon implements the flsp-daemon service's JSON-RPC handlers.
package flspdaemon

import (
	"context"
	"fmt"

	controller "github.com/flowr-analysis/flowr-lsp/src/flsp/controller/flsp-daemon"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/flowr-analysis/flowr-lsp/src/internal/jsonrpcfx"
	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/zap"
)

// Handler accepts editor connections and hands each one a router.
type Handler interface {
	jsonrpcfx.ConnectionManager
}

// New constructs a new flsp-daemon Handler and registers it with the JSON-RPC module.
func New(ctrl controller.Controller, jsonrpcmod jsonrpcfx.JSONRPCModule, stats tally.Scope, logger *zap.SugaredLogger) (Handler, error) {
	c := &jsonRPCConnectionManager{
		ctrl:   ctrl,
		stats:  stats.SubScope("json_rpc"),
		logger: logger,
	}
	if err := jsonrpcmod.RegisterConnectionManager(c); err != nil {
		return nil, fmt.Errorf("registering connection manager: %w", err)
	}
	return c, nil
}

type jsonRPCConnectionManager struct {
	ctrl   controller.Controller
	stats  tally.Scope
	logger *zap.SugaredLogger
}

// NewConnection will store a new connection and return a router that includes its UUID.
func (c *jsonRPCConnectionManager) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router jsonrpcfx.Router, err error) {
	id, err := c.ctrl.InitSession(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	return &jsonRPCRouter{
		flspdaemon: c.ctrl,
		uuid:       id,
		stats:      c.stats,
	}, nil
}

// RemoveConnection cleans up a closed connection.
func (c *jsonRPCConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	// Ensure session is removed even if no Exit call has been received.
	ctx = context.WithValue(ctx, entity.SessionContextKey, id)
	if err := c.ctrl.EndSession(ctx, id); err != nil && c.logger != nil {
		c.logger.Warnf("ending session %s: %s", id, err)
	}
}
