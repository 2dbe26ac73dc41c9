// Package connection owns the session with the analysis server.
// The session is created on first use or on an explicit connect, and destroyed on
// disconnect or when the daemon stops. A failed or disconnected session stays current
// until the next explicit connect; it is never redialed implicitly.
package connection

import (
	"context"
	"fmt"
	"sync"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	flowrclient "github.com/flowr-analysis/flowr-lsp/src/flsp/gateway/flowr-client"
	"github.com/flowr-analysis/flowr-lsp/src/internal/clock"
	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/flowr-analysis/flowr-lsp/src/internal/executor"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey   = "connection"
	_configKey = "flowr"
)

// Controller hands out the current analysis server session.
type Controller interface {
	// Session returns the connected session, connecting first if there has never been one.
	// Once the session ended, it fails with SessionClosedError until Connect is called.
	Session(ctx context.Context) (flowrclient.Session, error)
	// Connect replaces the current session with a fresh connection.
	Connect(ctx context.Context) (entity.Status, error)
	// Disconnect destroys the current session, if any.
	Disconnect(ctx context.Context) error
	// Status describes the current session without connecting.
	Status(ctx context.Context) entity.Status
	// Config returns the flowr configuration block.
	Config() entity.FlowrConfig
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Config    config.Provider
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Executor  executor.Executor
	Clock     clock.Clock
	Lifecycle fx.Lifecycle
}

type sessionFactory func(opts flowrclient.Options) flowrclient.Session

type controller struct {
	cfg        entity.FlowrConfig
	dialer     flowrclient.Dialer
	logger     *zap.SugaredLogger
	stats      tally.Scope
	newSession sessionFactory

	// connectMu serializes connection attempts, mu guards current.
	connectMu sync.Mutex
	mu        sync.Mutex
	current   flowrclient.Session
}

// New creates the connection controller. It does not connect.
func New(p Params) (Controller, error) {
	var cfg entity.FlowrConfig
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("unable to get %s config: %w", _configKey, err)
	}

	logger := p.Logger.With("plugin", _nameKey)
	dialer, err := flowrclient.NewDialer(cfg.Connection, p.Executor, p.Clock, logger)
	if err != nil {
		return nil, fmt.Errorf("configuring analysis server connection: %w", err)
	}

	c := &controller{
		cfg:        cfg,
		dialer:     dialer,
		logger:     logger,
		stats:      p.Stats.SubScope(_nameKey),
		newSession: flowrclient.New,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Disconnect(ctx)
		},
	})
	return c, nil
}

func (c *controller) Session(ctx context.Context) (flowrclient.Session, error) {
	c.connectMu.Lock()
	defer c.connectMu.Unlock()

	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if current == nil {
		return c.connectLocked(ctx, nil)
	}
	if state := current.State(); state != entity.SessionStateConnected {
		c.stats.Counter("ended_session_uses").Inc(1)
		return nil, fmt.Errorf("analysis server session at %s is %s, use %s to reconnect: %w",
			c.dialer, state, entity.MethodConnect, flsperrors.SessionClosedError)
	}
	return current, nil
}

func (c *controller) Connect(ctx context.Context) (entity.Status, error) {
	c.connectMu.Lock()
	defer c.connectMu.Unlock()

	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	_, err := c.connectLocked(ctx, current)
	return c.Status(ctx), err
}

// connectLocked replaces previous with a new session. connectMu must be held.
func (c *controller) connectLocked(ctx context.Context, previous flowrclient.Session) (flowrclient.Session, error) {
	if previous != nil {
		if err := previous.Destroy(); err != nil {
			c.logger.Warnf("releasing previous session: %s", err)
		}
	}

	s := c.newSession(flowrclient.Options{
		Dialer:               c.dialer,
		Logger:               c.logger,
		Stats:                c.stats,
		HandshakeTimeout:     c.cfg.HandshakeTimeout,
		MinimumServerVersion: c.cfg.MinimumServerVersion,
		StallTimeout:         c.cfg.RequestTimeout,
	})
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()

	c.stats.Counter("connects").Inc(1)
	if err := s.Initialize(ctx); err != nil {
		c.stats.Counter("connect_errors").Inc(1)
		return nil, fmt.Errorf("connecting to analysis server at %s: %w", c.dialer, err)
	}
	return s, nil
}

// Disconnect destroys the current session and keeps it as the ended session.
func (c *controller) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	if current == nil {
		return nil
	}
	c.logger.Infof("disconnecting from %s", c.dialer)
	return current.Destroy()
}

func (c *controller) Status(ctx context.Context) entity.Status {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	status := entity.Status{
		State:  entity.SessionStateDisconnected,
		Server: c.dialer.String(),
	}
	if current == nil {
		return status
	}
	status.State = current.State()
	if status.State == entity.SessionStateConnected {
		info := current.Info()
		status.Info = &info
	}
	return status
}

func (c *controller) Config() entity.FlowrConfig {
	return c.cfg
}
