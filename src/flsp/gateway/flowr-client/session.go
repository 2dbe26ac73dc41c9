// Package flowrclient implements the client side of the analysis server protocol:
// newline framed JSON over a single persistent connection, one request at a time.
package flowrclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/uber-go/tally"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

const _defaultHandshakeTimeout = 10 * time.Second

// Session is a connection to one analysis server. Sessions are not reused:
// after Destroy, or once the connection fails, a new Session must be created.
type Session interface {
	// Initialize connects and completes the version handshake.
	Initialize(ctx context.Context) error
	// State returns the current lifecycle state.
	State() entity.SessionState
	// Info returns the metadata negotiated during the handshake.
	Info() entity.ServerInfo

	// AnalyzeFile uploads content under fileToken and returns its AST and location map.
	AnalyzeFile(ctx context.Context, fileToken, filename, content string) (*entity.FileAnalysis, error)
	// Slice computes the backward slice of a previously analyzed file.
	Slice(ctx context.Context, fileToken string, criteria []entity.Criterion) (*entity.SliceResult, error)
	// Query evaluates a batch of catalog queries against a previously analyzed file.
	Query(ctx context.Context, fileToken string, queries []entity.Query) (*entity.QueryBundle, error)

	// RetrieveSlice analyzes content and returns the reconciled slice for the criteria.
	RetrieveSlice(ctx context.Context, filename, content string, criteria []entity.Criterion) (*entity.Slice, error)
	// RetrieveQuery analyzes content and evaluates the queries against it.
	RetrieveQuery(ctx context.Context, filename, content string, queries []entity.Query) (*entity.QueryBundle, error)
	// RetrieveDependencies analyzes content and returns its dependency records.
	RetrieveDependencies(ctx context.Context, filename, content string) (*entity.Dependencies, error)

	// Destroy releases the connection. It is idempotent and valid in every state.
	Destroy() error
}

// Options configure a Session.
type Options struct {
	Dialer               Dialer
	Logger               *zap.SugaredLogger
	Stats                tally.Scope
	HandshakeTimeout     time.Duration
	MinimumServerVersion string
	// StallTimeout fails the session when a request abandoned by its caller has no
	// response this long after being abandoned. Zero waits for the response forever.
	StallTimeout time.Duration
}

type session struct {
	dialer               Dialer
	logger               *zap.SugaredLogger
	stats                tally.Scope
	handshakeTimeout     time.Duration
	minimumServerVersion string
	stallTimeout         time.Duration

	mu         sync.Mutex
	state      entity.SessionState
	info       entity.ServerInfo
	destroyed  bool
	channel    *Channel
	correlator *Correlator
}

// New creates a session that has not connected yet.
func New(opts Options) Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	stats := opts.Stats
	if stats == nil {
		stats = tally.NoopScope
	}
	timeout := opts.HandshakeTimeout
	if timeout <= 0 {
		timeout = _defaultHandshakeTimeout
	}
	return &session{
		dialer:               opts.Dialer,
		logger:               logger.With("server", opts.Dialer.String()),
		stats:                stats.SubScope("flowr_session"),
		handshakeTimeout:     timeout,
		minimumServerVersion: opts.MinimumServerVersion,
		stallTimeout:         opts.StallTimeout,
	}
}

func (s *session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return flsperrors.SessionClosedError
	}
	if s.state != "" {
		s.mu.Unlock()
		return fmt.Errorf("session already initialized, state %q", s.state)
	}
	s.setStateLocked(entity.SessionStateConnecting)
	s.mu.Unlock()

	conn, err := s.dialer.Dial(ctx)
	if err != nil {
		s.setState(entity.SessionStateFailed)
		s.logger.Errorw("connecting to analysis server", "error", err)
		return fmt.Errorf("connecting to %s: %w", s.dialer, err)
	}

	var correlator *Correlator
	channel := NewChannel(conn, s.logger, func(frame []byte) { correlator.Deliver(frame) }, s.handleClose)
	correlator = NewCorrelator(channel.Send, s.logger)
	correlator.OnStall(s.stallTimeout, s.handleStall)

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return multierr.Append(flsperrors.SessionClosedError, channel.Destroy())
	}
	s.channel = channel
	s.correlator = correlator
	s.mu.Unlock()

	// The server greets first, so the waiter must exist before the first read.
	greeting, err := correlator.Expect(ctx)
	if err != nil {
		return s.failHandshake(err)
	}
	channel.Start()

	hctx, cancel := context.WithTimeout(ctx, s.handshakeTimeout)
	defer cancel()
	frame, err := greeting(hctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = &flsperrors.ProtocolTimeoutError{Reason: fmt.Sprintf("no greeting within %s", s.handshakeTimeout)}
		}
		return s.failHandshake(err)
	}

	info, err := decodeHello(frame)
	if err != nil {
		return s.failHandshake(err)
	}
	info.Compatible = s.compatible(info.FlowrVersion)
	if !info.Compatible {
		s.logger.Warnw("analysis server is older than the supported minimum, results may be incomplete",
			"version", info.FlowrVersion, "minimum", s.minimumServerVersion)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != entity.SessionStateConnecting {
		return fmt.Errorf("connection lost during handshake, state %q", s.state)
	}
	s.info = info
	s.setStateLocked(entity.SessionStateConnected)
	s.logger.Infow("connected to analysis server", "flowr", info.FlowrVersion, "r", info.RVersion, "engine", info.Engine)
	return nil
}

func (s *session) State() entity.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) Info() entity.ServerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

func (s *session) Destroy() error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return nil
	}
	s.destroyed = true
	s.setStateLocked(entity.SessionStateDisconnected)
	channel := s.channel
	s.mu.Unlock()

	if channel == nil {
		return nil
	}
	if err := channel.Destroy(); err != nil {
		s.logger.Warnw("releasing connection", "error", err)
		return err
	}
	return nil
}

// handleClose runs on the read loop when the connection ends.
func (s *session) handleClose(err error) {
	s.mu.Lock()
	switch {
	case s.destroyed, s.state == entity.SessionStateFailed:
	case s.state == entity.SessionStateConnecting, err != nil:
		s.setStateLocked(entity.SessionStateFailed)
	default:
		s.setStateLocked(entity.SessionStateDisconnected)
	}
	correlator := s.correlator
	s.mu.Unlock()

	if correlator != nil {
		correlator.Close(err)
	}
}

// handleStall fails a session whose server stopped answering. The connection is dropped,
// which rejects every queued request.
func (s *session) handleStall(err error) {
	s.mu.Lock()
	if s.destroyed || s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.setStateLocked(entity.SessionStateFailed)
	channel, correlator := s.channel, s.correlator
	s.mu.Unlock()

	s.stats.Counter("stalls").Inc(1)
	correlator.Close(err)
	if destroyErr := channel.Destroy(); destroyErr != nil {
		s.logger.Warnw("releasing stalled connection", "error", destroyErr)
	}
}

func (s *session) failHandshake(err error) error {
	s.mu.Lock()
	if !s.destroyed {
		s.setStateLocked(entity.SessionStateFailed)
	}
	channel := s.channel
	s.mu.Unlock()

	s.logger.Errorw("analysis server handshake failed", "error", err)
	return multierr.Append(fmt.Errorf("handshake with %s: %w", s.dialer, err), channel.Destroy())
}

// compatible reports whether version has at least the configured minimum major version.
func (s *session) compatible(version string) bool {
	if s.minimumServerVersion == "" {
		return true
	}
	v, minimum := canonicalVersion(version), canonicalVersion(s.minimumServerVersion)
	if !semver.IsValid(v) || !semver.IsValid(minimum) {
		return false
	}
	return semver.Compare(semver.Major(v), semver.Major(minimum)) >= 0
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// ready returns the correlator when queries may be issued.
func (s *session) ready() (*Correlator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != entity.SessionStateConnected {
		return nil, fmt.Errorf("session is %s: %w", s.stateName(), flsperrors.SessionClosedError)
	}
	return s.correlator, nil
}

func (s *session) stateName() string {
	if s.state == "" {
		return "not initialized"
	}
	return string(s.state)
}

func (s *session) setState(state entity.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStateLocked(state)
}

func (s *session) setStateLocked(state entity.SessionState) {
	if s.state != state {
		s.logger.Debugw("session state changed", "from", s.state, "to", state)
	}
	s.state = state
	connected := 0.0
	if state == entity.SessionStateConnected {
		connected = 1
	}
	s.stats.Gauge("connected").Update(connected)
}

func decodeHello(frame []byte) (entity.ServerInfo, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return entity.ServerInfo{}, &flsperrors.MalformedResponseError{Expected: TypeHello, Reason: err.Error(), Frame: frame}
	}
	if env.Type != TypeHello {
		return entity.ServerInfo{}, &flsperrors.MalformedResponseError{
			Expected: TypeHello,
			Reason:   fmt.Sprintf("unexpected message type %q", env.Type),
			Frame:    frame,
		}
	}
	var hello helloMessage
	if err := json.Unmarshal(frame, &hello); err != nil {
		return entity.ServerInfo{}, &flsperrors.MalformedResponseError{Expected: TypeHello, Reason: err.Error(), Frame: frame}
	}
	if hello.Versions.Flowr == "" {
		return entity.ServerInfo{}, &flsperrors.MalformedResponseError{Expected: TypeHello, Reason: "missing versions.flowr", Frame: frame}
	}
	return entity.ServerInfo{
		ClientName:   hello.ClientName,
		FlowrVersion: hello.Versions.Flowr,
		RVersion:     hello.Versions.R,
		Engine:       hello.Versions.Engine,
	}, nil
}
