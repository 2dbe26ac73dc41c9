package flowrclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"go.uber.org/zap"
)

const _reasonConnectionClosed = "connection closed"

type frameResult struct {
	frame []byte
	err   error
}

// pendingRequest is the single outstanding request of a correlator.
type pendingRequest struct {
	id     string
	result chan frameResult
}

// wait blocks until the response frame arrives, the channel closes or ctx is done.
// Giving up through ctx does not release the turn: it is released once the abandoned response arrives.
func (p *pendingRequest) wait(ctx context.Context) ([]byte, error) {
	select {
	case r := <-p.result:
		return r.frame, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Correlator turns "send a request, await exactly one reply" into a blocking call.
// The server protocol is strictly sequential, so at most one request is outstanding;
// further callers queue for their turn in arrival order.
type Correlator struct {
	send   func([]byte) error
	logger *zap.SugaredLogger

	turn   chan struct{}
	closed chan struct{}
	nextID atomic.Uint64

	stallTimeout time.Duration
	onStall      func(error)

	mu         sync.Mutex
	waiter     *pendingRequest
	closeErr   error
	stallTimer *time.Timer
}

// NewCorrelator creates a correlator that dispatches requests through send.
func NewCorrelator(send func([]byte) error, logger *zap.SugaredLogger) *Correlator {
	return &Correlator{
		send:   send,
		logger: logger,
		turn:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// OnStall calls onStall with a ProtocolTimeoutError when a request abandoned by its caller
// has no response timeout after being abandoned. It must be called before the first request.
func (c *Correlator) OnStall(timeout time.Duration, onStall func(error)) {
	c.stallTimeout = timeout
	c.onStall = onStall
}

// NextID returns the next request identifier: a string-encoded counter starting at "0".
func (c *Correlator) NextID() string {
	return strconv.FormatUint(c.nextID.Add(1)-1, 10)
}

// SendWithResponse dispatches request once it is this caller's turn and returns the payload of the next frame.
func (c *Correlator) SendWithResponse(ctx context.Context, id string, request interface{}) ([]byte, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	p, err := c.register(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.send(payload); err != nil {
		// Nothing was flushed, so no response will arrive for this waiter.
		c.unregister(p)
		return nil, err
	}
	c.logger.Debugw("request dispatched", "id", id)
	frame, err := p.wait(ctx)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		c.abandon(p)
	}
	return frame, err
}

// abandon watches a request whose caller gave up. Its response still holds the turn.
func (c *Correlator) abandon(p *pendingRequest) {
	c.logger.Warnw("request abandoned, later requests wait for its response", "id", p.id)
	if c.stallTimeout <= 0 || c.onStall == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waiter != p {
		return
	}
	if c.stallTimer != nil {
		c.stallTimer.Stop()
	}
	c.stallTimer = time.AfterFunc(c.stallTimeout, func() {
		c.mu.Lock()
		stalled := c.waiter == p
		c.mu.Unlock()
		if !stalled {
			return
		}
		err := &flsperrors.ProtocolTimeoutError{
			RequestID: p.id,
			Reason:    fmt.Sprintf("no response %s after the request was abandoned", c.stallTimeout),
		}
		c.logger.Errorw("analysis server stopped responding", "error", err)
		c.onStall(err)
	})
}

// Expect registers a waiter for a frame the server sends without being asked, such as its greeting.
// The returned function blocks for that frame.
func (c *Correlator) Expect(ctx context.Context) (func(context.Context) ([]byte, error), error) {
	p, err := c.register(ctx, "")
	if err != nil {
		return nil, err
	}
	return p.wait, nil
}

// Deliver hands a received frame to the outstanding waiter. Frames nobody waits for are dropped.
func (c *Correlator) Deliver(frame []byte) {
	c.mu.Lock()
	p := c.waiter
	c.waiter = nil
	c.mu.Unlock()

	if p == nil {
		c.logger.Warnw("dropping unsolicited frame", "bytes", len(frame))
		return
	}
	p.result <- frameResult{frame: frame}
	<-c.turn
}

// Close rejects the outstanding waiter and every later request. Only the first call has an effect.
func (c *Correlator) Close(cause error) {
	c.mu.Lock()
	select {
	case <-c.closed:
		c.mu.Unlock()
		return
	default:
	}
	c.closeErr = cause
	close(c.closed)
	p := c.waiter
	c.waiter = nil
	if c.stallTimer != nil {
		c.stallTimer.Stop()
	}
	c.mu.Unlock()

	if p != nil {
		p.result <- frameResult{err: c.rejection(p.id)}
	}
}

func (c *Correlator) register(ctx context.Context, id string) (*pendingRequest, error) {
	select {
	case <-c.closed:
		return nil, c.rejection(id)
	default:
	}

	select {
	case c.turn <- struct{}{}:
	case <-c.closed:
		return nil, c.rejection(id)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.closed:
		<-c.turn
		return nil, c.rejection(id)
	default:
	}
	p := &pendingRequest{id: id, result: make(chan frameResult, 1)}
	c.waiter = p
	return p, nil
}

func (c *Correlator) unregister(p *pendingRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waiter == p {
		c.waiter = nil
		<-c.turn
	}
}

func (c *Correlator) rejection(id string) error {
	if c.closeErr != nil {
		return &flsperrors.ProtocolTimeoutError{RequestID: id, Reason: _reasonConnectionClosed + ": " + c.closeErr.Error()}
	}
	return &flsperrors.ProtocolTimeoutError{RequestID: id, Reason: _reasonConnectionClosed}
}
