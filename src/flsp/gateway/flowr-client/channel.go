package flowrclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"go.uber.org/zap"
)

const (
	_frameTerminator = '\n'
	_readBufferSize  = 32 * 1024
)

// Channel owns one bidirectional byte stream to the analysis server and
// reassembles newline delimited frames from reads of arbitrary size.
type Channel struct {
	conn    io.ReadWriteCloser
	logger  *zap.SugaredLogger
	onFrame func(frame []byte)
	onClose func(err error)

	buf []byte

	writeMu sync.Mutex
	mu      sync.Mutex
	started bool
	closed  bool
	closing chan struct{}
	done    chan struct{}
}

// NewChannel wraps conn. onFrame is called once per complete frame from the read loop,
// onClose exactly once when the read loop ends, with nil for an orderly close.
func NewChannel(conn io.ReadWriteCloser, logger *zap.SugaredLogger, onFrame func([]byte), onClose func(error)) *Channel {
	return &Channel{
		conn:    conn,
		logger:  logger,
		onFrame: onFrame,
		onClose: onClose,
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins reading from the connection. Calling Start more than once, or after Destroy, has no effect.
func (c *Channel) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return
	}
	c.started = true
	go c.readLoop()
}

// Send writes payload as a single frame followed by the frame terminator.
func (c *Channel) Send(payload []byte) error {
	if bytes.IndexByte(payload, _frameTerminator) >= 0 {
		return fmt.Errorf("payload must not contain a frame terminator")
	}

	select {
	case <-c.closing:
		return flsperrors.SessionClosedError
	default:
	}

	frame := make([]byte, 0, len(payload)+1)
	frame = append(frame, payload...)
	frame = append(frame, _frameTerminator)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write(frame); err != nil {
		return &flsperrors.TransportError{Op: "write", Err: err}
	}
	c.logger.Debugw("sent frame", "bytes", len(frame))
	return nil
}

// Feed appends received bytes to the buffer and emits every complete frame in order.
// An incomplete trailing frame stays buffered until its terminator arrives.
func (c *Channel) Feed(p []byte) {
	c.buf = append(c.buf, p...)
	for {
		i := bytes.IndexByte(c.buf, _frameTerminator)
		if i < 0 {
			break
		}
		line := bytes.TrimSuffix(c.buf[:i], []byte{'\r'})
		c.buf = c.buf[i+1:]
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		frame := make([]byte, len(line))
		copy(frame, line)
		c.onFrame(frame)
	}
	if len(c.buf) == 0 {
		c.buf = nil
	}
}

// Destroy closes the connection and waits for the read loop to finish. It is idempotent.
// It must not be called from the onFrame or onClose callbacks.
func (c *Channel) Destroy() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		<-c.done
		return nil
	}
	c.closed = true
	started := c.started
	close(c.closing)
	c.mu.Unlock()

	err := c.conn.Close()
	if started {
		<-c.done
	} else {
		c.onClose(nil)
		close(c.done)
	}
	if err != nil {
		return &flsperrors.TransportError{Op: "close", Err: err}
	}
	return nil
}

func (c *Channel) readLoop() {
	defer close(c.done)

	buf := make([]byte, _readBufferSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			c.Feed(buf[:n])
		}
		if err != nil {
			c.onClose(c.classify(err))
			return
		}
	}
}

// classify turns a read error into the error reported to the session.
// Closes initiated through Destroy and orderly EOFs are reported as nil.
func (c *Channel) classify(err error) error {
	select {
	case <-c.closing:
		return nil
	default:
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		c.logger.Infow("analysis server closed the connection")
		return nil
	}
	c.logger.Errorw("reading from analysis server", "error", err)
	return &flsperrors.TransportError{Op: "read", Err: err}
}
