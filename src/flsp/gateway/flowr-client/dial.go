package flowrclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/flowr-analysis/flowr-lsp/src/internal/clock"
	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/flowr-analysis/flowr-lsp/src/internal/executor"
	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"
)

const (
	_defaultPort           = 1042
	_defaultStartupTimeout = 20 * time.Second
	_startupPollInterval   = 250 * time.Millisecond
	_wsCloseGracePeriod    = time.Second
)

// Dialer opens the byte stream a session runs on.
type Dialer interface {
	Dial(ctx context.Context) (io.ReadWriteCloser, error)
	// String describes the endpoint for logs.
	String() string
}

// NewDialer returns the Dialer for the configured connection type.
func NewDialer(cfg entity.ConnectionConfig, ex executor.Executor, clk clock.Clock, logger *zap.SugaredLogger) (Dialer, error) {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = _defaultPort
	}
	address := net.JoinHostPort(host, strconv.Itoa(port))

	switch cfg.Type {
	case entity.ConnectionTCP, "":
		return &tcpDialer{address: address}, nil
	case entity.ConnectionWebSocket:
		scheme := "ws"
		if cfg.Secure {
			scheme = "wss"
		}
		u := url.URL{Scheme: scheme, Host: address, Path: cfg.Path}
		return &webSocketDialer{url: u.String(), dialer: websocket.DefaultDialer}, nil
	case entity.ConnectionProcess:
		if cfg.Executable == "" {
			return nil, errors.New("process connection requires an executable")
		}
		timeout := cfg.StartupTimeout
		if timeout <= 0 {
			timeout = _defaultStartupTimeout
		}
		return &processDialer{
			executable: cfg.Executable,
			args:       cfg.Args,
			port:       port,
			tcp:        &tcpDialer{address: net.JoinHostPort("localhost", strconv.Itoa(port))},
			timeout:    timeout,
			executor:   ex,
			clock:      clk,
			logger:     logger,
		}, nil
	default:
		return nil, fmt.Errorf("unknown connection type %q", cfg.Type)
	}
}

type tcpDialer struct {
	address string
}

func (d *tcpDialer) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "tcp", d.address)
	if err != nil {
		return nil, &flsperrors.TransportError{Op: "dial", Err: err}
	}
	return conn, nil
}

func (d *tcpDialer) String() string {
	return "tcp://" + d.address
}

type webSocketDialer struct {
	url    string
	dialer *websocket.Dialer
}

func (d *webSocketDialer) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	conn, _, err := d.dialer.DialContext(ctx, d.url, nil)
	if err != nil {
		return nil, &flsperrors.TransportError{Op: "dial", Err: err}
	}
	return newWebSocketConn(conn), nil
}

func (d *webSocketDialer) String() string {
	return d.url
}

// webSocketConn presents a WebSocket as a newline framed byte stream: every text message
// becomes one frame on read, every frame written becomes one text message.
type webSocketConn struct {
	conn    *websocket.Conn
	pending []byte
}

func newWebSocketConn(conn *websocket.Conn) *webSocketConn {
	return &webSocketConn{conn: conn}
}

func (w *webSocketConn) Read(p []byte) (int, error) {
	for len(w.pending) == 0 {
		_, msg, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		if len(msg) == 0 {
			continue
		}
		if msg[len(msg)-1] != _frameTerminator {
			msg = append(msg, _frameTerminator)
		}
		w.pending = msg
	}
	n := copy(p, w.pending)
	w.pending = w.pending[n:]
	return n, nil
}

func (w *webSocketConn) Write(p []byte) (int, error) {
	start := 0
	for i, b := range p {
		if b != _frameTerminator {
			continue
		}
		if i > start {
			if err := w.conn.WriteMessage(websocket.TextMessage, p[start:i]); err != nil {
				return start, err
			}
		}
		start = i + 1
	}
	if start < len(p) {
		if err := w.conn.WriteMessage(websocket.TextMessage, p[start:]); err != nil {
			return start, err
		}
	}
	return len(p), nil
}

func (w *webSocketConn) Close() error {
	// The close message is best effort, the server may already be gone.
	_ = w.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(_wsCloseGracePeriod),
	)
	return w.conn.Close()
}

// processDialer starts a local analysis server and connects to it over TCP.
type processDialer struct {
	executable string
	args       []string
	port       int
	tcp        *tcpDialer
	timeout    time.Duration
	executor   executor.Executor
	clock      clock.Clock
	logger     *zap.SugaredLogger
}

func (d *processDialer) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	args := append(append([]string{}, d.args...), "--port="+strconv.Itoa(d.port))
	cmd := exec.Command(d.executable, args...)
	output := &zapio.Writer{Log: d.logger.Desugar().With(zap.String("process", d.executable)), Level: zapcore.DebugLevel}
	cmd.Stdout = output
	cmd.Stderr = output

	if err := d.executor.Start(cmd); err != nil {
		return nil, &flsperrors.TransportError{Op: "start " + d.executable, Err: err}
	}
	proc := &serverProcess{cmd: cmd, output: output}

	deadline := d.clock.Now().Add(d.timeout)
	for {
		conn, err := d.tcp.Dial(ctx)
		if err == nil {
			return &processConn{ReadWriteCloser: conn, process: proc}, nil
		}
		if ctx.Err() != nil || d.clock.Now().After(deadline) {
			return nil, multierr.Append(
				&flsperrors.TransportError{Op: "connect to started server", Err: err},
				proc.stop(),
			)
		}
		d.clock.Sleep(_startupPollInterval)
	}
}

func (d *processDialer) String() string {
	return fmt.Sprintf("process %s (%s)", d.executable, d.tcp.String())
}

type serverProcess struct {
	cmd      *exec.Cmd
	output   *zapio.Writer
	stopOnce sync.Once
	err      error
}

func (p *serverProcess) stop() error {
	p.stopOnce.Do(func() {
		if p.cmd.Process != nil {
			if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				p.err = err
			}
			// Wait reports the kill signal, which is expected here.
			_ = p.cmd.Wait()
		}
		p.err = multierr.Append(p.err, p.output.Close())
	})
	return p.err
}

// processConn releases the server process together with the connection.
type processConn struct {
	io.ReadWriteCloser
	process *serverProcess
}

func (c *processConn) Close() error {
	return multierr.Combine(c.ReadWriteCloser.Close(), c.process.stop())
}
