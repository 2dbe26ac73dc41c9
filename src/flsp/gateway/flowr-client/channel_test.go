package flowrclient

import (
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type frameRecorder struct {
	mu     sync.Mutex
	frames []string
}

func (r *frameRecorder) onFrame(frame []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, string(frame))
}

func (r *frameRecorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.frames...)
}

func newTestChannel(conn io.ReadWriteCloser, rec *frameRecorder, onClose func(error)) *Channel {
	if onClose == nil {
		onClose = func(error) {}
	}
	return NewChannel(conn, zap.NewNop().Sugar(), rec.onFrame, onClose)
}

func TestChannelFeedFragmentationInvariance(t *testing.T) {
	stream := "{\"type\":\"hello\"}\n{\"type\":\"response-slice\",\"id\":\"0\"}\n{\"id\":\"1\",\"text\":\"a\\nb\"}\n"
	want := []string{
		`{"type":"hello"}`,
		`{"type":"response-slice","id":"0"}`,
		`{"id":"1","text":"a\nb"}`,
	}

	whole := &frameRecorder{}
	newTestChannel(nil, whole, nil).Feed([]byte(stream))
	require.Equal(t, want, whole.get())

	for i := 0; i <= len(stream); i++ {
		for j := i; j <= len(stream); j++ {
			rec := &frameRecorder{}
			c := newTestChannel(nil, rec, nil)
			c.Feed([]byte(stream[:i]))
			c.Feed([]byte(stream[i:j]))
			c.Feed([]byte(stream[j:]))
			require.Equal(t, want, rec.get(), "split at %d and %d", i, j)
		}
	}

	bytewise := &frameRecorder{}
	c := newTestChannel(nil, bytewise, nil)
	for i := 0; i < len(stream); i++ {
		c.Feed([]byte{stream[i]})
	}
	assert.Equal(t, want, bytewise.get())
}

func TestChannelFeed(t *testing.T) {
	t.Run("incomplete frame is buffered", func(t *testing.T) {
		rec := &frameRecorder{}
		c := newTestChannel(nil, rec, nil)
		c.Feed([]byte(`{"type":"hel`))
		assert.Empty(t, rec.get())
		c.Feed([]byte("lo\"}\n"))
		assert.Equal(t, []string{`{"type":"hello"}`}, rec.get())
	})

	t.Run("carriage returns and blank lines are dropped", func(t *testing.T) {
		rec := &frameRecorder{}
		c := newTestChannel(nil, rec, nil)
		c.Feed([]byte("a\r\n\n  \nb\n"))
		assert.Equal(t, []string{"a", "b"}, rec.get())
	})

	t.Run("emitted frames do not alias the buffer", func(t *testing.T) {
		var got [][]byte
		c := NewChannel(nil, zap.NewNop().Sugar(), func(f []byte) { got = append(got, f) }, func(error) {})
		c.Feed([]byte("first\nsec"))
		c.Feed([]byte("ond\n"))
		require.Len(t, got, 2)
		assert.Equal(t, "first", string(got[0]))
		assert.Equal(t, "second", string(got[1]))
	})
}

func TestChannelSend(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	c := newTestChannel(client, &frameRecorder{}, nil)

	go func() {
		assert.NoError(t, c.Send([]byte(`{"type":"request-slice"}`)))
	}()
	buf := make([]byte, 64)
	n, err := io.ReadAtLeast(server, buf, len(`{"type":"request-slice"}`)+1)
	require.NoError(t, err)
	assert.Equal(t, "{\"type\":\"request-slice\"}\n", string(buf[:n]))

	assert.Error(t, c.Send([]byte("two\nframes")))

	require.NoError(t, c.Destroy())
	assert.ErrorIs(t, c.Send([]byte("late")), flsperrors.SessionClosedError)
}

func TestChannelSendWriteError(t *testing.T) {
	client, server := net.Pipe()
	server.Close()
	c := newTestChannel(client, &frameRecorder{}, nil)

	err := c.Send([]byte("x"))
	assert.True(t, flsperrors.IsTransport(err))
	require.NoError(t, c.Destroy())
}

func TestChannelReadLoop(t *testing.T) {
	t.Run("remote close is orderly", func(t *testing.T) {
		client, server := net.Pipe()
		rec := &frameRecorder{}
		closed := make(chan error, 1)
		c := newTestChannel(client, rec, func(err error) { closed <- err })
		c.Start()

		_, err := server.Write([]byte("one\ntw"))
		require.NoError(t, err)
		_, err = server.Write([]byte("o\n"))
		require.NoError(t, err)
		server.Close()

		select {
		case err := <-closed:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("read loop did not report the close")
		}
		assert.Equal(t, []string{"one", "two"}, rec.get())
		require.NoError(t, c.Destroy())
	})

	t.Run("read errors are transport errors", func(t *testing.T) {
		conn := &failingConn{err: errors.New("connection reset by peer")}
		closed := make(chan error, 1)
		c := newTestChannel(conn, &frameRecorder{}, func(err error) { closed <- err })
		c.Start()

		err := <-closed
		assert.True(t, flsperrors.IsTransport(err))
		require.NoError(t, c.Destroy())
	})
}

func TestChannelDestroy(t *testing.T) {
	t.Run("idempotent while running", func(t *testing.T) {
		client, server := net.Pipe()
		defer server.Close()
		calls := 0
		c := newTestChannel(client, &frameRecorder{}, func(err error) {
			calls++
			assert.NoError(t, err)
		})
		c.Start()

		require.NoError(t, c.Destroy())
		require.NoError(t, c.Destroy())
		assert.Equal(t, 1, calls)
	})

	t.Run("before start", func(t *testing.T) {
		client, server := net.Pipe()
		defer server.Close()
		calls := 0
		c := newTestChannel(client, &frameRecorder{}, func(error) { calls++ })

		require.NoError(t, c.Destroy())
		c.Start()
		require.NoError(t, c.Destroy())
		assert.Equal(t, 1, calls)
	})

	t.Run("close error is reported", func(t *testing.T) {
		conn := &failingConn{err: io.EOF, closeErr: errors.New("already closed")}
		c := newTestChannel(conn, &frameRecorder{}, nil)
		err := c.Destroy()
		assert.True(t, flsperrors.IsTransport(err))
	})
}

// failingConn fails every read with err.
type failingConn struct {
	err      error
	closeErr error
}

func (c *failingConn) Read([]byte) (int, error)    { return 0, c.err }
func (c *failingConn) Write(p []byte) (int, error) { return len(p), nil }
func (c *failingConn) Close() error                { return c.closeErr }
