package flowrclient

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/flowr-analysis/flowr-lsp/src/internal/clock/clockmock"
	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/flowr-analysis/flowr-lsp/src/internal/executor/executormock"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestNewDialer(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := zap.NewNop().Sugar()

	tests := []struct {
		name    string
		cfg     entity.ConnectionConfig
		want    string
		wantErr bool
	}{
		{
			name: "default is tcp",
			cfg:  entity.ConnectionConfig{},
			want: "tcp://localhost:1042",
		},
		{
			name: "tcp",
			cfg:  entity.ConnectionConfig{Type: entity.ConnectionTCP, Host: "10.0.0.2", Port: 2000},
			want: "tcp://10.0.0.2:2000",
		},
		{
			name: "websocket",
			cfg:  entity.ConnectionConfig{Type: entity.ConnectionWebSocket, Host: "flowr.local", Port: 8080, Path: "/ws"},
			want: "ws://flowr.local:8080/ws",
		},
		{
			name: "secure websocket",
			cfg:  entity.ConnectionConfig{Type: entity.ConnectionWebSocket, Host: "flowr.local", Port: 443, Secure: true},
			want: "wss://flowr.local:443",
		},
		{
			name: "process",
			cfg:  entity.ConnectionConfig{Type: entity.ConnectionProcess, Executable: "flowr", Port: 1100},
			want: "process flowr (tcp://localhost:1100)",
		},
		{
			name:    "process without executable",
			cfg:     entity.ConnectionConfig{Type: entity.ConnectionProcess},
			wantErr: true,
		},
		{
			name:    "unknown type",
			cfg:     entity.ConnectionConfig{Type: "carrier-pigeon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDialer(tt.cfg, executormock.NewMockExecutor(ctrl), clockmock.NewMockClock(ctrl), logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func listen(t *testing.T) (net.Listener, int) {
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	return ln, ln.Addr().(*net.TCPAddr).Port
}

func TestTCPDialer(t *testing.T) {
	ln, port := listen(t)
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
		close(accepted)
	}()

	d, err := NewDialer(entity.ConnectionConfig{Host: "localhost", Port: port}, nil, nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	conn, err := d.Dial(context.Background())
	require.NoError(t, err)

	server := <-accepted
	require.NotNil(t, server)
	defer server.Close()

	_, err = conn.Write([]byte("ping\n"))
	require.NoError(t, err)
	line, err := bufio.NewReader(server).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ping\n", line)
	require.NoError(t, conn.Close())
}

func TestTCPDialerRefused(t *testing.T) {
	ln, port := listen(t)
	ln.Close()

	d, err := NewDialer(entity.ConnectionConfig{Port: port}, nil, nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	_, err = d.Dial(context.Background())
	assert.True(t, flsperrors.IsTransport(err))
}

func TestWebSocketDialer(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		assert.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"hello"}`)))
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				close(received)
				return
			}
			received <- string(msg)
		}
	}))
	defer srv.Close()

	u := strings.TrimPrefix(srv.URL, "http://")
	host, portText, err := net.SplitHostPort(u)
	require.NoError(t, err)
	port, err := strconv.Atoi(portText)
	require.NoError(t, err)

	d, err := NewDialer(entity.ConnectionConfig{Type: entity.ConnectionWebSocket, Host: host, Port: port}, nil, nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	conn, err := d.Dial(context.Background())
	require.NoError(t, err)

	rec := &frameRecorder{}
	closed := make(chan error, 1)
	c := NewChannel(conn, zap.NewNop().Sugar(), rec.onFrame, func(err error) { closed <- err })
	c.Start()

	require.NoError(t, c.Send([]byte(`{"type":"request-slice"}`)))
	assert.Equal(t, `{"type":"request-slice"}`, <-received)

	_, err = conn.Write([]byte("a\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, "a", <-received)
	assert.Equal(t, "b", <-received)

	assert.Eventually(t, func() bool { return len(rec.get()) == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{`{"type":"hello"}`}, rec.get())

	require.NoError(t, c.Destroy())
	for range received {
	}
}

func TestProcessDialer(t *testing.T) {
	t.Run("starts the server and connects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ex := executormock.NewMockExecutor(ctrl)
		clk := clockmock.NewMockClock(ctrl)
		ln, port := listen(t)
		go func() {
			if conn, err := ln.Accept(); err == nil {
				conn.Close()
			}
		}()

		ex.EXPECT().Start(gomock.Any()).DoAndReturn(func(cmd *exec.Cmd) error {
			assert.Equal(t, []string{"flowr", "--server", "--port=" + strconv.Itoa(port)}, cmd.Args)
			assert.NotNil(t, cmd.Stdout)
			return nil
		})
		clk.EXPECT().Now().Return(time.Unix(0, 0)).AnyTimes()

		d, err := NewDialer(entity.ConnectionConfig{
			Type:       entity.ConnectionProcess,
			Executable: "flowr",
			Args:       []string{"--server"},
			Port:       port,
		}, ex, clk, zap.NewNop().Sugar())
		require.NoError(t, err)

		conn, err := d.Dial(context.Background())
		require.NoError(t, err)
		assert.NoError(t, conn.Close())
	})

	t.Run("start failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ex := executormock.NewMockExecutor(ctrl)
		ex.EXPECT().Start(gomock.Any()).Return(errors.New("executable file not found"))

		d, err := NewDialer(entity.ConnectionConfig{Type: entity.ConnectionProcess, Executable: "flowr"}, ex, clockmock.NewMockClock(ctrl), zap.NewNop().Sugar())
		require.NoError(t, err)
		_, err = d.Dial(context.Background())
		assert.True(t, flsperrors.IsTransport(err))
	})

	t.Run("server never listens", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ex := executormock.NewMockExecutor(ctrl)
		clk := clockmock.NewMockClock(ctrl)
		ln, port := listen(t)
		ln.Close()

		ex.EXPECT().Start(gomock.Any()).Return(nil)
		// The deadline follows the injected clock, which only advances while polling.
		now := time.Unix(0, 0)
		clk.EXPECT().Now().DoAndReturn(func() time.Time { return now }).AnyTimes()
		clk.EXPECT().Sleep(_startupPollInterval).Do(func(d time.Duration) { now = now.Add(d) }).Times(5)

		d, err := NewDialer(entity.ConnectionConfig{
			Type:           entity.ConnectionProcess,
			Executable:     "flowr",
			Port:           port,
			StartupTimeout: time.Second,
		}, ex, clk, zap.NewNop().Sugar())
		require.NoError(t, err)
		_, err = d.Dial(context.Background())
		assert.True(t, flsperrors.IsTransport(err))
	})
}
