package flowrclient

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// staticDialer hands out a connection created up front.
type staticDialer struct {
	conn io.ReadWriteCloser
	err  error
}

func (d *staticDialer) Dial(context.Context) (io.ReadWriteCloser, error) {
	return d.conn, d.err
}

func (d *staticDialer) String() string {
	return "pipe"
}

// fakeServer plays the analysis server on the far end of an in-memory pipe.
type fakeServer struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func newFakeServer(t *testing.T) (*fakeServer, *staticDialer) {
	client, server := net.Pipe()
	t.Cleanup(func() { server.Close() })
	return &fakeServer{t: t, conn: server, reader: bufio.NewReader(server)}, &staticDialer{conn: client}
}

func (s *fakeServer) write(line string) bool {
	_, err := io.WriteString(s.conn, line+"\n")
	return assert.NoError(s.t, err)
}

func (s *fakeServer) writeJSON(v interface{}) bool {
	b, err := json.Marshal(v)
	if !assert.NoError(s.t, err) {
		return false
	}
	return s.write(string(b))
}

// read returns the next request sent by the client.
func (s *fakeServer) read() map[string]interface{} {
	line, err := s.reader.ReadBytes('\n')
	if !assert.NoError(s.t, err) {
		return nil
	}
	var msg map[string]interface{}
	assert.NoError(s.t, json.Unmarshal(line, &msg))
	return msg
}

func (s *fakeServer) hello(version string) bool {
	return s.writeJSON(map[string]interface{}{
		"type":       TypeHello,
		"clientName": "client-0",
		"versions": map[string]string{
			"flowr":  version,
			"r":      "4.3.2",
			"engine": "tree-sitter",
		},
	})
}

func (s *fakeServer) close() {
	s.conn.Close()
}

func observedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}
