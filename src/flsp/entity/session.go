package entity

import (
	"time"

	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

type keyType string

// SessionContextKey indicates the key to be used to identify the editor session UUID in the context.
const SessionContextKey keyType = "SessionUUID"

// ConnectionType selects how the daemon reaches the analysis server.
type ConnectionType string

const (
	// ConnectionTCP connects to a running server over a plain socket.
	ConnectionTCP ConnectionType = "tcp"
	// ConnectionWebSocket connects to a running server over a WebSocket.
	ConnectionWebSocket ConnectionType = "websocket"
	// ConnectionProcess starts a local server process and connects to it over TCP.
	ConnectionProcess ConnectionType = "process"
)

// ConnectionConfig is the flowr.connection configuration block.
type ConnectionConfig struct {
	Type ConnectionType `yaml:"type"`
	Host string         `yaml:"host"`
	Port int            `yaml:"port"`
	// Path is the WebSocket endpoint path.
	Path   string `yaml:"path"`
	Secure bool   `yaml:"secure"`
	// Executable and Args start the local server for ConnectionProcess.
	Executable     string        `yaml:"executable"`
	Args           []string      `yaml:"args"`
	StartupTimeout time.Duration `yaml:"startupTimeout"`
}

// FlowrConfig is the flowr configuration block.
type FlowrConfig struct {
	Connection           ConnectionConfig `yaml:"connection"`
	HandshakeTimeout     time.Duration    `yaml:"handshakeTimeout"`
	MinimumServerVersion string           `yaml:"minimumServerVersion"`
	// RequestTimeout bounds a single editor triggered analysis. Zero disables the bound.
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// EditorSession represents a single connected editor.
type EditorSession struct {
	UUID             uuid.UUID                  `json:"uuid" zap:"uuid"`
	InitializeParams *protocol.InitializeParams `json:"-" zap:"-"`
	Conn             *jsonrpc2.Conn             `json:"-" zap:"-"`
	WorkspaceRoot    string                     `json:"workspaceRoot" zap:"workspaceRoot"`
}
