package handler

import (
	"context"
	"fmt"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/connection"
	"github.com/flowr-analysis/flowr-lsp/src/internal/serverinfofile"
)

const (
	_infoFileKeyFlowrAddress    = "flowr-address"
	_infoFileKeyFlowrConnection = "flowr-connection"
)

// Output where the daemon reaches the flowR server.
// The JSON-RPC module adds its own listen address independently.
func outputFlowrConnectionInfo(conn connection.Controller, infofile serverinfofile.ServerInfoFile) error {
	status := conn.Status(context.Background())
	if err := infofile.UpdateField(_infoFileKeyFlowrAddress, status.Server); err != nil {
		return fmt.Errorf("outputting %q to info file: %w", _infoFileKeyFlowrAddress, err)
	}

	kind := string(conn.Config().Connection.Type)
	if err := infofile.UpdateField(_infoFileKeyFlowrConnection, kind); err != nil {
		return fmt.Errorf("outputting %q to info file: %w", _infoFileKeyFlowrConnection, err)
	}
	return nil
}
