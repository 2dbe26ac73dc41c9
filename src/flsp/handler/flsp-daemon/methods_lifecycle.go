package flspdaemon

import (
	"context"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
	"go.lsp.dev/jsonrpc2"
)

// Initialize registers the editor's workspace with the session of this connection
// and answers with the daemon's capabilities.
func (r *jsonRPCRouter) Initialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToInitializeParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	capabilities, err := r.flspdaemon.Initialize(ctx, params)
	if err != nil {
		return reply(ctx, nil, err)
	}
	return reply(ctx, capabilities, nil)
}

// Initialized acknowledges the editor. The analysis server is dialed on first use.
func (r *jsonRPCRouter) Initialized(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToInitializedParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}
	return reply(ctx, nil, r.flspdaemon.Initialized(ctx, params))
}

// Shutdown stops serving analyses for this editor. The connection stays open until exit.
func (r *jsonRPCRouter) Shutdown(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	return reply(ctx, nil, r.flspdaemon.Shutdown(ctx))
}

// Exit ends the editor session. The daemon keeps running for other editors
// unless a full shutdown was requested before.
func (r *jsonRPCRouter) Exit(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	// The editor must get its answer before the connection or the daemon goes away.
	reply(ctx, nil, nil)
	return r.flspdaemon.Exit(ctx)
}

// RequestFullShutdown makes the next exit of this editor stop the daemon and its flowR session.
func (r *jsonRPCRouter) RequestFullShutdown(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	return reply(ctx, nil, r.flspdaemon.RequestFullShutdown(ctx))
}
