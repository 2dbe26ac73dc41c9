package flspdaemon

import (
	"context"

	controller "github.com/flowr-analysis/flowr-lsp/src/flsp/controller/flsp-daemon"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

type jsonRPCRouter struct {
	flspdaemon controller.Controller
	uuid       uuid.UUID
	stats      tally.Scope
}

// HandleReq handles routing for a single request.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	ctx = context.WithValue(ctx, entity.SessionContextKey, r.uuid)
	if r.stats != nil {
		r.stats.Tagged(map[string]string{"method": req.Method()}).Counter("requests").Inc(1)
	}

	switch req.Method() {
	// Lifecycle related methods.
	case protocol.MethodInitialize:
		return r.Initialize(ctx, reply, req)

	case protocol.MethodInitialized:
		return r.Initialized(ctx, reply, req)

	case protocol.MethodShutdown:
		return r.Shutdown(ctx, reply, req)

	case protocol.MethodExit:
		return r.Exit(ctx, reply, req)

	case entity.MethodRequestFullShutdown:
		return r.RequestFullShutdown(ctx, reply, req)

	// Document related methods.
	case protocol.MethodTextDocumentDidOpen:
		return r.DidOpen(ctx, reply, req)

	case protocol.MethodTextDocumentDidChange:
		return r.DidChange(ctx, reply, req)

	case protocol.MethodTextDocumentDidClose:
		return r.DidClose(ctx, reply, req)

	// Analysis server methods.
	case entity.MethodConnect:
		return r.Connect(ctx, reply, req)

	case entity.MethodDisconnect:
		return r.Disconnect(ctx, reply, req)

	case entity.MethodStatus:
		return r.Status(ctx, reply, req)

	case entity.MethodToggleCriterion:
		return r.ToggleCriterion(ctx, reply, req)

	case entity.MethodClearSlice:
		return r.ClearSlice(ctx, reply, req)

	case entity.MethodReconstruct:
		return r.Reconstruct(ctx, reply, req)

	case entity.MethodDependencies:
		return r.Dependencies(ctx, reply, req)

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}
