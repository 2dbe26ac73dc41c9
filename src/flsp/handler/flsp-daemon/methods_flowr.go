package flspdaemon

import (
	"context"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
	"go.lsp.dev/jsonrpc2"
)

func (r *jsonRPCRouter) Connect(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.flspdaemon.Connect(ctx)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) Disconnect(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.flspdaemon.Disconnect(ctx)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) Status(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.flspdaemon.Status(ctx)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) ToggleCriterion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToToggleCriterionParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.flspdaemon.ToggleCriterion(ctx, params)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) ClearSlice(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.flspdaemon.ClearSlice(ctx, params)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) Reconstruct(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.flspdaemon.Reconstruct(ctx, params)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) Dependencies(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.flspdaemon.Dependencies(ctx, params)
	return reply(ctx, result, err)
}
