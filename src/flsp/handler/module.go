package handler

import (
	controller "github.com/flowr-analysis/flowr-lsp/src/flsp/controller"
	flspdaemon "github.com/flowr-analysis/flowr-lsp/src/flsp/controller/flsp-daemon"
	handler "github.com/flowr-analysis/flowr-lsp/src/flsp/handler/flsp-daemon"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/repository/session"
	"go.uber.org/fx"
)

// Module provides the flsp-daemon server into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(handler.New),
	fx.Invoke(outputFlowrConnectionInfo),
	fx.Invoke(func(m handler.Handler) {}),
	fx.Invoke(func(m flspdaemon.Controller) {}),
)
