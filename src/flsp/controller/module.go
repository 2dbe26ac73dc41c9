package controller

import (
	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/connection"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/dependencies"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/diagnostics"
	docsync "github.com/flowr-analysis/flowr-lsp/src/flsp/controller/doc-sync"
	flspdaemon "github.com/flowr-analysis/flowr-lsp/src/flsp/controller/flsp-daemon"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/controller/slicer"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(flspdaemon.New),
	fx.Provide(connection.New),
	fx.Provide(diagnostics.New),
	fx.Provide(docsync.New),
	fx.Provide(slicer.New),
	fx.Provide(dependencies.New),
)
