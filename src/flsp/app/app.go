package app

import (
	"context"
	"time"

	ideclient "github.com/flowr-analysis/flowr-lsp/src/flsp/gateway/ide-client"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/handler"
	"github.com/flowr-analysis/flowr-lsp/src/internal/clock"
	"github.com/flowr-analysis/flowr-lsp/src/internal/core"
	"github.com/flowr-analysis/flowr-lsp/src/internal/executor"
	"github.com/flowr-analysis/flowr-lsp/src/internal/jsonrpcfx"
	"github.com/flowr-analysis/flowr-lsp/src/internal/serverinfofile"
	"github.com/uber-go/tally"
	"go.uber.org/fx"
)

// Module defines the flsp-daemon application module.
var Module = fx.Options(
	handler.Module, // inbounds
	jsonrpcfx.Module,
	executor.Module,
	serverinfofile.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(ideclient.New), // outbound to editors
	fx.Provide(clock.New),
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "flsp-daemon",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        EnvLocal,
			RuntimeEnvironment: EnvLocal,
		}
	}),
)
