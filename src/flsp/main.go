package main

import (
	"github.com/flowr-analysis/flowr-lsp/src/flsp/app"
	"go.uber.org/fx"
)

func opts() fx.Option {
	return fx.Options(
		app.Module,
	)
}

func main() {
	fx.New(opts()).Run()
}
