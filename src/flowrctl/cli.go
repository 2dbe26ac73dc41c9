package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	flowrclient "github.com/flowr-analysis/flowr-lsp/src/flsp/gateway/flowr-client"
	"github.com/flowr-analysis/flowr-lsp/src/internal/clock"
	"github.com/flowr-analysis/flowr-lsp/src/internal/executor"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_envConnectionType = "FLOWR_CONNECTION_TYPE"
	_envHost           = "FLOWR_HOST"
	_envPort           = "FLOWR_PORT"

	_defaultPort    = 1042
	_defaultTimeout = 60 * time.Second
)

type cli struct {
	out    io.Writer
	errOut io.Writer
	logger *zap.SugaredLogger

	connection entity.ConnectionConfig
	output     string
	timeout    time.Duration
	minVersion string
	verbose    bool

	newSession func(opts flowrclient.Options) flowrclient.Session
}

func newCLI(out, errOut io.Writer) *cli {
	return &cli{
		out:        out,
		errOut:     errOut,
		newSession: flowrclient.New,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flowrctl",
		Short: "Run flowR analyses from the command line",
		Long: `Connects to a flowR server, runs one analysis and prints the result.

The connection defaults come from FLOWR_CONNECTION_TYPE, FLOWR_HOST and FLOWR_PORT,
which may also be set in a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(c.output); err != nil {
				return err
			}
			return c.setupLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			// Syncing stderr fails on some platforms and there is nothing left to flush.
			_ = c.logger.Sync()
		},
	}

	port := _defaultPort
	if v, err := strconv.Atoi(os.Getenv(_envPort)); err == nil {
		port = v
	}
	connType := os.Getenv(_envConnectionType)
	if connType == "" {
		connType = string(entity.ConnectionTCP)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar((*string)(&c.connection.Type), "connection", connType, "Connection type (tcp, websocket, process)")
	flags.StringVar(&c.connection.Host, "host", envOr(_envHost, "localhost"), "flowR server host")
	flags.IntVar(&c.connection.Port, "port", port, "flowR server port")
	flags.StringVar(&c.connection.Path, "path", "/", "WebSocket endpoint path")
	flags.BoolVar(&c.connection.Secure, "secure", false, "Use wss for WebSocket connections")
	flags.StringVar(&c.connection.Executable, "executable", "flowr", "Server executable for process connections")
	flags.StringArrayVar(&c.connection.Args, "arg", []string{"--server"}, "Argument passed to the server executable (repeatable)")
	flags.StringVarP(&c.output, "output", "o", _formatText, "Output format (text, json, yaml)")
	flags.DurationVar(&c.timeout, "timeout", _defaultTimeout, "Time limit for connecting and for each analysis")
	flags.StringVar(&c.minVersion, "min-version", "v2.0.0", "Warn when the server is older than this version")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log protocol traffic to stderr")

	rootCmd.AddCommand(statusCmd(c))
	rootCmd.AddCommand(sliceCmd(c))
	rootCmd.AddCommand(depsCmd(c))

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *cli) setupLogger() error {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if c.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	c.logger = logger.Sugar()
	return nil
}

// withSession connects, runs fn and always releases the session.
func (c *cli) withSession(ctx context.Context, fn func(ctx context.Context, s flowrclient.Session) error) (err error) {
	ex := executor.NewExecutor(executor.WithLogger(c.logger.With("component", "executor")))
	dialer, err := flowrclient.NewDialer(c.connection, ex, clock.New(), c.logger)
	if err != nil {
		return err
	}

	s := c.newSession(flowrclient.Options{
		Dialer:               dialer,
		Logger:               c.logger,
		HandshakeTimeout:     c.timeout,
		MinimumServerVersion: c.minVersion,
		StallTimeout:         c.timeout,
	})
	defer func() {
		err = multierr.Append(err, s.Destroy())
	}()

	initCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := s.Initialize(initCtx); err != nil {
		return err
	}
	if info := s.Info(); !info.Compatible {
		c.logger.Warnf("flowR %s is older than %s, results may be incomplete", info.FlowrVersion, c.minVersion)
	}
	return fn(ctx, s)
}

// bounded runs one analysis under the configured timeout.
func (c *cli) bounded(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return fn(ctx)
}

func readScript(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(content), nil
}
