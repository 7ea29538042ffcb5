package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/PayRam/go-dbquery/internal/config"
	"github.com/PayRam/go-dbquery/internal/db"
	"github.com/PayRam/go-dbquery/internal/lifecycle"
	"github.com/PayRam/go-dbquery/internal/mcpserver"
	"github.com/PayRam/go-dbquery/internal/metrics"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Transport string
	Host      string
	Port      int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lookup tools to MCP clients",
		Long: `Serve query_faq, query_menu, get_faq_statistics and get_menu_statistics
to MCP clients until interrupted.

Transports:
  stdio  frames on stdin/stdout
  http   streamable HTTP at /mcp (default)
  sse    server-sent events at /mcp/sse, messages at /mcp/message

The HTTP transports also serve /healthz and, when enabled, /metrics.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Transport, "transport", "", "override TRANSPORT_MODE (stdio|http|sse)")
	cmd.Flags().StringVar(&opts.Host, "host", "", "override HOST")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "override PORT")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.ErrOrStderr(), cmd.ErrOrStderr())

	a, err := loadApp(opts.RootOptions, cmd.ErrOrStderr(), false)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	if err := applyServeOverrides(opts, cmd, a.cfg); err != nil {
		a.close()
		return reportLoadError(formatter, WrapExitError(ExitCommandError, "invalid configuration", err))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the pool before accepting calls so a bad DSN fails at startup.
	if _, err := a.provider.Init(ctx); err != nil {
		a.close()
		return formatter.Fail(err)
	}

	var registry *prometheus.Registry
	if a.cfg.MetricsEnabled {
		registry, err = newRegistry(ctx, a)
		if err != nil {
			a.close()
			return formatter.Fail(err)
		}
	}

	srv := mcpserver.New(a.svc, mcpserver.Options{Version: Version, Logger: a.logger})
	shutdown := lifecycle.NewShutdownHandler(a.cfg.ShutdownGrace, a.logger)
	shutdown.Add("database", a.provider)

	if a.cfg.Transport == config.TransportStdio {
		serveErr := srv.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		if err := errors.Join(serveErr, shutdown.Shutdown()); err != nil {
			return WrapExitError(ExitFailure, "server stopped", err)
		}
		return nil
	}

	err = srv.ServeHTTP(ctx, a.cfg.Transport, mcpserver.HTTPOptions{
		Addr:     a.cfg.Addr(),
		Registry: registry,
		Health:   a.provider.Ping,
	}, shutdown)
	if err != nil {
		return WrapExitError(ExitFailure, "server stopped", err)
	}
	a.logger.Info("server stopped")
	return nil
}

func applyServeOverrides(opts *ServeOptions, cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("transport") {
		cfg.Transport = opts.Transport
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = opts.Host
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = opts.Port
	}
	return cfg.Validate()
}

func newRegistry(ctx context.Context, a *app) (*prometheus.Registry, error) {
	sqlDB, err := a.provider.SQLDB(ctx)
	if err != nil {
		return nil, err
	}

	dbName := a.cfg.DB.Name
	if a.cfg.DB.Driver == db.DriverSQLite {
		dbName = filepath.Base(a.cfg.DB.Path)
	}

	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)
	metrics.MustRegisterDB(registry, dbName, sqlDB)
	metrics.SampleBuildInfo()
	return registry, nil
}
