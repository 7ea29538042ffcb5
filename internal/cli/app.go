package cli

import (
	"io"
	"log/slog"

	dbquery "github.com/PayRam/go-dbquery"
	"github.com/PayRam/go-dbquery/internal/config"
	"github.com/PayRam/go-dbquery/internal/db"
	"github.com/PayRam/go-dbquery/internal/logging"
)

// app is the wiring shared by every command that talks to the database.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	provider *db.Provider
	svc      *dbquery.QueryService
}

// loadApp reads the configuration and builds the provider and services.
// One-shot commands log warnings only unless --verbose is set.
func loadApp(opts *RootOptions, logOut io.Writer, oneShot bool) (*app, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	level := cfg.LogLevel
	switch {
	case opts.Verbose:
		level = "debug"
	case oneShot:
		level = "warn"
	}
	logger, err := logging.New(logOut, level, cfg.LogFormat)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	provider, err := db.NewProvider(cfg.DB, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		svc: dbquery.NewQueryService(provider, dbquery.Options{
			FAQTable:    cfg.FAQTable,
			MenuTable:   cfg.MenuTable,
			FAQFullRows: cfg.FAQFull,
			Logger:      logger,
		}),
	}, nil
}

func (a *app) close() {
	if err := a.provider.Release(); err != nil {
		a.logger.Warn("failed to close database pool", "error", err)
	}
}

func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut, // Verbose logs go to stderr to avoid corrupting json/yaml
		Verbose:   opts.Verbose,
	}
}

// reportLoadError prints a configuration failure and passes it through.
func reportLoadError(f *OutputFormatter, err error) error {
	_ = f.Error(ErrCodeConfig, err.Error(), "")
	return err
}
