package cli

import (
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/PayRam/go-dbquery/internal/db"
	"github.com/PayRam/go-dbquery/internal/logging"
	"github.com/PayRam/go-dbquery/internal/migration"
)

// LocalInitOptions holds flags for the local init command.
type LocalInitOptions struct {
	*RootOptions
	DBPath string
	Seed   bool
}

// LocalInitResult is printed by local init.
type LocalInitResult struct {
	Path   string `json:"path" yaml:"path"`
	Seeded bool   `json:"seeded" yaml:"seeded"`
}

func (r LocalInitResult) String() string {
	if r.Seeded {
		return "created and seeded " + r.Path
	}
	return "created " + r.Path
}

// NewLocalCommand creates the local command group for development databases.
func NewLocalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Manage a local SQLite development database",
	}
	cmd.AddCommand(newLocalInitCommand(rootOpts))
	return cmd
}

func newLocalInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LocalInitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the FAQ and menu tables in a SQLite file",
		Long: `Create the FAQ and menu tables in a SQLite file, optionally with demo rows.

Point the server at it with DB_DRIVER=sqlite DB_PATH=<file>
FAQ_TABLE=cheery_exeedcars_faq MENU_TABLE=sys_menu.

Example:
  dbquery local init --db ./dbquery.db --seed`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocalInit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the SQLite file (required)")
	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "insert demo rows")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runLocalInit(opts *LocalInitOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	path, err := homedir.Expand(opts.DBPath)
	if err != nil {
		return reportLoadError(formatter, WrapExitError(ExitCommandError, "invalid --db", err))
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	logger, err := logging.New(cmd.ErrOrStderr(), level, "text")
	if err != nil {
		return err
	}

	provider, err := db.NewProvider(db.Config{
		Driver:         db.DriverSQLite,
		Path:           path,
		PoolMode:       db.PoolModeSingle,
		ConnectTimeout: 10 * time.Second,
	}, logger)
	if err != nil {
		return reportLoadError(formatter, WrapExitError(ExitCommandError, "invalid --db", err))
	}
	defer provider.Release()

	gdb, err := provider.Init(cmd.Context())
	if err != nil {
		return formatter.Fail(err)
	}

	formatter.VerboseLog("migrating %s", path)
	if err := db.MigrateLocal(gdb, logger); err != nil {
		return formatter.Fail(err)
	}
	if opts.Seed {
		formatter.VerboseLog("seeding demo rows")
		if err := migration.Seed(gdb); err != nil {
			return formatter.Fail(err)
		}
	}

	return formatter.Success(LocalInitResult{Path: path, Seeded: opts.Seed})
}
