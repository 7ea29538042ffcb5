package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/PayRam/go-dbquery/query"
	"github.com/PayRam/go-dbquery/queryerr"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

// Pool modes. PoolModeSingle caps the pool at one open connection.
const (
	PoolModePool   = "pool"
	PoolModeSingle = "single"
)

// Config describes how to reach the database and size the pool.
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string // SQLite file

	PoolMode        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
	QueryTimeout    time.Duration
}

// DSN returns the driver-specific data source name.
func (c Config) DSN() (string, error) {
	switch c.Driver {
	case DriverPostgres:
		q := url.Values{}
		if c.SSLMode != "" {
			q.Set("sslmode", c.SSLMode)
		}
		if c.ConnectTimeout > 0 {
			q.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
			Path:     "/" + c.Name,
			RawQuery: q.Encode(),
		}
		return u.String(), nil
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		mc.DBName = c.Name
		mc.ParseTime = true
		mc.Timeout = c.ConnectTimeout
		return mc.FormatDSN(), nil
	case DriverSQLite:
		if c.Path == "" {
			return "", fmt.Errorf("sqlite driver requires a database path")
		}
		return c.Path, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// Dialector returns the gorm dialector for the configured driver.
func (c Config) Dialector() (gorm.Dialector, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	switch c.Driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return gormmysql.Open(dsn), nil
	default:
		return sqlite.Open(dsn), nil
	}
}

// Provider owns the application's connection pool. It is created once at
// startup and handed to every service. The pool is opened on first use (or by
// an explicit Init) under a mutex so concurrent first callers share one pool.
type Provider struct {
	cfg     Config
	dialect query.Dialect
	logger  *slog.Logger

	mu    sync.Mutex
	db    *gorm.DB
	sqlDB *sql.DB
}

// NewProvider validates cfg and returns an uninitialized Provider.
func NewProvider(cfg Config, logger *slog.Logger) (*Provider, error) {
	if _, err := cfg.DSN(); err != nil {
		return nil, err
	}
	dialect, err := query.DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{cfg: cfg, dialect: dialect, logger: logger}, nil
}

// Dialect returns the statement dialect of the configured driver.
func (p *Provider) Dialect() query.Dialect {
	return p.dialect
}

// Config returns the provider's configuration.
func (p *Provider) Config() Config {
	return p.cfg
}

// Init opens and verifies the pool if it is not open yet and returns it.
// Failures are Connection errors.
func (p *Provider) Init(ctx context.Context) (*gorm.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}

	dialector, err := p.cfg.Dialector()
	if err != nil {
		return nil, queryerr.New(queryerr.Connection, "init", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               p.gormLogger(),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, queryerr.New(queryerr.Connection, "init", fmt.Errorf("failed to open database: %w", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, queryerr.New(queryerr.Connection, "init", err)
	}
	p.configurePool(sqlDB)

	pingCtx := ctx
	if p.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, p.cfg.ConnectTimeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, queryerr.New(queryerr.Connection, "init", fmt.Errorf("failed to connect to database: %w", err))
	}

	p.db = db
	p.sqlDB = sqlDB
	p.logger.Info("database pool initialised",
		"driver", p.cfg.Driver,
		"pool_mode", p.cfg.PoolMode,
		"max_open_conns", sqlDB.Stats().MaxOpenConnections)
	return db, nil
}

func (p *Provider) configurePool(sqlDB *sql.DB) {
	if p.cfg.PoolMode == PoolModeSingle {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		if p.cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(p.cfg.MaxOpenConns)
		}
		if p.cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(p.cfg.MaxIdleConns)
		}
	}
	if p.cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(p.cfg.ConnMaxLifetime)
	}
}

func (p *Provider) gormLogger() gormlogger.Interface {
	return gormlogger.New(
		slog.NewLogLogger(p.logger.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// SQLDB returns the underlying *sql.DB, initializing the pool if needed.
func (p *Provider) SQLDB(ctx context.Context) (*sql.DB, error) {
	if _, err := p.Init(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sqlDB == nil {
		return nil, queryerr.New(queryerr.Connection, "acquire", fmt.Errorf("pool released"))
	}
	return p.sqlDB, nil
}

// Acquire checks a connection out of the pool. The caller must Close it.
func (p *Provider) Acquire(ctx context.Context) (*sql.Conn, error) {
	sqlDB, err := p.SQLDB(ctx)
	if err != nil {
		return nil, err
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, queryerr.New(queryerr.Connection, "acquire", err)
	}
	return conn, nil
}

// WithConn runs fn on a connection that is returned to the pool on every exit
// path, including cancellation of ctx.
func (p *Provider) WithConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

// WithGorm runs fn with a gorm handle pinned to a single pooled connection
// for the duration of the call, bounded by the query timeout.
func (p *Provider) WithGorm(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db, err := p.Init(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := p.withQueryTimeout(ctx)
	defer cancel()
	return db.WithContext(ctx).Connection(fn)
}

// Ping verifies the pool can reach the database.
func (p *Provider) Ping(ctx context.Context) error {
	sqlDB, err := p.SQLDB(ctx)
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return queryerr.New(queryerr.Connection, "ping", err)
	}
	return nil
}

// Release closes the pool and returns the provider to its uninitialized
// state. Releasing a provider that was never initialized is a no-op.
func (p *Provider) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sqlDB == nil {
		return nil
	}
	err := p.sqlDB.Close()
	p.db = nil
	p.sqlDB = nil
	p.logger.Info("database pool closed")
	return err
}

// Shutdown releases the pool. It lets the provider join graceful shutdown.
func (p *Provider) Shutdown(context.Context) error {
	return p.Release()
}

// withQueryTimeout bounds a single round trip by the configured query timeout.
func (p *Provider) withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.cfg.QueryTimeout)
}
