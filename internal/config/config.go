// Package config loads the server configuration from defaults, an optional
// YAML file, .env files and the process environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/PayRam/go-dbquery/internal/db"
)

var AppFs = afero.NewOsFs()

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	TransportSSE   = "sse"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the application configuration
type Config struct {
	DB        db.Config
	FAQTable  string
	MenuTable string
	FAQFull   bool

	Transport      string
	Host           string
	Port           int
	MetricsEnabled bool

	LogLevel  string
	LogFormat string

	ShutdownGrace time.Duration
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// binding ties a configuration key to its environment variable and default.
type binding struct {
	key  string
	env  string
	dflt any
}

var bindings = []binding{
	{"db.driver", "DB_DRIVER", db.DriverPostgres},
	{"db.user", "DB_USER", "admin"},
	{"db.password", "DB_PASSWORD", "password"},
	{"db.host", "DB_HOST", "postgres"},
	{"db.port", "DB_PORT", 5432},
	{"db.name", "DB_NAME", "postgres"},
	{"db.sslmode", "DB_SSLMODE", "disable"},
	{"db.path", "DB_PATH", "./dbquery.db"},
	{"db.pool_mode", "DB_POOL_MODE", db.PoolModePool},
	{"db.max_open_conns", "DB_MAX_OPEN_CONNS", 10},
	{"db.max_idle_conns", "DB_MAX_IDLE_CONNS", 5},
	{"db.conn_max_lifetime", "DB_CONN_MAX_LIFETIME", 30 * time.Minute},
	{"db.connect_timeout", "DB_CONNECT_TIMEOUT", 10 * time.Second},
	{"db.query_timeout", "DB_QUERY_TIMEOUT", 30 * time.Second},
	{"tables.faq", "FAQ_TABLE", "public.cheery_exeedcars_faq"},
	{"tables.menu", "MENU_TABLE", "public.sys_menu"},
	{"faq.full_rows", "FAQ_FULL_ROWS", false},
	{"transport.mode", "TRANSPORT_MODE", TransportHTTP},
	{"transport.host", "HOST", "0.0.0.0"},
	{"transport.port", "PORT", 8086},
	{"metrics.enabled", "METRICS_ENABLED", true},
	{"log.level", "LOG_LEVEL", "info"},
	{"log.format", "LOG_FORMAT", LogFormatText},
	{"shutdown.grace", "SHUTDOWN_GRACE", 10 * time.Second},
}

// tableName accepts a plain or schema-qualified SQL identifier.
var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Load reads the configuration. configFile may be empty, in which case
// dbquery.yaml is looked up in the working directory and in
// $HOME/.config/dbquery.
//
// Precedence, highest first: environment, .env.local, .env, config file,
// defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	for _, b := range bindings {
		v.SetDefault(b.key, b.dflt)
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("dbquery")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "dbquery"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	dotenv, err := readDotenv(".env", ".env.local")
	if err != nil {
		return nil, err
	}
	for _, b := range bindings {
		if _, set := os.LookupEnv(b.env); set {
			continue
		}
		if val, ok := dotenv[b.env]; ok {
			v.Set(b.key, val)
		}
	}

	dbPath, err := homedir.Expand(v.GetString("db.path"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DB: db.Config{
			Driver:          v.GetString("db.driver"),
			Host:            v.GetString("db.host"),
			Port:            v.GetInt("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			Name:            v.GetString("db.name"),
			SSLMode:         v.GetString("db.sslmode"),
			Path:            dbPath,
			PoolMode:        v.GetString("db.pool_mode"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
			ConnectTimeout:  v.GetDuration("db.connect_timeout"),
			QueryTimeout:    v.GetDuration("db.query_timeout"),
		},
		FAQTable:       v.GetString("tables.faq"),
		MenuTable:      v.GetString("tables.menu"),
		FAQFull:        v.GetBool("faq.full_rows"),
		Transport:      v.GetString("transport.mode"),
		Host:           v.GetString("transport.host"),
		Port:           v.GetInt("transport.port"),
		MetricsEnabled: v.GetBool("metrics.enabled"),
		LogLevel:       v.GetString("log.level"),
		LogFormat:      v.GetString("log.format"),
		ShutdownGrace:  v.GetDuration("shutdown.grace"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readDotenv merges the given dotenv files in order, later files winning.
// Missing files are skipped.
func readDotenv(names ...string) (map[string]string, error) {
	merged := map[string]string{}
	for _, name := range names {
		if _, err := AppFs.Stat(name); err != nil {
			continue
		}
		data, err := afero.ReadFile(AppFs, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		values, err := godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		for k, val := range values {
			merged[k] = val
		}
	}
	return merged, nil
}

// Validate checks enums, pool sizes and table identifiers.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite, db.DriverMySQL:
	default:
		return fmt.Errorf("invalid db.driver %q: must be postgres, sqlite or mysql", c.DB.Driver)
	}
	switch c.DB.PoolMode {
	case db.PoolModePool, db.PoolModeSingle:
	default:
		return fmt.Errorf("invalid db.pool_mode %q: must be pool or single", c.DB.PoolMode)
	}
	if c.DB.MaxOpenConns < 1 || c.DB.MaxIdleConns < 0 {
		return fmt.Errorf("invalid pool size: max_open_conns=%d max_idle_conns=%d", c.DB.MaxOpenConns, c.DB.MaxIdleConns)
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP, TransportSSE:
	default:
		return fmt.Errorf("invalid transport.mode %q: must be stdio, http or sse", c.Transport)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid transport.port %d", c.Port)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log.format %q: must be text or json", c.LogFormat)
	}
	for key, name := range map[string]string{"tables.faq": c.FAQTable, "tables.menu": c.MenuTable} {
		if !tableName.MatchString(name) {
			return fmt.Errorf("invalid %s %q: must be a plain or schema-qualified identifier", key, name)
		}
	}
	return nil
}
