// Package config provides configuration management for the placereview service.
// Values come from environment variables (optionally seeded from a .env file by main),
// with support for required variables, default values, and collective error reporting:
// every problem is gathered and returned as one error instead of failing on the first.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Supported database drivers. The names are the database/sql driver names
// registered by github.com/jackc/pgx/v5/stdlib and github.com/mattn/go-sqlite3.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

const (
	minMaxConns = 1
	maxMaxConns = 100
)

// DatabaseConfig holds everything needed to open the relational store.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite file path
	MaxConns int
}

// DSN returns the data source name understood by the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB     *DatabaseConfig
	Server *ServerConfig
	Log    *LogConfig
}

// envLoader reads variables and records every problem it meets.
type envLoader struct {
	errs *multierror.Error
}

func (l *envLoader) fail(format string, args ...interface{}) {
	l.errs = multierror.Append(l.errs, fmt.Errorf(format, args...))
}

// required returns the value of key, recording an error when it is not set.
func (l *envLoader) required(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		l.fail("missing required environment variable: %s", key)
		return ""
	}
	return value
}

func (l *envLoader) optional(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func (l *envLoader) optionalInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		l.fail("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err)
		return defaultValue
	}
	return valueInt
}

// optionalDuration parses strings like "15s" or "1m30s".
func (l *envLoader) optionalDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		l.fail("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err)
		return defaultValue
	}
	return valueDuration
}

// clampMaxConns keeps the pool size within [1,100], recording an error when clamping.
func (l *envLoader) clampMaxConns(size int) int {
	if size < minMaxConns {
		l.fail("DB_MAX_CONNS (%d) is less than minimum %d, clamping to %d", size, minMaxConns, minMaxConns)
		return minMaxConns
	}
	if size > maxMaxConns {
		l.fail("DB_MAX_CONNS (%d) is greater than maximum %d, clamping to %d", size, maxMaxConns, maxMaxConns)
		return maxMaxConns
	}
	return size
}

// normalizeDriver maps the accepted DB_DRIVER spellings onto a registered driver name.
func normalizeDriver(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, true
	case "sqlite", "sqlite3":
		return DriverSQLite, true
	default:
		return "", false
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	l := &envLoader{}

	rawDriver := l.optional("DB_DRIVER", "postgres")
	driver, ok := normalizeDriver(rawDriver)
	if !ok {
		l.fail("unsupported DB_DRIVER '%s': expected postgres or sqlite", rawDriver)
	}

	dbCfg := &DatabaseConfig{
		Driver:   driver,
		MaxConns: l.clampMaxConns(l.optionalInt("DB_MAX_CONNS", 10)),
	}

	switch driver {
	case DriverPostgres:
		dbCfg.User = l.required("DB_USER")
		dbCfg.Password = l.required("DB_PASSWORD")
		dbCfg.DBName = l.required("DB_NAME")
		dbCfg.Host = l.optional("DB_HOST", "localhost")
		dbCfg.Port = l.optionalInt("DB_PORT", 5432)
		dbCfg.SSLMode = l.optional("DB_SSLMODE", "disable")
	case DriverSQLite:
		dbCfg.Path = l.optional("DB_PATH", "placereview.db")
	}

	serverCfg := &ServerConfig{
		// Kept as a string because it is used directly in the listen address (":8080").
		Port:           l.optional("PORT", "8080"),
		ReadTimeout:    l.optionalDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   l.optionalDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    l.optionalDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		AllowedOrigins: splitList(l.optional("CORS_ALLOWED_ORIGINS", "*")),
	}

	logCfg := &LogConfig{
		Level:  strings.ToLower(l.optional("LOG_LEVEL", "info")),
		Format: strings.ToLower(l.optional("LOG_FORMAT", "json")),
	}
	if logCfg.Format != "json" && logCfg.Format != "console" {
		l.fail("invalid LOG_FORMAT '%s': expected json or console", logCfg.Format)
	}

	if err := l.errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("configuration errors: %w", err)
	}

	return &AppConfig{
		DB:     dbCfg,
		Server: serverCfg,
		Log:    logCfg,
	}, nil
}
