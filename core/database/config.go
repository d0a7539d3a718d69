package database

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DriverSQLite selects the embedded SQLite engine (default).
	DriverSQLite = "sqlite3"
	// DriverPostgres selects a PostgreSQL server.
	DriverPostgres = "postgres"
)

// Config holds database connection settings shared across bots.
type Config struct {
	Driver string `yaml:"driver" envconfig:"DB_DRIVER" validate:"omitempty,oneof=sqlite3 postgres"`
	// Path is the SQLite database file; ":memory:" keeps it in memory.
	Path           string `yaml:"path" envconfig:"DB_PATH"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS" validate:"gte=0"`
	BusyTimeoutMS  int    `yaml:"busy_timeout_ms" envconfig:"DB_BUSY_TIMEOUT_MS" validate:"gte=0"`
}

// DriverName returns the normalized driver, defaulting to SQLite.
func (c Config) DriverName() string {
	d := strings.ToLower(strings.TrimSpace(c.Driver))
	if d == "" || d == "sqlite" {
		return DriverSQLite
	}
	return d
}

// DSN builds the driver specific data source name.
func (c Config) DSN() string {
	if c.DriverName() == DriverPostgres {
		return fmt.Sprintf(
			"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.Name, c.sslMode(),
		)
	}
	path := strings.TrimSpace(c.Path)
	if path == "" {
		path = "quiz_system.db"
	}
	busy := c.BusyTimeoutMS
	if busy <= 0 {
		busy = 20000
	}
	if path == ":memory:" {
		return fmt.Sprintf("file::memory:?_busy_timeout=%d", busy)
	}
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", path, busy)
}

// MigrateURL builds the URL understood by golang-migrate for server databases.
func (c Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + c.sslMode(),
	}
	return u.String()
}

// Target describes the database for logs without credentials.
func (c Config) Target() string {
	if c.DriverName() == DriverPostgres {
		return c.Host + ":" + c.Port + "/" + c.Name
	}
	if p := strings.TrimSpace(c.Path); p != "" {
		return p
	}
	return "quiz_system.db"
}

func (c Config) sslMode() string {
	if c.SSLMode == "" {
		return "disable"
	}
	return c.SSLMode
}
