// Package storage opens the primary database. The driver is picked from
// the scheme of the configured URL: PostgreSQL through pgx, or SQLite
// through the pure-Go modernc driver.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gotofast/logistics/internal/filex"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names a supported SQL backend.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// GooseDialect is the dialect name goose expects.
func (d Dialect) GooseDialect() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Target is a parsed database URL.
type Target struct {
	Dialect Dialect
	DSN     string
	// Path is the SQLite file, empty for PostgreSQL and in-memory SQLite.
	Path string
}

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// ParseURL understands postgres://, postgresql://, sqlite:// and file:
// URLs. sqlite:///logistics.db is relative to the working directory and
// sqlite:////var/lib/logistics.db is absolute; sqlite:// alone is an
// in-memory database.
func ParseURL(raw string) (Target, error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return Target{Dialect: DialectPostgres, DSN: raw}, nil

	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		if path == "" || path == ":memory:" {
			return Target{Dialect: DialectSQLite, DSN: "file::memory:?" + sqlitePragmas}, nil
		}
		return Target{Dialect: DialectSQLite, DSN: "file:" + path + "?" + sqlitePragmas, Path: path}, nil

	case strings.HasPrefix(raw, "file:"):
		return Target{Dialect: DialectSQLite, DSN: raw}, nil
	}

	return Target{}, fmt.Errorf("unsupported database url %q", redact(raw))
}

// Options tune the connection pool.
type Options struct {
	// ConnMaxLifetime recycles pooled connections after this long.
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// Open parses rawURL, opens the pool and pings it once so a bad URL fails
// at startup instead of on the first request.
func Open(ctx context.Context, rawURL string, opts Options) (*sql.DB, Dialect, error) {
	target, err := ParseURL(rawURL)
	if err != nil {
		return nil, "", err
	}

	if target.Path != "" {
		if _, err := filex.EnsureParentDir(target.Path); err != nil {
			return nil, "", fmt.Errorf("db dir: %w", err)
		}
	}

	db, err := sql.Open(target.Dialect.DriverName(), target.DSN)
	if err != nil {
		return nil, "", fmt.Errorf("db open error: %w", err)
	}

	inMemory := target.Dialect == DialectSQLite && strings.Contains(target.DSN, ":memory:")
	if opts.ConnMaxLifetime > 0 && !inMemory {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if target.Dialect == DialectSQLite {
		// one writer at a time; in-memory databases also vanish with their connection
		db.SetMaxOpenConns(1)
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("db ping error: %w", err)
	}

	return db, target.Dialect, nil
}

// redact drops everything between the scheme and the host so credentials
// never reach the logs.
func redact(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}
