// Package store provides SQL-backed persistence for adjustment types, adjustments and time entries.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/starford/screentime/internal/store/migrations"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

// Store wraps a sql.DB with screentime-specific operations.
type Store struct {
	conn   *sql.DB
	driver string
	// path is the SQLite database file; empty for other drivers.
	path string
	now  func() time.Time
}

// Open opens (or creates) the database and applies the embedded migrations.
// For SQLite, dsn is a file path.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var path string
	switch driver {
	case DriverSQLite:
		path = dsn
		dsn += "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if err := migrate(ctx, conn, driver); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	s := New(conn, driver)
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		s.path = path
	}
	return s, nil
}

// New wraps an already opened connection without running migrations.
func New(conn *sql.DB, driver string) *Store {
	return &Store{conn: conn, driver: driver, now: time.Now}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func migrate(ctx context.Context, conn *sql.DB, driver string) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	dialect, dir := "sqlite3", "sqlite"
	if driver == DriverPostgres {
		dialect, dir = "postgres", "postgres"
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, conn, dir)
}

// rebind rewrites ? placeholders into the driver's native form.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// toMillisCeil rounds up to the next millisecond so that an inclusive lower
// bound never admits rows stored before it.
func toMillisCeil(t time.Time) int64 {
	ms := t.UnixMilli()
	if t.Sub(time.UnixMilli(ms)) > 0 {
		ms++
	}
	return ms
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func (s *Store) createdOrNow(created *time.Time) time.Time {
	if created != nil {
		return fromMillis(toMillis(*created))
	}
	return fromMillis(toMillis(s.now()))
}
