package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Backend selects the SQL engine behind a Store.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendMySQL    Backend = "mysql"
	BackendPostgres Backend = "postgres"
)

// ParseBackend validates a backend name. "postgresql" is accepted as an
// alias for postgres.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite", "":
		return BackendSQLite, nil
	case "mysql":
		return BackendMySQL, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	}
	return "", fmt.Errorf("unsupported inventory backend %q (want sqlite, mysql, or postgres)", s)
}

// Store is the SQL-backed inventory. All methods are safe for concurrent
// use; SQLite is limited to one open connection to avoid lock errors.
type Store struct {
	db      *sql.DB
	backend Backend
}

// Open connects to the configured backend and verifies the connection. For
// SQLite, connStr is a file path and an empty value falls back to
// ~/.deskmate/inventory.db. For MySQL the DSN looks like
// user:password@tcp(host:port)/dbname, for PostgreSQL like
// host=localhost port=5432 user=postgres dbname=inventory.
func Open(backend Backend, connStr string) (*Store, error) {
	var db *sql.DB
	var err error

	switch backend {
	case BackendSQLite:
		path := connStr
		if path == "" {
			path = defaultSQLitePath()
		}
		dsn := path
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open SQLite database at %q: %w", path, err)
		}
		// A single connection avoids "database is locked" errors.
		db.SetMaxOpenConns(1)

	case BackendMySQL:
		cfg, perr := mysql.ParseDSN(connStr)
		if perr != nil {
			return nil, fmt.Errorf("parse MySQL DSN: %w (want user:password@tcp(host:port)/dbname)", perr)
		}
		// Migration files carry several statements each.
		cfg.MultiStatements = true
		db, err = sql.Open("mysql", cfg.FormatDSN())
		if err != nil {
			return nil, fmt.Errorf("connect to MySQL: %w", err)
		}

	case BackendPostgres:
		if connStr == "" {
			return nil, fmt.Errorf("postgres backend requires a connection string (host=... user=... dbname=...)")
		}
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported inventory backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", backend, err)
	}

	return &Store{db: db, backend: backend}, nil
}

// Backend returns the engine this store runs on.
func (s *Store) Backend() Backend {
	return s.backend
}

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind converts ? placeholders to the backend's parameter syntax.
// PostgreSQL wants $1..$n; SQLite and MySQL take ? as written.
func (s *Store) rebind(query string) string {
	if s.backend != BackendPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// insertID runs an INSERT and returns the new row's id. PostgreSQL has no
// LastInsertId, so the query grows a RETURNING clause there.
func (s *Store) insertID(ctx context.Context, query string, args ...any) (int64, error) {
	if s.backend == BackendPostgres {
		var id int64
		err := s.db.QueryRowContext(ctx, s.rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// lockSuffix returns the row-lock clause used inside transactions. SQLite
// locks the whole database, so it gets nothing.
func (s *Store) lockSuffix() string {
	if s.backend == BackendSQLite {
		return ""
	}
	return " FOR UPDATE"
}

// nullIfEmpty maps "" to NULL so optional unique columns do not collide.
func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "inventory.db"
	}
	return filepath.Join(home, ".deskmate", "inventory.db")
}
