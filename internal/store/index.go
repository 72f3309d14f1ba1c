package store

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/turbot/bqpipe/internal/perr"

	_ "github.com/lib/pq"
	_ "github.com/marcboeker/go-duckdb"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSqlite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

// Store persists compiled pipelines in a SQL database.
type Store struct {
	db     *sql.DB
	driver string
}

// Open opens the database and makes sure the pipeline table exists.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSqlite, DriverDuckDB:
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, perr.ConfigurationErrorWithMessage("unsupported registry driver: " + driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, perr.InternalWithMessage("error opening " + driver + " database " + err.Error())
	}

	s := &Store{db: db, driver: driver}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	createTableSQL := `create table if not exists pipeline (
		name text primary key,
		spec text not null,
		updated_at timestamp not null
	)`

	_, err := s.db.Exec(createTableSQL)
	if err != nil {
		slog.Error("error creating pipeline table", "driver", s.driver, "error", err)
		return perr.InternalWithMessage("error creating pipeline table")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ensureDir creates the parent directory of a file database.
func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return perr.InternalWithMessage("error creating registry directory " + err.Error())
	}
	return nil
}
