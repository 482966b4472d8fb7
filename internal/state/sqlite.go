package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/leapstack-labs/freebies/pkg/core"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore implements core.Store using SQLite.
type SQLiteStore struct {
	*queries
	db       *sql.DB
	path     string
	readOnly bool
	logger   *slog.Logger
}

var (
	_ core.Store    = (*SQLiteStore)(nil)
	_ core.Reporter = (*SQLiteStore)(nil)
)

// NewSQLiteStore creates a new SQLite store instance. A nil logger discards
// store logs.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger.With("component", "store")}
}

// NewSQLiteStoreWithDB wraps an already opened database handle.
// The store takes ownership of db and closes it on Close.
func NewSQLiteStoreWithDB(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	s := NewSQLiteStore(logger)
	s.db = db
	s.queries = newQueries(db)
	return s
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	return s.open(path, false)
}

// OpenReadOnly opens an existing database file without write access.
func (s *SQLiteStore) OpenReadOnly(path string) error {
	return s.open(path, true)
}

func (s *SQLiteStore) open(path string, readOnly bool) error {
	if path == "" {
		return fmt.Errorf("database path is empty")
	}

	db, err := sql.Open("sqlite", buildDSN(path, readOnly))
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One connection: a single writer, and ":memory:" databases are
	// per-connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.readOnly = readOnly
	s.queries = newQueries(db)

	s.logger.Debug("database opened", "path", path, "read_only", readOnly)
	return nil
}

// buildDSN turns a file path into a modernc.org/sqlite DSN with foreign
// keys enforced on every connection.
func buildDSN(path string, readOnly bool) string {
	params := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)"}
	if path == MemoryPath {
		return path + "?" + strings.Join(params, "&")
	}
	if readOnly {
		params = append([]string{"mode=ro"}, params...)
	}
	return "file:" + path + "?" + strings.Join(params, "&")
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.queries = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.logger.Debug("database closed", "path", s.path)
	return nil
}

// Path returns the path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// DB exposes the underlying handle for ad-hoc read-only queries.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Begin starts a transaction. Reads made through the returned Tx see its
// uncommitted writes. The store's own read methods must not be used while
// a Tx is open: the store holds a single connection.
func (s *SQLiteStore) Begin(ctx context.Context) (core.Tx, error) {
	if s.db == nil {
		return nil, core.ErrStoreNotOpen
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqliteTx{queries: newQueries(tx), tx: tx}, nil
}

// WithTx runs fn in a transaction on this store.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx core.Tx) error) error {
	return WithTx(ctx, s, fn)
}
