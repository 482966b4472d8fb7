// Package state provides the SQLite persistence layer for companies, devs
// and freebies, with embedded goose migrations.
package state

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/leapstack-labs/freebies/pkg/core"
)

//go:embed migrations/*.sql
var migrations embed.FS

// provider builds a goose provider over the embedded migrations.
func (s *SQLiteStore) provider() (*goose.Provider, error) {
	if s.db == nil {
		return nil, core.ErrStoreNotOpen
	}

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	p, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p, nil
}

// Migrate runs all pending database migrations.
func (s *SQLiteStore) Migrate() error {
	p, err := s.provider()
	if err != nil {
		return err
	}

	results, err := p.Up(context.Background())
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		s.logger.Debug("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func (s *SQLiteStore) MigrateDown() error {
	p, err := s.provider()
	if err != nil {
		return err
	}

	r, err := p.Down(context.Background())
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	if r != nil {
		s.logger.Debug("migration rolled back", "version", r.Source.Version)
	}
	return nil
}

// MigrationVersion returns the current migration version.
func (s *SQLiteStore) MigrationVersion() (int64, error) {
	p, err := s.provider()
	if err != nil {
		return 0, err
	}

	v, err := p.GetDBVersion(context.Background())
	if err != nil {
		return 0, fmt.Errorf("failed to get migration version: %w", err)
	}
	return v, nil
}

// MigrationStatus writes one line per known migration to w.
func (s *SQLiteStore) MigrationStatus(w io.Writer) error {
	p, err := s.provider()
	if err != nil {
		return err
	}

	statuses, err := p.Status(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	for _, st := range statuses {
		applied := "pending"
		if st.State == goose.StateApplied {
			applied = st.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		if _, err := fmt.Fprintf(w, "%05d  %-19s  %s\n", st.Source.Version, applied, st.Source.Path); err != nil {
			return err
		}
	}
	return nil
}

// SchemaVersion returns the version the embedded migrations bring a
// database to.
func SchemaVersion() (int64, error) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}

	var latest int64
	for _, e := range entries {
		v, err := goose.NumericComponent(e.Name())
		if err != nil {
			return 0, fmt.Errorf("migration %s: %w", e.Name(), err)
		}
		latest = max(latest, v)
	}
	return latest, nil
}
