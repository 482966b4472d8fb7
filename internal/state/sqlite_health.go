package state

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Health checks back the doctor command. Each returns one human-readable
// line per problem found; an empty slice means the check passed.

// PendingMigrations lists embedded migrations not yet applied.
func (s *SQLiteStore) PendingMigrations(ctx context.Context) ([]string, error) {
	p, err := s.provider()
	if err != nil {
		return nil, err
	}

	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}

	var pending []string
	for _, st := range statuses {
		if st.State != goose.StateApplied {
			pending = append(pending, fmt.Sprintf("migration %05d (%s) is pending", st.Source.Version, st.Source.Path))
		}
	}
	return pending, nil
}

// ForeignKeysDisabled reports a problem when the connection does not
// enforce foreign keys.
func (s *SQLiteStore) ForeignKeysDisabled(ctx context.Context) ([]string, error) {
	if err := s.queries.ready(); err != nil {
		return nil, err
	}

	var on int
	if err := s.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on); err != nil {
		return nil, fmt.Errorf("failed to read foreign_keys pragma: %w", err)
	}
	if on != 1 {
		return []string{"foreign key enforcement is off"}, nil
	}
	return nil, nil
}

// IntegrityErrors returns the output of PRAGMA integrity_check other than "ok".
func (s *SQLiteStore) IntegrityErrors(ctx context.Context) ([]string, error) {
	lines, err := s.strings(ctx, "PRAGMA integrity_check")
	if err != nil {
		return nil, fmt.Errorf("failed to run integrity check: %w", err)
	}
	if len(lines) == 1 && lines[0] == "ok" {
		return nil, nil
	}
	return lines, nil
}

// ForeignKeyViolations lists rows whose references do not resolve. They can
// only exist if rows were written with enforcement off.
func (s *SQLiteStore) ForeignKeyViolations(ctx context.Context) ([]string, error) {
	if err := s.queries.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT "table", rowid, parent FROM pragma_foreign_key_check`)
	if err != nil {
		return nil, fmt.Errorf("failed to run foreign key check: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var table, parent string
		var rowid int64
		if err := rows.Scan(&table, &rowid, &parent); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key violation: %w", err)
		}
		out = append(out, fmt.Sprintf("%s row %d references a missing %s row", table, rowid, parent))
	}
	return out, rows.Err()
}

// DuplicateNames lists company and dev names used by more than one row.
// Name lookups resolve to the lowest id, hiding the others.
func (s *SQLiteStore) DuplicateNames(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `
		SELECT kind || ' "' || name || '" is used by ' || n || ' rows'
		FROM (
			SELECT 'company' AS kind, name, COUNT(*) AS n FROM companies
			WHERE name IS NOT NULL GROUP BY name HAVING n > 1
			UNION ALL
			SELECT 'dev', name, COUNT(*) FROM devs
			WHERE name IS NOT NULL GROUP BY name HAVING COUNT(*) > 1
		)
		ORDER BY kind, name`)
}

// DuplicateItemNames lists item names shared by more than one freebie.
func (s *SQLiteStore) DuplicateItemNames(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `
		SELECT 'item "' || item_name || '" is used by ' || COUNT(*) || ' freebies'
		FROM freebies
		GROUP BY item_name HAVING COUNT(*) > 1
		ORDER BY item_name`)
}

// UnnamedRows lists companies and devs with a NULL or empty name.
func (s *SQLiteStore) UnnamedRows(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `
		SELECT 'company ' || id || ' has no name' FROM companies WHERE COALESCE(name, '') = ''
		UNION ALL
		SELECT 'dev ' || id || ' has no name' FROM devs WHERE COALESCE(name, '') = ''`)
}

// CompaniesWithoutFoundingYear lists companies the oldest-company lookup skips.
func (s *SQLiteStore) CompaniesWithoutFoundingYear(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `
		SELECT 'company ' || id || ' (' || COALESCE(name, '') || ') has no founding year'
		FROM companies WHERE founding_year IS NULL
		ORDER BY id`)
}

func (s *SQLiteStore) strings(ctx context.Context, query string) ([]string, error) {
	if err := s.queries.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}
