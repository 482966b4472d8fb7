package state

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/freebies/pkg/core"
)

// FreebieListing returns every freebie joined with its dev and company,
// most valuable first.
func (s *SQLiteStore) FreebieListing(ctx context.Context) ([]*core.FreebieListing, error) {
	if err := s.queries.ready(); err != nil {
		return nil, err
	}
	return s.listing(ctx, `
		SELECT item_name, value, dev_name, company_name
		FROM v_freebies
		ORDER BY value DESC, id ASC`)
}

// HighValueFreebies returns the listing restricted to value > threshold.
func (s *SQLiteStore) HighValueFreebies(ctx context.Context, threshold int64) ([]*core.FreebieListing, error) {
	if err := s.queries.ready(); err != nil {
		return nil, err
	}
	return s.listing(ctx, `
		SELECT item_name, value, dev_name, company_name
		FROM v_freebies
		WHERE value > ?
		ORDER BY value DESC, id ASC`, threshold)
}

func (s *SQLiteStore) listing(ctx context.Context, query string, args ...any) ([]*core.FreebieListing, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query freebie listing: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.FreebieListing
	for rows.Next() {
		l := &core.FreebieListing{}
		var devName, companyName sql.NullString
		if err := rows.Scan(&l.ItemName, &l.Value, &devName, &companyName); err != nil {
			return nil, fmt.Errorf("failed to scan freebie listing: %w", err)
		}
		l.DevName = devName.String
		l.CompanyName = companyName.String
		out = append(out, l)
	}
	return out, rows.Err()
}

// DevTotals returns freebie count and total value per dev, including devs
// that hold nothing.
func (s *SQLiteStore) DevTotals(ctx context.Context) ([]*core.DevTotal, error) {
	if err := s.queries.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.name, COUNT(f.id) AS freebie_count, COALESCE(SUM(f.value), 0) AS total_value
		FROM devs d
		LEFT JOIN freebies f ON d.id = f.dev_id
		GROUP BY d.id, d.name
		ORDER BY total_value DESC, d.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dev totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.DevTotal
	for rows.Next() {
		t := &core.DevTotal{}
		var name sql.NullString
		if err := rows.Scan(&name, &t.FreebieCount, &t.TotalValue); err != nil {
			return nil, fmt.Errorf("failed to scan dev total: %w", err)
		}
		t.DevName = name.String
		out = append(out, t)
	}
	return out, rows.Err()
}

// CompanySummaries returns freebies given, total spent and distinct devs
// reached per company.
func (s *SQLiteStore) CompanySummaries(ctx context.Context) ([]*core.CompanySummary, error) {
	if err := s.queries.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name,
		       COUNT(f.id) AS freebies_given,
		       COALESCE(SUM(f.value), 0) AS total_spent,
		       COUNT(DISTINCT f.dev_id) AS devs_reached
		FROM companies c
		LEFT JOIN freebies f ON c.id = f.company_id
		GROUP BY c.id, c.name
		ORDER BY total_spent DESC, c.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query company summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.CompanySummary
	for rows.Next() {
		cs := &core.CompanySummary{}
		var name sql.NullString
		if err := rows.Scan(&name, &cs.FreebiesGiven, &cs.TotalSpent, &cs.DevsReached); err != nil {
			return nil, fmt.Errorf("failed to scan company summary: %w", err)
		}
		cs.CompanyName = name.String
		out = append(out, cs)
	}
	return out, rows.Err()
}

// Stats returns row counts and the total freebie value.
func (s *SQLiteStore) Stats(ctx context.Context) (*core.Stats, error) {
	if err := s.queries.ready(); err != nil {
		return nil, err
	}

	st := &core.Stats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM companies),
			(SELECT COUNT(*) FROM devs),
			(SELECT COUNT(*) FROM freebies),
			(SELECT COALESCE(SUM(value), 0) FROM freebies)`,
	).Scan(&st.Companies, &st.Devs, &st.Freebies, &st.TotalValue)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return st, nil
}
