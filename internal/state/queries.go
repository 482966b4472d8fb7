package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leapstack-labs/freebies/pkg/core"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds the typed statements shared by the store and its
// transactions. A nil *queries means the store is not open.
type queries struct {
	db querier
}

func newQueries(db querier) *queries {
	return &queries{db: db}
}

func (q *queries) ready() error {
	if q == nil || q.db == nil {
		return core.ErrStoreNotOpen
	}
	return nil
}

// --- Company operations ---

// GetCompany retrieves a company by id.
func (q *queries) GetCompany(ctx context.Context, id int64) (*core.Company, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.getCompany(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
}

// FindCompanyByName retrieves the first company with the given name.
func (q *queries) FindCompanyByName(ctx context.Context, name string) (*core.Company, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.getCompany(ctx, `SELECT `+companyColumns+` FROM companies WHERE name = ? ORDER BY id LIMIT 1`, name)
}

// OldestCompany returns the company with the smallest founding year.
// Ties go to the lowest id. Companies without a founding year are skipped.
func (q *queries) OldestCompany(ctx context.Context) (*core.Company, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.getCompany(ctx, `
		SELECT `+companyColumns+` FROM companies
		WHERE founding_year IS NOT NULL
		ORDER BY founding_year ASC, id ASC
		LIMIT 1`)
}

func (q *queries) getCompany(ctx context.Context, query string, args ...any) (*core.Company, error) {
	var row companyRow
	err := q.db.QueryRowContext(ctx, query, args...).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return row.toCore(), nil
}

// ListCompanies returns all companies ordered by id.
func (q *queries) ListCompanies(ctx context.Context) ([]*core.Company, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var companies []*core.Company
	for rows.Next() {
		var row companyRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, row.toCore())
	}
	return companies, rows.Err()
}

// CreateCompany inserts c and sets c.ID.
func (q *queries) CreateCompany(ctx context.Context, c *core.Company) error {
	if err := q.ready(); err != nil {
		return err
	}

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO companies (name, founding_year) VALUES (?, ?)`,
		nullableString(c.Name), nullableYear(c.FoundingYear),
	)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return assignID(res, &c.ID)
}

// DeleteCompany removes a company. Referencing freebies make SQLite
// reject the delete.
func (q *queries) DeleteCompany(ctx context.Context, id int64) error {
	if err := q.ready(); err != nil {
		return err
	}
	return q.deleteOne(ctx, "company", `DELETE FROM companies WHERE id = ?`, id)
}

// --- Dev operations ---

// GetDev retrieves a dev by id.
func (q *queries) GetDev(ctx context.Context, id int64) (*core.Dev, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.getDev(ctx, `SELECT `+devColumns+` FROM devs WHERE id = ?`, id)
}

// FindDevByName retrieves the first dev with the given name.
func (q *queries) FindDevByName(ctx context.Context, name string) (*core.Dev, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.getDev(ctx, `SELECT `+devColumns+` FROM devs WHERE name = ? ORDER BY id LIMIT 1`, name)
}

func (q *queries) getDev(ctx context.Context, query string, args ...any) (*core.Dev, error) {
	var row devRow
	err := q.db.QueryRowContext(ctx, query, args...).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dev: %w", err)
	}
	return row.toCore(), nil
}

// ListDevs returns all devs ordered by id.
func (q *queries) ListDevs(ctx context.Context) ([]*core.Dev, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx, `SELECT `+devColumns+` FROM devs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list devs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var devs []*core.Dev
	for rows.Next() {
		var row devRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan dev: %w", err)
		}
		devs = append(devs, row.toCore())
	}
	return devs, rows.Err()
}

// CreateDev inserts d and sets d.ID.
func (q *queries) CreateDev(ctx context.Context, d *core.Dev) error {
	if err := q.ready(); err != nil {
		return err
	}

	res, err := q.db.ExecContext(ctx, `INSERT INTO devs (name) VALUES (?)`, nullableString(d.Name))
	if err != nil {
		return fmt.Errorf("failed to create dev: %w", err)
	}
	return assignID(res, &d.ID)
}

// DeleteDev removes a dev.
func (q *queries) DeleteDev(ctx context.Context, id int64) error {
	if err := q.ready(); err != nil {
		return err
	}
	return q.deleteOne(ctx, "dev", `DELETE FROM devs WHERE id = ?`, id)
}

// --- Freebie operations ---

// GetFreebie retrieves a freebie by id.
func (q *queries) GetFreebie(ctx context.Context, id int64) (*core.Freebie, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.getFreebie(ctx, `SELECT `+freebieColumns+` FROM freebies WHERE id = ?`, id)
}

// FindFreebieByItem retrieves the first freebie with the given item name.
func (q *queries) FindFreebieByItem(ctx context.Context, itemName string) (*core.Freebie, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.getFreebie(ctx, `SELECT `+freebieColumns+` FROM freebies WHERE item_name = ? ORDER BY id LIMIT 1`, itemName)
}

func (q *queries) getFreebie(ctx context.Context, query string, args ...any) (*core.Freebie, error) {
	var row freebieRow
	err := q.db.QueryRowContext(ctx, query, args...).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get freebie: %w", err)
	}
	return row.toCore(), nil
}

// ListFreebies returns all freebies ordered by id.
func (q *queries) ListFreebies(ctx context.Context) ([]*core.Freebie, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.listFreebies(ctx, `SELECT `+freebieColumns+` FROM freebies ORDER BY id`)
}

// FreebiesByDevID returns the freebies a dev holds, in insertion order.
func (q *queries) FreebiesByDevID(ctx context.Context, devID int64) ([]*core.Freebie, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.listFreebies(ctx, `SELECT `+freebieColumns+` FROM freebies WHERE dev_id = ? ORDER BY id`, devID)
}

// FreebiesByCompanyID returns the freebies a company gave, in insertion order.
func (q *queries) FreebiesByCompanyID(ctx context.Context, companyID int64) ([]*core.Freebie, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.listFreebies(ctx, `SELECT `+freebieColumns+` FROM freebies WHERE company_id = ? ORDER BY id`, companyID)
}

func (q *queries) listFreebies(ctx context.Context, query string, args ...any) ([]*core.Freebie, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list freebies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var freebies []*core.Freebie
	for rows.Next() {
		var row freebieRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan freebie: %w", err)
		}
		freebies = append(freebies, row.toCore())
	}
	return freebies, rows.Err()
}

// CreateFreebie validates f, inserts it and sets f.ID.
func (q *queries) CreateFreebie(ctx context.Context, f *core.Freebie) error {
	if err := q.ready(); err != nil {
		return err
	}
	if err := validateFreebie(f); err != nil {
		return err
	}

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO freebies (item_name, value, dev_id, company_id) VALUES (?, ?, ?, ?)`,
		f.ItemName, f.Value, f.DevID, f.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to create freebie: %w", err)
	}
	return assignID(res, &f.ID)
}

// UpdateFreebie writes every mutable column of a stored freebie.
func (q *queries) UpdateFreebie(ctx context.Context, f *core.Freebie) error {
	if err := q.ready(); err != nil {
		return err
	}
	if !f.Persisted() {
		return fmt.Errorf("failed to update freebie: %w", core.ErrNotPersisted)
	}
	if err := validateFreebie(f); err != nil {
		return err
	}

	res, err := q.db.ExecContext(ctx,
		`UPDATE freebies SET item_name = ?, value = ?, dev_id = ?, company_id = ? WHERE id = ?`,
		f.ItemName, f.Value, f.DevID, f.CompanyID, f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update freebie: %w", err)
	}
	return expectOneRow(res, "freebie", f.ID)
}

// DeleteFreebie removes a freebie.
func (q *queries) DeleteFreebie(ctx context.Context, id int64) error {
	if err := q.ready(); err != nil {
		return err
	}
	return q.deleteOne(ctx, "freebie", `DELETE FROM freebies WHERE id = ?`, id)
}

// DeleteFreebiesByCompanyID removes every freebie a company gave and
// returns how many were removed.
func (q *queries) DeleteFreebiesByCompanyID(ctx context.Context, companyID int64) (int64, error) {
	if err := q.ready(); err != nil {
		return 0, err
	}
	return q.deleteMany(ctx, `DELETE FROM freebies WHERE company_id = ?`, companyID)
}

// DeleteFreebiesByDevID removes every freebie a dev holds and returns how
// many were removed.
func (q *queries) DeleteFreebiesByDevID(ctx context.Context, devID int64) (int64, error) {
	if err := q.ready(); err != nil {
		return 0, err
	}
	return q.deleteMany(ctx, `DELETE FROM freebies WHERE dev_id = ?`, devID)
}

// Clear deletes all rows, children first.
func (q *queries) Clear(ctx context.Context) error {
	if err := q.ready(); err != nil {
		return err
	}

	for _, table := range []string{"freebies", "devs", "companies"} {
		if _, err := q.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (q *queries) deleteOne(ctx context.Context, entity, query string, id int64) error {
	res, err := q.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", entity, err)
	}
	return expectOneRow(res, entity, id)
}

func (q *queries) deleteMany(ctx context.Context, query string, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete freebies: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func assignID(res sql.Result, id *int64) error {
	lastID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	*id = lastID
	return nil
}

func expectOneRow(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, core.ErrNotFound)
	}
	return nil
}
