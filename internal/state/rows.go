package state

import (
	"database/sql"

	"github.com/leapstack-labs/freebies/pkg/core"
)

// Row scanners keep column order in one place per table. When adding a
// column, append it to the select list and to scanArgs in the same order.

const (
	companyColumns = `id, name, founding_year`
	devColumns     = `id, name`
	freebieColumns = `id, item_name, value, dev_id, company_id`
)

// companyRow mirrors the companies table. name and founding_year are
// nullable in the schema.
type companyRow struct {
	ID           int64
	Name         sql.NullString
	FoundingYear sql.NullInt64
}

func (r *companyRow) scanArgs() []any {
	return []any{&r.ID, &r.Name, &r.FoundingYear}
}

func (r *companyRow) toCore() *core.Company {
	return &core.Company{
		ID:           r.ID,
		Name:         r.Name.String,
		FoundingYear: int(r.FoundingYear.Int64),
	}
}

type devRow struct {
	ID   int64
	Name sql.NullString
}

func (r *devRow) scanArgs() []any {
	return []any{&r.ID, &r.Name}
}

func (r *devRow) toCore() *core.Dev {
	return &core.Dev{ID: r.ID, Name: r.Name.String}
}

type freebieRow struct {
	core.Freebie
}

func (r *freebieRow) scanArgs() []any {
	return []any{&r.ID, &r.ItemName, &r.Value, &r.DevID, &r.CompanyID}
}

func (r *freebieRow) toCore() *core.Freebie {
	f := r.Freebie
	return &f
}

// nullableString stores empty strings as NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullableYear stores an unknown (zero) year as NULL so it sorts out of
// OldestCompany.
func nullableYear(y int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(y), Valid: y != 0}
}
