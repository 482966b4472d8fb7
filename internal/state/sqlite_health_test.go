package state

import (
	"context"
	"strings"
	"testing"

	"github.com/leapstack-labs/freebies/pkg/core"
)

func TestSQLiteStore_HealthyDatabase(t *testing.T) {
	store := setupTestStore(t)
	seedTestData(t, store)
	ctx := context.Background()

	checks := map[string]func(context.Context) ([]string, error){
		"PendingMigrations":            store.PendingMigrations,
		"ForeignKeysDisabled":          store.ForeignKeysDisabled,
		"IntegrityErrors":              store.IntegrityErrors,
		"ForeignKeyViolations":         store.ForeignKeyViolations,
		"DuplicateNames":               store.DuplicateNames,
		"DuplicateItemNames":           store.DuplicateItemNames,
		"UnnamedRows":                  store.UnnamedRows,
		"CompaniesWithoutFoundingYear": store.CompaniesWithoutFoundingYear,
	}
	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			problems, err := check(ctx)
			if err != nil {
				t.Fatalf("%s failed: %v", name, err)
			}
			if len(problems) != 0 {
				t.Errorf("%s found problems on a healthy database: %v", name, problems)
			}
		})
	}
}

func TestSQLiteStore_PendingMigrations(t *testing.T) {
	store := setupTestStore(t)
	if err := store.MigrateDown(); err != nil {
		t.Fatalf("failed to migrate down: %v", err)
	}

	pending, err := store.PendingMigrations(context.Background())
	if err != nil {
		t.Fatalf("PendingMigrations failed: %v", err)
	}
	if len(pending) != 1 || !strings.Contains(pending[0], "00002") {
		t.Errorf("pending = %v, want migration 00002", pending)
	}
}

func TestSQLiteStore_DataProblems(t *testing.T) {
	store := setupTestStore(t)
	company, dev, _ := seedTestData(t, store)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx core.Tx) error {
		if err := tx.CreateCompany(ctx, &core.Company{Name: "ODM"}); err != nil {
			return err
		}
		if err := tx.CreateDev(ctx, &core.Dev{}); err != nil {
			return err
		}
		return tx.CreateFreebie(ctx, &core.Freebie{ItemName: "ODM T-shirts", Value: 1, DevID: dev.ID, CompanyID: company.ID})
	})
	if err != nil {
		t.Fatalf("failed to insert rows: %v", err)
	}

	tests := []struct {
		name  string
		check func(context.Context) ([]string, error)
		want  string
	}{
		{"duplicate names", store.DuplicateNames, `company "ODM" is used by 2 rows`},
		{"duplicate items", store.DuplicateItemNames, `item "ODM T-shirts" is used by 2 freebies`},
		{"unnamed rows", store.UnnamedRows, "dev 2 has no name"},
		{"missing founding year", store.CompaniesWithoutFoundingYear, "company 2 (ODM) has no founding year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems, err := tt.check(ctx)
			if err != nil {
				t.Fatalf("check failed: %v", err)
			}
			if len(problems) != 1 || problems[0] != tt.want {
				t.Errorf("problems = %v, want [%s]", problems, tt.want)
			}
		})
	}
}

func TestSQLiteStore_ForeignKeyViolations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		t.Fatalf("failed to disable foreign keys: %v", err)
	}
	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO freebies (item_name, value, dev_id, company_id) VALUES ('Ghost', 1, 99, 98)`); err != nil {
		t.Fatalf("failed to insert orphan: %v", err)
	}

	off, err := store.ForeignKeysDisabled(ctx)
	if err != nil {
		t.Fatalf("ForeignKeysDisabled failed: %v", err)
	}
	if len(off) != 1 {
		t.Errorf("expected foreign key enforcement to be reported off, got %v", off)
	}

	violations, err := store.ForeignKeyViolations(ctx)
	if err != nil {
		t.Fatalf("ForeignKeyViolations failed: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("violations = %v, want one per missing parent", violations)
	}
	for _, v := range violations {
		if !strings.HasPrefix(v, "freebies row 1 references a missing") {
			t.Errorf("unexpected violation %q", v)
		}
	}
}

func TestSQLiteStore_ZeroFoundingYearIsUnknown(t *testing.T) {
	store := setupTestStore(t)
	seedTestData(t, store)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx core.Tx) error {
		return tx.CreateCompany(ctx, &core.Company{Name: "KANU"})
	})
	if err != nil {
		t.Fatalf("failed to create company: %v", err)
	}

	oldest, err := store.OldestCompany(ctx)
	if err != nil {
		t.Fatalf("OldestCompany failed: %v", err)
	}
	if oldest == nil || oldest.Name != "ODM" {
		t.Errorf("oldest = %v, want ODM", oldest)
	}
}
