package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/freebies/pkg/core"
)

// seedSampleData loads the three-party sample dataset.
func seedSampleData(t *testing.T, store *SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx core.Tx) error {
		companies := map[string]*core.Company{
			"ODM": {Name: "ODM", FoundingYear: 2005},
			"UDA": {Name: "UDA", FoundingYear: 2022},
			"DCP": {Name: "DCP", FoundingYear: 2025},
		}
		for _, name := range []string{"ODM", "UDA", "DCP"} {
			if err := tx.CreateCompany(ctx, companies[name]); err != nil {
				return err
			}
		}

		devs := map[string]*core.Dev{"Raila": {Name: "Raila"}, "Ruto": {Name: "Ruto"}, "Rigachi": {Name: "Rigachi"}}
		for _, name := range []string{"Raila", "Ruto", "Rigachi"} {
			if err := tx.CreateDev(ctx, devs[name]); err != nil {
				return err
			}
		}

		for _, f := range []struct {
			item    string
			value   int64
			dev     string
			company string
		}{
			{"ODM T-shirts", 2500000, "Raila", "ODM"},
			{"CDF funds", 5000000, "Raila", "UDA"},
			{"Hustler funds", 1500000, "Ruto", "ODM"},
			{"DCP Tanks", 500000, "Rigachi", "DCP"},
			{"Wheelbarrow", 300000, "Ruto", "UDA"},
		} {
			if err := tx.CreateFreebie(ctx, &core.Freebie{
				ItemName:  f.item,
				Value:     f.value,
				DevID:     devs[f.dev].ID,
				CompanyID: companies[f.company].ID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestReports_FreebieListing(t *testing.T) {
	store := setupTestStore(t)
	seedSampleData(t, store)

	rows, err := store.FreebieListing(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 5)

	var items []string
	for _, r := range rows {
		items = append(items, r.ItemName)
	}
	assert.Equal(t, []string{"CDF funds", "ODM T-shirts", "Hustler funds", "DCP Tanks", "Wheelbarrow"}, items)
	assert.Equal(t, &core.FreebieListing{ItemName: "CDF funds", Value: 5000000, DevName: "Raila", CompanyName: "UDA"}, rows[0])
}

func TestReports_HighValueFreebies(t *testing.T) {
	store := setupTestStore(t)
	seedSampleData(t, store)

	tests := []struct {
		name      string
		threshold int64
		want      []string
	}{
		{"default threshold", core.DefaultHighValueThreshold, []string{"CDF funds", "ODM T-shirts", "Hustler funds"}},
		{"threshold is exclusive", 2500000, []string{"CDF funds"}},
		{"nothing above", 10000000, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := store.HighValueFreebies(context.Background(), tt.threshold)
			require.NoError(t, err)

			var items []string
			for _, r := range rows {
				items = append(items, r.ItemName)
			}
			assert.Equal(t, tt.want, items)
		})
	}
}

func TestReports_DevTotals(t *testing.T) {
	store := setupTestStore(t)
	seedSampleData(t, store)
	ctx := context.Background()

	// A dev with nothing still shows up
	require.NoError(t, store.WithTx(ctx, func(tx core.Tx) error {
		return tx.CreateDev(ctx, &core.Dev{Name: "Kalonzo"})
	}))

	rows, err := store.DevTotals(ctx)
	require.NoError(t, err)

	assert.Equal(t, []*core.DevTotal{
		{DevName: "Raila", FreebieCount: 2, TotalValue: 7500000},
		{DevName: "Ruto", FreebieCount: 2, TotalValue: 1800000},
		{DevName: "Rigachi", FreebieCount: 1, TotalValue: 500000},
		{DevName: "Kalonzo", FreebieCount: 0, TotalValue: 0},
	}, rows)
}

func TestReports_CompanySummaries(t *testing.T) {
	store := setupTestStore(t)
	seedSampleData(t, store)

	rows, err := store.CompanySummaries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []*core.CompanySummary{
		{CompanyName: "UDA", FreebiesGiven: 2, TotalSpent: 5300000, DevsReached: 2},
		{CompanyName: "ODM", FreebiesGiven: 2, TotalSpent: 4000000, DevsReached: 2},
		{CompanyName: "DCP", FreebiesGiven: 1, TotalSpent: 500000, DevsReached: 1},
	}, rows)
}

func TestReports_Stats(t *testing.T) {
	store := setupTestStore(t)

	empty, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &core.Stats{}, empty)

	seedSampleData(t, store)

	st, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &core.Stats{Companies: 3, Devs: 3, Freebies: 5, TotalValue: 9800000}, st)
}
