package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/freebies/internal/engine"
	"github.com/leapstack-labs/freebies/internal/testutil"
	"github.com/leapstack-labs/freebies/pkg/core"
)

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "freebies.db")

	eng, err := engine.New(engine.Config{DBPath: dbPath, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	defer eng.Close()

	assert.Equal(t, dbPath, eng.DBPath())
	assert.NotNil(t, eng.Store())

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should be created")

	version, err := eng.Store().MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestNew_ReadOnly(t *testing.T) {
	t.Run("missing database", func(t *testing.T) {
		_, err := engine.New(engine.Config{DBPath: filepath.Join(t.TempDir(), "missing.db"), ReadOnly: true})
		assert.Error(t, err)
	})

	t.Run("existing database", func(t *testing.T) {
		path := testutil.NewSeededDB(t)

		eng, err := engine.New(engine.Config{DBPath: path, ReadOnly: true})
		require.NoError(t, err)
		defer eng.Close()

		companies, err := eng.Store().ListCompanies(context.Background())
		require.NoError(t, err)
		assert.Len(t, companies, 3)
	})
}

func TestEngine_Give(t *testing.T) {
	eng := testutil.NewSeededEngine(t)
	ctx := context.Background()
	store := eng.Store()

	uda := mustCompany(t, store, "UDA")
	rigachi := mustDev(t, store, "Rigachi")

	f, err := eng.Give(ctx, uda.ID, rigachi.ID, "Gumboots", 1200)
	require.NoError(t, err)
	assert.True(t, f.Persisted())

	got, err := store.GetFreebie(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f, got)

	companies, err := eng.DevCompanies(ctx, rigachi.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"DCP", "UDA"}, companyNames(companies))

	t.Run("unknown company", func(t *testing.T) {
		_, err := eng.Give(ctx, 999, rigachi.ID, "Cap", 1)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("invalid freebie is not stored", func(t *testing.T) {
		_, err := eng.Give(ctx, uda.ID, rigachi.ID, "", 1)
		assert.ErrorIs(t, err, core.ErrInvalidFreebie)

		st, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(6), st.Freebies)
	})
}

func TestEngine_Transfer(t *testing.T) {
	eng := testutil.NewSeededEngine(t)
	ctx := context.Background()
	store := eng.Store()

	raila := mustDev(t, store, "Raila")
	ruto := mustDev(t, store, "Ruto")
	cdf := mustFreebie(t, store, "CDF funds")

	outcome, err := eng.Transfer(ctx, ruto.ID, raila.ID, cdf.ID)
	require.NoError(t, err)
	assert.Equal(t, core.TransferRejected, outcome)
	assert.Equal(t, raila.ID, mustFreebie(t, store, "CDF funds").DevID)

	outcome, err = eng.Transfer(ctx, raila.ID, ruto.ID, cdf.ID)
	require.NoError(t, err)
	assert.Equal(t, core.TransferApplied, outcome)
	assert.Equal(t, ruto.ID, mustFreebie(t, store, "CDF funds").DevID)

	received, err := eng.ReceivedOne(ctx, ruto.ID, "CDF funds")
	require.NoError(t, err)
	assert.True(t, received)

	_, err = eng.Transfer(ctx, raila.ID, ruto.ID, 999)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = eng.Transfer(ctx, raila.ID, 999, cdf.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
