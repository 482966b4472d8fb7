package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/freebies/internal/engine"
	"github.com/leapstack-labs/freebies/internal/seed"
	"github.com/leapstack-labs/freebies/internal/state"
)

// NewEngine opens a migrated, empty in-memory engine closed on cleanup.
func NewEngine(t testing.TB) *engine.Engine {
	t.Helper()
	return openEngine(t, state.MemoryPath)
}

// NewSeededEngine is NewEngine loaded with the default sample dataset.
func NewSeededEngine(t testing.TB) *engine.Engine {
	t.Helper()
	eng := NewEngine(t)
	Seed(t, eng)
	return eng
}

// NewSeededDB creates a seeded database file under t.TempDir and returns
// its path. The engine used to build it is already closed.
func NewSeededDB(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "freebies.db")

	eng, err := engine.New(engine.Config{DBPath: path, Logger: NewTestLogger(t)})
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	Seed(t, eng)
	if err := eng.Close(); err != nil {
		t.Fatalf("failed to close engine: %v", err)
	}
	return path
}

// NewEmptyDB creates a migrated database file with no rows and returns its path.
func NewEmptyDB(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "freebies.db")

	eng, err := engine.New(engine.Config{DBPath: path, Logger: NewTestLogger(t)})
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("failed to close engine: %v", err)
	}
	return path
}

// Seed loads the default sample dataset into eng.
func Seed(t testing.TB, eng *engine.Engine) {
	t.Helper()
	file, err := seed.Default()
	if err != nil {
		t.Fatalf("failed to load default seed: %v", err)
	}
	if _, err := eng.LoadSeeds(context.Background(), file, false); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
}

func openEngine(t testing.TB, path string) *engine.Engine {
	t.Helper()
	eng, err := engine.New(engine.Config{DBPath: path, Logger: NewTestLogger(t)})
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}
