// Package engine binds the relationship and aggregate operations on
// companies, devs and freebies to an open store.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/freebies/internal/state"
	"github.com/leapstack-labs/freebies/pkg/core"
)

// Engine owns a store handle for the lifetime of one session.
type Engine struct {
	logger *slog.Logger
	store  *state.SQLiteStore
	dbPath string
}

// Config holds engine configuration.
type Config struct {
	// DBPath is the path to the SQLite database (":memory:" for in-memory)
	DBPath string
	// ReadOnly opens an existing database without write access and skips migrations
	ReadOnly bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New opens the database and brings its schema up to date.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine", "db_path", cfg.DBPath, "read_only", cfg.ReadOnly)

	store := state.NewSQLiteStore(logger)
	if cfg.ReadOnly {
		if _, err := os.Stat(cfg.DBPath); err != nil {
			return nil, fmt.Errorf("database not found at %s: %w", cfg.DBPath, err)
		}
		if err := store.OpenReadOnly(cfg.DBPath); err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	} else {
		if cfg.DBPath != state.MemoryPath && cfg.DBPath != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		if err := store.Open(cfg.DBPath); err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := store.Migrate(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return &Engine{
		logger: logger,
		store:  store,
		dbPath: cfg.DBPath,
	}, nil
}

// Close releases the store.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// --- Getters (public accessors) ---

// Store returns the underlying store.
func (e *Engine) Store() *state.SQLiteStore {
	return e.store
}

// DBPath returns the database path the engine was opened with.
func (e *Engine) DBPath() string {
	return e.dbPath
}

// WithTx runs fn in a single transaction.
func (e *Engine) WithTx(ctx context.Context, fn func(tx core.Tx) error) error {
	return e.store.WithTx(ctx, fn)
}

// --- Bound operations ---

// CompanyDevs returns the distinct devs a company has given freebies to.
func (e *Engine) CompanyDevs(ctx context.Context, companyID int64) ([]*core.Dev, error) {
	return CompanyDevs(ctx, e.store, companyID)
}

// DevCompanies returns the distinct companies a dev received freebies from.
func (e *Engine) DevCompanies(ctx context.Context, devID int64) ([]*core.Company, error) {
	return DevCompanies(ctx, e.store, devID)
}

// OldestCompany returns the earliest-founded company, or nil. Companies
// without a founding year are skipped.
func (e *Engine) OldestCompany(ctx context.Context) (*core.Company, error) {
	return OldestCompany(ctx, e.store)
}

// ReceivedOne reports whether the dev holds a freebie named itemName.
func (e *Engine) ReceivedOne(ctx context.Context, devID int64, itemName string) (bool, error) {
	return ReceivedOne(ctx, e.store, devID, itemName)
}

// FreebieDetails describes who owns f and who gave it.
func (e *Engine) FreebieDetails(ctx context.Context, f *core.Freebie) (string, error) {
	return FreebieDetails(ctx, e.store, f)
}

// Give creates and commits a freebie from a stored company to a stored dev.
func (e *Engine) Give(ctx context.Context, companyID, devID int64, itemName string, value int64) (*core.Freebie, error) {
	var created *core.Freebie
	err := e.store.WithTx(ctx, func(tx core.Tx) error {
		company, err := tx.GetCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("company %d: %w", companyID, core.ErrNotFound)
		}

		dev, err := tx.GetDev(ctx, devID)
		if err != nil {
			return err
		}
		if dev == nil {
			return fmt.Errorf("dev %d: %w", devID, core.ErrNotFound)
		}

		f, err := GiveFreebie(company, dev, itemName, value)
		if err != nil {
			return err
		}
		if err := tx.CreateFreebie(ctx, f); err != nil {
			return err
		}
		created = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("freebie given", "id", created.ID, "company_id", companyID, "dev_id", devID)
	return created, nil
}

// Transfer moves a freebie from one dev to another and commits when the
// ownership check passes. A rejected transfer commits nothing.
func (e *Engine) Transfer(ctx context.Context, fromID, toID, freebieID int64) (core.TransferOutcome, error) {
	outcome := core.TransferRejected
	err := e.store.WithTx(ctx, func(tx core.Tx) error {
		from, err := requireDev(ctx, tx, fromID)
		if err != nil {
			return err
		}
		to, err := requireDev(ctx, tx, toID)
		if err != nil {
			return err
		}

		f, err := tx.GetFreebie(ctx, freebieID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("freebie %d: %w", freebieID, core.ErrNotFound)
		}

		outcome, err = GiveAway(ctx, tx, from, to, f)
		if err != nil || !outcome.Applied() {
			return err
		}
		return tx.UpdateFreebie(ctx, f)
	})
	if err != nil {
		return core.TransferRejected, err
	}

	e.logger.Debug("transfer finished", "freebie_id", freebieID, "from", fromID, "to", toID, "outcome", outcome)
	return outcome, nil
}

// DeleteCompany removes a company; see the package-level DeleteCompany.
func (e *Engine) DeleteCompany(ctx context.Context, id int64, cascade bool) (int64, error) {
	return DeleteCompany(ctx, e.store, id, cascade)
}

// DeleteDev removes a dev; see the package-level DeleteDev.
func (e *Engine) DeleteDev(ctx context.Context, id int64, cascade bool) (int64, error) {
	return DeleteDev(ctx, e.store, id, cascade)
}

func requireDev(ctx context.Context, repo core.Repository, id int64) (*core.Dev, error) {
	d, err := repo.GetDev(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("dev %d: %w", id, core.ErrNotFound)
	}
	return d, nil
}
