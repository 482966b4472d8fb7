package core

import (
	"context"
	"io"
)

// Repository is the read side of the store. It is implemented by both the
// store and an open transaction. Lookups with no match return (nil, nil).
type Repository interface {
	// Company operations
	GetCompany(ctx context.Context, id int64) (*Company, error)
	FindCompanyByName(ctx context.Context, name string) (*Company, error)
	ListCompanies(ctx context.Context) ([]*Company, error)
	OldestCompany(ctx context.Context) (*Company, error)

	// Dev operations
	GetDev(ctx context.Context, id int64) (*Dev, error)
	FindDevByName(ctx context.Context, name string) (*Dev, error)
	ListDevs(ctx context.Context) ([]*Dev, error)

	// Freebie operations, ordered by id
	GetFreebie(ctx context.Context, id int64) (*Freebie, error)
	FindFreebieByItem(ctx context.Context, itemName string) (*Freebie, error)
	ListFreebies(ctx context.Context) ([]*Freebie, error)
	FreebiesByDevID(ctx context.Context, devID int64) ([]*Freebie, error)
	FreebiesByCompanyID(ctx context.Context, companyID int64) ([]*Freebie, error)
}

// Writer is the write side of the store, only available inside a Tx.
type Writer interface {
	// Create* assign the new id to the passed entity.
	CreateCompany(ctx context.Context, c *Company) error
	CreateDev(ctx context.Context, d *Dev) error
	CreateFreebie(ctx context.Context, f *Freebie) error
	UpdateFreebie(ctx context.Context, f *Freebie) error

	DeleteCompany(ctx context.Context, id int64) error
	DeleteDev(ctx context.Context, id int64) error
	DeleteFreebie(ctx context.Context, id int64) error
	DeleteFreebiesByCompanyID(ctx context.Context, companyID int64) (int64, error)
	DeleteFreebiesByDevID(ctx context.Context, devID int64) (int64, error)

	// Clear removes every row from every table.
	Clear(ctx context.Context) error
}

// Tx is a scoped unit of work. Writes become durable on Commit.
type Tx interface {
	Repository
	Writer
	Commit() error
	Rollback() error
}

// Store defines the interface for the persistence layer.
type Store interface {
	Repository

	Open(path string) error
	Close() error
	Migrate() error
	MigrationVersion() (int64, error)
	MigrationStatus(w io.Writer) error

	Begin(ctx context.Context) (Tx, error)
}

// Reporter runs the read-only reporting queries.
type Reporter interface {
	FreebieListing(ctx context.Context) ([]*FreebieListing, error)
	DevTotals(ctx context.Context) ([]*DevTotal, error)
	CompanySummaries(ctx context.Context) ([]*CompanySummary, error)
	HighValueFreebies(ctx context.Context, threshold int64) ([]*FreebieListing, error)
	Stats(ctx context.Context) (*Stats, error)
}
