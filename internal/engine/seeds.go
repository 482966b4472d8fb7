package engine

// seeds.go - seed file loading

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/freebies/internal/seed"
	"github.com/leapstack-labs/freebies/pkg/core"
)

// SeedResult counts the rows a seed run created.
type SeedResult struct {
	Companies int `json:"companies"`
	Devs      int `json:"devs"`
	Freebies  int `json:"freebies"`
}

// LoadSeeds applies file in one transaction. Unless keep is set, all
// existing rows are removed first.
func (e *Engine) LoadSeeds(ctx context.Context, file *seed.File, keep bool) (*SeedResult, error) {
	e.logger.Debug("loading seeds", "keep", keep,
		"companies", len(file.Companies), "devs", len(file.Devs), "freebies", len(file.Freebies))

	var result *SeedResult
	err := e.store.WithTx(ctx, func(tx core.Tx) error {
		var err error
		result, err = ApplySeed(ctx, tx, file, keep)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplySeed writes file through tx. Freebie dev and company names resolve
// against the entries created from the file first, then against rows
// already in the store.
func ApplySeed(ctx context.Context, tx core.Tx, file *seed.File, keep bool) (*SeedResult, error) {
	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	if !keep {
		if err := tx.Clear(ctx); err != nil {
			return nil, err
		}
	}

	result := &SeedResult{}

	companies := make(map[string]*core.Company, len(file.Companies))
	for _, sc := range file.Companies {
		c := &core.Company{Name: sc.Name, FoundingYear: sc.FoundingYear}
		if err := tx.CreateCompany(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to seed company %q: %w", sc.Name, err)
		}
		companies[c.Name] = c
		result.Companies++
	}

	devs := make(map[string]*core.Dev, len(file.Devs))
	for _, sd := range file.Devs {
		d := &core.Dev{Name: sd.Name}
		if err := tx.CreateDev(ctx, d); err != nil {
			return nil, fmt.Errorf("failed to seed dev %q: %w", sd.Name, err)
		}
		devs[d.Name] = d
		result.Devs++
	}

	for _, sf := range file.Freebies {
		company, err := resolveCompany(ctx, tx, companies, sf.Company)
		if err != nil {
			return nil, fmt.Errorf("freebie %q: %w", sf.ItemName, err)
		}
		dev, err := resolveDev(ctx, tx, devs, sf.Dev)
		if err != nil {
			return nil, fmt.Errorf("freebie %q: %w", sf.ItemName, err)
		}

		f, err := GiveFreebie(company, dev, sf.ItemName, sf.Value)
		if err != nil {
			return nil, err
		}
		if err := tx.CreateFreebie(ctx, f); err != nil {
			return nil, fmt.Errorf("failed to seed freebie %q: %w", sf.ItemName, err)
		}
		result.Freebies++
	}

	return result, nil
}

func resolveCompany(ctx context.Context, repo core.Repository, created map[string]*core.Company, name string) (*core.Company, error) {
	if c, ok := created[name]; ok {
		return c, nil
	}
	c, err := repo.FindCompanyByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("company %q: %w", name, core.ErrNotFound)
	}
	created[name] = c
	return c, nil
}

func resolveDev(ctx context.Context, repo core.Repository, created map[string]*core.Dev, name string) (*core.Dev, error) {
	if d, ok := created[name]; ok {
		return d, nil
	}
	d, err := repo.FindDevByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("dev %q: %w", name, core.ErrNotFound)
	}
	created[name] = d
	return d, nil
}
