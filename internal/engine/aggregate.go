package engine

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/freebies/internal/state"
	"github.com/leapstack-labs/freebies/pkg/core"
)

// GiveFreebie builds a freebie from company to dev. The result is not
// stored; pass it to Tx.CreateFreebie and commit. Item name and value are
// taken as given.
func GiveFreebie(company *core.Company, dev *core.Dev, itemName string, value int64) (*core.Freebie, error) {
	if !company.Persisted() {
		return nil, fmt.Errorf("company: %w", core.ErrNotPersisted)
	}
	if !dev.Persisted() {
		return nil, fmt.Errorf("dev: %w", core.ErrNotPersisted)
	}

	return &core.Freebie{
		ItemName:  itemName,
		Value:     value,
		DevID:     dev.ID,
		CompanyID: company.ID,
	}, nil
}

// OldestCompany returns the company with the smallest founding year, the
// lowest id winning ties. Companies without a founding year (stored as
// NULL) never qualify, so it returns (nil, nil) when there are no companies
// or none of them has a year.
func OldestCompany(ctx context.Context, repo core.Repository) (*core.Company, error) {
	return repo.OldestCompany(ctx)
}

// ReceivedOne reports whether any freebie held by the dev has exactly
// itemName. The comparison is case-sensitive.
func ReceivedOne(ctx context.Context, repo core.Repository, devID int64, itemName string) (bool, error) {
	freebies, err := repo.FreebiesByDevID(ctx, devID)
	if err != nil {
		return false, err
	}
	for _, f := range freebies {
		if f.ItemName == itemName {
			return true, nil
		}
	}
	return false, nil
}

// GiveAway hands f from one dev to another. The transfer only happens
// when f is currently one of from's freebies; otherwise f is left untouched
// and TransferRejected is returned. The change is made on f only: the
// caller persists it with Tx.UpdateFreebie.
func GiveAway(ctx context.Context, repo core.Repository, from, to *core.Dev, f *core.Freebie) (core.TransferOutcome, error) {
	if !to.Persisted() {
		return core.TransferRejected, fmt.Errorf("receiving dev: %w", core.ErrNotPersisted)
	}
	if !from.Persisted() || !f.Persisted() {
		return core.TransferRejected, nil
	}

	owned, err := repo.FreebiesByDevID(ctx, from.ID)
	if err != nil {
		return core.TransferRejected, err
	}
	for _, o := range owned {
		if o.ID == f.ID {
			f.DevID = to.ID
			return core.TransferApplied, nil
		}
	}
	return core.TransferRejected, nil
}

// FreebieDetails renders "<dev> owns a <item> from <company>".
func FreebieDetails(ctx context.Context, repo core.Repository, f *core.Freebie) (string, error) {
	dev, err := repo.GetDev(ctx, f.DevID)
	if err != nil {
		return "", err
	}
	if dev == nil {
		return "", fmt.Errorf("dev %d: %w", f.DevID, core.ErrNotFound)
	}

	company, err := repo.GetCompany(ctx, f.CompanyID)
	if err != nil {
		return "", err
	}
	if company == nil {
		return "", fmt.Errorf("company %d: %w", f.CompanyID, core.ErrNotFound)
	}

	return fmt.Sprintf("%s owns a %s from %s", dev.Name, f.ItemName, company.Name), nil
}

// DeleteCompany removes a company in one transaction. Without cascade the
// delete fails with core.ErrHasFreebies while freebies reference the
// company; with cascade those freebies go first. It returns the number of
// freebies removed.
func DeleteCompany(ctx context.Context, store core.Store, id int64, cascade bool) (int64, error) {
	var removed int64
	err := state.WithTx(ctx, store, func(tx core.Tx) error {
		c, err := tx.GetCompany(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("company %d: %w", id, core.ErrNotFound)
		}

		freebies, err := tx.FreebiesByCompanyID(ctx, id)
		if err != nil {
			return err
		}
		if len(freebies) > 0 {
			if !cascade {
				return fmt.Errorf("company %q has %d freebies: %w", c.Name, len(freebies), core.ErrHasFreebies)
			}
			if removed, err = tx.DeleteFreebiesByCompanyID(ctx, id); err != nil {
				return err
			}
		}
		return tx.DeleteCompany(ctx, id)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// DeleteDev mirrors DeleteCompany for devs.
func DeleteDev(ctx context.Context, store core.Store, id int64, cascade bool) (int64, error) {
	var removed int64
	err := state.WithTx(ctx, store, func(tx core.Tx) error {
		d, err := tx.GetDev(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("dev %d: %w", id, core.ErrNotFound)
		}

		freebies, err := tx.FreebiesByDevID(ctx, id)
		if err != nil {
			return err
		}
		if len(freebies) > 0 {
			if !cascade {
				return fmt.Errorf("dev %q has %d freebies: %w", d.Name, len(freebies), core.ErrHasFreebies)
			}
			if removed, err = tx.DeleteFreebiesByDevID(ctx, id); err != nil {
				return err
			}
		}
		return tx.DeleteDev(ctx, id)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
