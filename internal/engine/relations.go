package engine

// relations.go - many-to-many navigation through freebies

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/freebies/pkg/core"
)

// CompanyDevs derives the set of devs a company has given freebies to.
// Each dev appears once, in the order of its first freebie. Nothing is
// cached: every call reads the current freebie rows.
func CompanyDevs(ctx context.Context, repo core.Repository, companyID int64) ([]*core.Dev, error) {
	freebies, err := repo.FreebiesByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(freebies))
	var devs []*core.Dev
	for _, f := range freebies {
		if _, ok := seen[f.DevID]; ok {
			continue
		}
		seen[f.DevID] = struct{}{}

		d, err := repo.GetDev(ctx, f.DevID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve dev %d: %w", f.DevID, err)
		}
		if d == nil {
			return nil, fmt.Errorf("freebie %d references dev %d: %w", f.ID, f.DevID, core.ErrNotFound)
		}
		devs = append(devs, d)
	}
	return devs, nil
}

// DevCompanies derives the set of companies a dev has received freebies
// from, in the order of the first freebie from each.
func DevCompanies(ctx context.Context, repo core.Repository, devID int64) ([]*core.Company, error) {
	freebies, err := repo.FreebiesByDevID(ctx, devID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(freebies))
	var companies []*core.Company
	for _, f := range freebies {
		if _, ok := seen[f.CompanyID]; ok {
			continue
		}
		seen[f.CompanyID] = struct{}{}

		c, err := repo.GetCompany(ctx, f.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve company %d: %w", f.CompanyID, err)
		}
		if c == nil {
			return nil, fmt.Errorf("freebie %d references company %d: %w", f.ID, f.CompanyID, core.ErrNotFound)
		}
		companies = append(companies, c)
	}
	return companies, nil
}
