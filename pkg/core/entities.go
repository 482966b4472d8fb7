package core

import "fmt"

// Company is an organisation that hands out freebies.
type Company struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FoundingYear int    `json:"founding_year"`
}

// Persisted reports whether the store has assigned an id.
func (c *Company) Persisted() bool { return c != nil && c.ID != 0 }

func (c *Company) String() string {
	return fmt.Sprintf("Company(id=%d, name=%s, founding_year=%d)", c.ID, c.Name, c.FoundingYear)
}

// Dev is a developer who receives freebies.
type Dev struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Persisted reports whether the store has assigned an id.
func (d *Dev) Persisted() bool { return d != nil && d.ID != 0 }

func (d *Dev) String() string {
	return fmt.Sprintf("Dev(id=%d, name=%s)", d.ID, d.Name)
}

// Freebie is an item a Company gave to a Dev. It is the associative
// entity behind the many-to-many Company <-> Dev relationship.
//
// The validate tags are enforced by the store on insert.
type Freebie struct {
	ID        int64  `json:"id"`
	ItemName  string `json:"item_name" validate:"required"`
	Value     int64  `json:"value" validate:"min=0"`
	DevID     int64  `json:"dev_id" validate:"required"`
	CompanyID int64  `json:"company_id" validate:"required"`
}

// Persisted reports whether the store has assigned an id.
func (f *Freebie) Persisted() bool { return f != nil && f.ID != 0 }

func (f *Freebie) String() string {
	return fmt.Sprintf("Freebie(id=%d, item_name=%s, value=%d, dev_id=%d, company_id=%d)",
		f.ID, f.ItemName, f.Value, f.DevID, f.CompanyID)
}
