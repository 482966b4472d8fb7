package core

// FreebieListing is one row of the joined freebie listing.
type FreebieListing struct {
	ItemName    string `json:"item_name"`
	Value       int64  `json:"value"`
	DevName     string `json:"dev_name"`
	CompanyName string `json:"company_name"`
}

// DevTotal summarises what a dev received. Devs without freebies appear
// with zero counts.
type DevTotal struct {
	DevName      string `json:"dev_name"`
	FreebieCount int64  `json:"freebie_count"`
	TotalValue   int64  `json:"total_value"`
}

// CompanySummary summarises what a company gave away.
type CompanySummary struct {
	CompanyName   string `json:"company_name"`
	FreebiesGiven int64  `json:"freebies_given"`
	TotalSpent    int64  `json:"total_spent"`
	DevsReached   int64  `json:"devs_reached"`
}

// Stats holds quick whole-database counts.
type Stats struct {
	Companies  int64 `json:"companies"`
	Devs       int64 `json:"devs"`
	Freebies   int64 `json:"freebies"`
	TotalValue int64 `json:"total_value"`
}

// DefaultHighValueThreshold is the cut-off used by the high-value report.
const DefaultHighValueThreshold int64 = 1_000_000
