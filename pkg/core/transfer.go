package core

// TransferOutcome is the result of a give-away attempt. A rejected
// transfer is an expected outcome, not an error.
type TransferOutcome int

// Transfer outcomes.
const (
	// TransferRejected means the freebie was not owned by the giving dev
	// and nothing changed.
	TransferRejected TransferOutcome = iota
	// TransferApplied means the freebie now belongs to the receiving dev.
	TransferApplied
)

// Applied reports whether ownership changed.
func (o TransferOutcome) Applied() bool { return o == TransferApplied }

// String returns the string representation of the outcome.
func (o TransferOutcome) String() string {
	switch o {
	case TransferApplied:
		return "applied"
	case TransferRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
