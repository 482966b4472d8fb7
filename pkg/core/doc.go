// Package core defines the shared language of the freebies system.
//
// This package contains:
//   - Domain entities (Company, Dev, Freebie)
//   - Report rows produced by the store (FreebieListing, DevTotal, ...)
//   - Service interfaces (Repository, Tx, Store, Reporter)
//   - Sentinel errors and the TransferOutcome result type
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
