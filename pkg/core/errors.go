package core

import "errors"

// Sentinel errors shared by the store, the engine and the CLI.
var (
	// ErrNotFound is returned by operations that require an existing row.
	// Plain lookups return (nil, nil) instead.
	ErrNotFound = errors.New("not found")

	// ErrNotPersisted is returned when an entity without an id is used
	// where a stored entity is required.
	ErrNotPersisted = errors.New("entity has not been persisted")

	// ErrHasFreebies is returned when deleting a company or dev that is
	// still referenced by freebies.
	ErrHasFreebies = errors.New("still referenced by freebies")

	// ErrInvalidFreebie is returned when a freebie fails validation on insert.
	ErrInvalidFreebie = errors.New("invalid freebie")

	// ErrStoreNotOpen is returned by store methods called before Open.
	ErrStoreNotOpen = errors.New("database not opened")
)
