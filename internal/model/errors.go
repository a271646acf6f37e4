package model

import "errors"

// Sentinel errors shared by the store, search and catalog layers.
var (
	// ErrStoreUnavailable wraps any failure to reach or query the catalog store.
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrItemNotFound is returned when a code has neither a price row nor composition links.
	ErrItemNotFound = errors.New("item not found")

	// ErrEmptyQuery signals that no contains-term was given, so no query ran.
	// It is distinct from a query that matched zero rows.
	ErrEmptyQuery = errors.New("empty query")
)
