package domain

import "errors"

// Storage-level invariant violations. The store layer maps driver errors
// onto these so callers can discriminate with errors.Is without importing
// driver packages.
var (
	// ErrDuplicateTransaction means a transaction with the same external
	// message ID was already recorded. Ingestion of the same source
	// message is at-most-once; the second attempt fails with this.
	ErrDuplicateTransaction = errors.New("transaction already recorded for this message")

	// ErrDuplicateCategory means a concurrent resolution created the same
	// category name first. With the unique name index plus the upsert
	// create path this should not happen, but the store still maps the
	// duplicate-key case explicitly rather than leaking a driver error.
	ErrDuplicateCategory = errors.New("category already exists")
)
