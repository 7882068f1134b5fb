package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrSourceFile indicates a legacy export file is missing or unreadable.
	// This is a setup error: the run aborts before any write is attempted.
	ErrSourceFile = errors.New("source file unreadable")

	// ErrMissingCredentials indicates a live (non-dry-run) write was requested
	// without a write-capable API token configured.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRowSkipped indicates a source row could not be transformed.
	// The record is reported as failed; the run continues.
	ErrRowSkipped = errors.New("row skipped")

	// ErrBatchRejected indicates the target store rejected a batch transaction.
	// Every record in that batch is marked failed; later batches still run.
	ErrBatchRejected = errors.New("batch rejected")

	// ErrRateLimited indicates the legacy host throttled a download.
	ErrRateLimited = errors.New("rate limited")
)
