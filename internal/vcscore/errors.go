package vcscore

import "errors"

// Sentinel error kinds the CLI boundary needs to distinguish. Every other
// failure is reported as a plain wrapped error.
var (
	// ErrNotFound covers an unresolvable object hash or hash prefix. A
	// missing branch ref file is not reported with it: Refs reads one as
	// an empty hash.
	ErrNotFound = errors.New("not found")

	// ErrPrecondition covers invalid arguments, a missing repository,
	// an already-existing target, a missing branch, or pending changes
	// blocking an operation that requires a clean tree.
	ErrPrecondition = errors.New("precondition violation")

	// ErrConflict is returned by Merge when the three-way reconciliation
	// table produces at least one conflicting path. The commit is never
	// created and the working copy is left untouched.
	ErrConflict = errors.New("merge conflict")
)
