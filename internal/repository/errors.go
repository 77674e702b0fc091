// Package repository implements MySQL persistence for the booking domain.
// Sentinel values let handlers distinguish failure scenarios: ErrForbidden
// maps to HTTP 403, ErrConflict to 409.  "Not found" is conveyed with
// sql.ErrNoRows or a nil result, matching database/sql conventions.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource scoped to a different clan or county.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of
// conflicting existing state.
var ErrConflict = errors.New("conflict")
