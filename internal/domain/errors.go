package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced aircraft, batch, or item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateFile is returned when byte-identical content was already imported
	// for the same aircraft.
	ErrDuplicateFile = errors.New("file already imported for this aircraft")

	// ErrDuplicateFingerprint is returned when an item's key fields collide with
	// another row in the same batch.
	ErrDuplicateFingerprint = errors.New("duplicate item fingerprint in batch")
)

// SchemaError reports expected columns that are absent from an uploaded file.
// The whole import is rejected before any row is processed.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing expected columns: %s", strings.Join(e.Missing, ", "))
}
