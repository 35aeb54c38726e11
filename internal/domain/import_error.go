package domain

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies a diagnostic. Only error-severity diagnostics block a
// row's insertion; warnings are informational.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// FieldInsert is the field sentinel used for diagnostics produced by a failed
// insert attempt rather than by row validation.
const FieldInsert = "INSERT"

// Diagnostic is one validation or insert problem for a single source row.
// RowIndex is the 0-based position of the row in the original file.
type Diagnostic struct {
	RowIndex int      `json:"row_index"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ImportError is a persisted diagnostic tied to a batch.
type ImportError struct {
	ID            uuid.UUID `json:"id"`
	ImportBatchID uuid.UUID `json:"import_batch_id"`
	Diagnostic
	CreatedAt time.Time `json:"created_at"`
}
