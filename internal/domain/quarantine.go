package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReasonDuplicateInBatch marks rows quarantined because their fingerprint
// collided with another row of the same batch.
const ReasonDuplicateInBatch = "duplicate_in_batch"

// QuarantineItem preserves a rejected or duplicate row for inspection. One
// quarantine record exists per offending source row of a batch.
type QuarantineItem struct {
	ID             uuid.UUID `json:"id"`
	AircraftID     uuid.UUID `json:"aircraft_id"`
	ImportBatchID  uuid.UUID `json:"import_batch_id"`
	SourceRowIndex int       `json:"source_row_index"`
	Reason         string    `json:"reason"`
	ErrorMessage   *string   `json:"error_message,omitempty"`
	ItemFields
	Fingerprint   string    `json:"fingerprint"`
	QuarantinedAt time.Time `json:"quarantined_at"`
}
