package domain

import (
	"time"

	"github.com/google/uuid"
)

// BatchStatus is the lifecycle state of an import batch.
// The progression is uploaded -> validated -> loaded|failed.
type BatchStatus string

const (
	BatchUploaded  BatchStatus = "uploaded"
	BatchValidated BatchStatus = "validated"
	BatchLoaded    BatchStatus = "loaded"
	BatchFailed    BatchStatus = "failed"
)

// PublishMode controls the fate of rows that fail batch-uniqueness.
type PublishMode string

const (
	// PublishQuarantine copies duplicate rows into the quarantine table and the
	// batch still finishes loaded.
	PublishQuarantine PublishMode = "quarantine"

	// PublishStrict makes any error-severity diagnostic fail the batch; duplicate
	// rows are not quarantined.
	PublishStrict PublishMode = "strict"
)

// ManualFileSHA is the reserved content-hash sentinel of the per-aircraft batch
// that backs manual item entry. It can never collide with a real SHA-256 hex digest.
const ManualFileSHA = "manual"

// ImportBatch is one file-import attempt for one aircraft. Batches are never
// deleted; they only advance status and counters.
type ImportBatch struct {
	ID           uuid.UUID   `json:"id"`
	AircraftID   uuid.UUID   `json:"aircraft_id"`
	FileName     string      `json:"file_name"`
	FileSHA256   string      `json:"file_sha256"`
	StartedAt    time.Time   `json:"started_at"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	TotalRows    int         `json:"total_rows"`
	InsertedRows int         `json:"inserted_rows"`
	ErrorRows    int         `json:"error_rows"`
	Status       BatchStatus `json:"status"`
}

// ImportResult summarizes one completed import call.
type ImportResult struct {
	BatchID      uuid.UUID   `json:"import_batch_id"`
	InsertedRows int         `json:"inserted_rows"`
	TotalRows    int         `json:"total_rows"`
	ErrorCount   int         `json:"errors"`
	Status       BatchStatus `json:"status"`
	Quarantined  int         `json:"quarantined"`
}
