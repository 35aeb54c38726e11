package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerAction is the kind of mutation an audit ledger entry records.
type LedgerAction string

const (
	ActionCreate  LedgerAction = "CREATE"
	ActionInsert  LedgerAction = "INSERT"
	ActionUpdate  LedgerAction = "UPDATE"
	ActionArchive LedgerAction = "ARCHIVE"
	ActionRestore LedgerAction = "RESTORE"
)

// LedgerEntry is one append-only audit event. Entries are never mutated or
// deleted after creation; the storage layer enforces this with triggers.
type LedgerEntry struct {
	ID         uuid.UUID      `json:"id"`
	OccurredAt time.Time      `json:"occurred_at"`
	TableName  string         `json:"table_name"`
	Action     LedgerAction   `json:"action"`
	RowID      uuid.UUID      `json:"row_id"`
	BatchID    *uuid.UUID     `json:"batch_id,omitempty"`
	Actor      *string        `json:"actor,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}
