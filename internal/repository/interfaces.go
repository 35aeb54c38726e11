package repository

import (
	"context"

	"github.com/skyops/airaudit/internal/domain"

	"github.com/google/uuid"
)

// AircraftRepository defines the interface for aircraft operations. Aircraft
// are append-only: there is no delete, only archive/restore.
type AircraftRepository interface {
	Create(ctx context.Context, name, model string) (domain.Aircraft, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Aircraft, error)
	List(ctx context.Context) ([]domain.Aircraft, error)
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) (domain.Aircraft, error)
}

// ImportBatchRepository defines the interface for import batch operations.
type ImportBatchRepository interface {
	// Create inserts a batch in its initial status. A byte-identical re-import
	// for the same aircraft returns domain.ErrDuplicateFile.
	Create(ctx context.Context, batch domain.ImportBatch) (domain.ImportBatch, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BatchStatus) error
	// Finalize sets the terminal status, counters, and completion timestamp.
	Finalize(ctx context.Context, id uuid.UUID, insertedRows, errorRows int, status domain.BatchStatus) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.ImportBatch, error)
	// FindManual locates the aircraft's synthetic manual-entry batch, or
	// domain.ErrNotFound when none exists yet.
	FindManual(ctx context.Context, aircraftID uuid.UUID) (domain.ImportBatch, error)
}

// MaintenanceItemRepository defines the interface for maintenance item operations.
type MaintenanceItemRepository interface {
	// Insert attempts the row insert. The second return value is false when the
	// batch already holds a row with the same fingerprint; this is not an error
	// so the surrounding transaction survives.
	Insert(ctx context.Context, item domain.MaintenanceItem) (domain.MaintenanceItem, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.MaintenanceItem, error)
	// Update rewrites the item's payload and fingerprint. A fingerprint collision
	// within the item's batch returns domain.ErrDuplicateFingerprint.
	Update(ctx context.Context, id uuid.UUID, fields domain.ItemFields, fingerprint string) error
	ListLoaded(ctx context.Context, aircraftID uuid.UUID, limit, offset int) ([]domain.MaintenanceItem, error)
	CountLoaded(ctx context.Context, aircraftID uuid.UUID) (int, error)
}

// QuarantineRepository defines the interface for quarantined row operations.
type QuarantineRepository interface {
	// Insert copies a failed row into quarantine. The bool is false when the
	// source row was already quarantined for this batch.
	Insert(ctx context.Context, item domain.QuarantineItem) (bool, error)
	List(ctx context.Context, aircraftID uuid.UUID, batchID *uuid.UUID, limit, offset int) ([]domain.QuarantineItem, error)
	Count(ctx context.Context, aircraftID uuid.UUID, batchID *uuid.UUID) (int, error)
}

// ImportErrorRepository defines the interface for per-row diagnostics.
type ImportErrorRepository interface {
	Record(ctx context.Context, batchID uuid.UUID, diag domain.Diagnostic) error
	RecordMany(ctx context.Context, batchID uuid.UUID, diags []domain.Diagnostic) error
	ListByBatch(ctx context.Context, batchID uuid.UUID, limit, offset int) ([]domain.ImportError, error)
}

// LedgerRepository appends and lists audit ledger entries. Entries are never
// updated or deleted.
type LedgerRepository interface {
	Write(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error)
	List(ctx context.Context, tableName string, rowID *uuid.UUID, limit, offset int) ([]domain.LedgerEntry, error)
}
