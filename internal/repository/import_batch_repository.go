package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skyops/airaudit/internal/db"
	"github.com/skyops/airaudit/internal/domain"
)

type importBatchRepository struct {
	db db.Querier
}

// NewImportBatchRepository creates a new import batch repository.
func NewImportBatchRepository(q db.Querier) ImportBatchRepository {
	return &importBatchRepository{db: q}
}

const batchColumns = `id, aircraft_id, file_name, file_sha256, started_at, completed_at,
	total_rows, inserted_rows, error_rows, status`

func (r *importBatchRepository) Create(ctx context.Context, batch domain.ImportBatch) (domain.ImportBatch, error) {
	q := db.QuerierFrom(ctx, r.db)

	err := q.QueryRow(
		ctx,
		`INSERT INTO import_batch (aircraft_id, file_name, file_sha256, total_rows, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+batchColumns,
		batch.AircraftID, batch.FileName, batch.FileSHA256, batch.TotalRows, batch.Status,
	).Scan(
		&batch.ID, &batch.AircraftID, &batch.FileName, &batch.FileSHA256,
		&batch.StartedAt, &batch.CompletedAt,
		&batch.TotalRows, &batch.InsertedRows, &batch.ErrorRows, &batch.Status,
	)
	if db.IsUniqueViolation(err, "uq_import_batch_file") {
		return domain.ImportBatch{}, domain.ErrDuplicateFile
	}
	if err != nil {
		return domain.ImportBatch{}, fmt.Errorf("failed to create import batch: %w", err)
	}

	return batch, nil
}

func (r *importBatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BatchStatus) error {
	q := db.QuerierFrom(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE import_batch SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update batch status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *importBatchRepository) Finalize(ctx context.Context, id uuid.UUID, insertedRows, errorRows int, status domain.BatchStatus) error {
	q := db.QuerierFrom(ctx, r.db)

	tag, err := q.Exec(
		ctx,
		`UPDATE import_batch
		 SET inserted_rows = $1, error_rows = $2, status = $3, completed_at = now()
		 WHERE id = $4`,
		insertedRows, errorRows, status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *importBatchRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.ImportBatch, error) {
	q := db.QuerierFrom(ctx, r.db)

	var batch domain.ImportBatch
	err := q.QueryRow(
		ctx,
		`SELECT `+batchColumns+` FROM import_batch WHERE id = $1`,
		id,
	).Scan(
		&batch.ID, &batch.AircraftID, &batch.FileName, &batch.FileSHA256,
		&batch.StartedAt, &batch.CompletedAt,
		&batch.TotalRows, &batch.InsertedRows, &batch.ErrorRows, &batch.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ImportBatch{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ImportBatch{}, fmt.Errorf("failed to get import batch: %w", err)
	}

	return batch, nil
}

func (r *importBatchRepository) FindManual(ctx context.Context, aircraftID uuid.UUID) (domain.ImportBatch, error) {
	q := db.QuerierFrom(ctx, r.db)

	var batch domain.ImportBatch
	err := q.QueryRow(
		ctx,
		`SELECT `+batchColumns+` FROM import_batch
		 WHERE aircraft_id = $1 AND file_sha256 = $2`,
		aircraftID, domain.ManualFileSHA,
	).Scan(
		&batch.ID, &batch.AircraftID, &batch.FileName, &batch.FileSHA256,
		&batch.StartedAt, &batch.CompletedAt,
		&batch.TotalRows, &batch.InsertedRows, &batch.ErrorRows, &batch.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ImportBatch{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ImportBatch{}, fmt.Errorf("failed to find manual batch: %w", err)
	}

	return batch, nil
}
