package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/skyops/airaudit/internal/db"
	"github.com/skyops/airaudit/internal/domain"
)

type importErrorRepository struct {
	db db.Querier
}

// NewImportErrorRepository creates a new import error repository.
func NewImportErrorRepository(q db.Querier) ImportErrorRepository {
	return &importErrorRepository{db: q}
}

func (r *importErrorRepository) Record(ctx context.Context, batchID uuid.UUID, diag domain.Diagnostic) error {
	q := db.QuerierFrom(ctx, r.db)

	_, err := q.Exec(
		ctx,
		`INSERT INTO import_error (import_batch_id, row_index, field, message, severity)
		 VALUES ($1, $2, $3, $4, $5)`,
		batchID, diag.RowIndex, diag.Field, diag.Message, diag.Severity,
	)
	if err != nil {
		return fmt.Errorf("failed to record diagnostic: %w", err)
	}

	return nil
}

func (r *importErrorRepository) RecordMany(ctx context.Context, batchID uuid.UUID, diags []domain.Diagnostic) error {
	for _, diag := range diags {
		if err := r.Record(ctx, batchID, diag); err != nil {
			return err
		}
	}
	return nil
}

func (r *importErrorRepository) ListByBatch(ctx context.Context, batchID uuid.UUID, limit, offset int) ([]domain.ImportError, error) {
	q := db.QuerierFrom(ctx, r.db)

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := q.Query(
		ctx,
		`SELECT id, import_batch_id, row_index, field, message, severity, created_at
		 FROM import_error
		 WHERE import_batch_id = $1
		 ORDER BY created_at, id
		 LIMIT $2 OFFSET $3`,
		batchID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list import errors: %w", err)
	}
	defer rows.Close()

	list := []domain.ImportError{}
	for rows.Next() {
		var e domain.ImportError
		if err := rows.Scan(&e.ID, &e.ImportBatchID, &e.RowIndex, &e.Field, &e.Message, &e.Severity, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import error: %w", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import errors: %w", err)
	}

	return list, nil
}
