package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyops/airaudit/internal/domain"
)

func batchRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "aircraft_id", "file_name", "file_sha256", "started_at", "completed_at",
		"total_rows", "inserted_rows", "error_rows", "status",
	})
}

func TestImportBatchCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewImportBatchRepository(mock)

	aircraftID := uuid.New()
	batchID := uuid.New()
	startedAt := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO import_batch`)).
		WithArgs(aircraftID, "items.csv", "abc123", 10, domain.BatchUploaded).
		WillReturnRows(batchRows().AddRow(
			batchID, aircraftID, "items.csv", "abc123", startedAt, nil,
			10, 0, 0, domain.BatchUploaded,
		))

	batch, err := repo.Create(context.Background(), domain.ImportBatch{
		AircraftID: aircraftID,
		FileName:   "items.csv",
		FileSHA256: "abc123",
		TotalRows:  10,
		Status:     domain.BatchUploaded,
	})
	require.NoError(t, err)

	assert.Equal(t, batchID, batch.ID)
	assert.Equal(t, domain.BatchUploaded, batch.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportBatchCreateDuplicateFile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewImportBatchRepository(mock)

	aircraftID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO import_batch`)).
		WithArgs(aircraftID, "items.csv", "abc123", 0, domain.BatchUploaded).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_import_batch_file"})

	_, err = repo.Create(context.Background(), domain.ImportBatch{
		AircraftID: aircraftID,
		FileName:   "items.csv",
		FileSHA256: "abc123",
		Status:     domain.BatchUploaded,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateFile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportBatchUpdateStatusNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewImportBatchRepository(mock)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE import_batch SET status = $1 WHERE id = $2`)).
		WithArgs(domain.BatchValidated, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateStatus(context.Background(), id, domain.BatchValidated)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportBatchFinalize(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewImportBatchRepository(mock)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`SET inserted_rows = $1, error_rows = $2, status = $3, completed_at = now()`)).
		WithArgs(42, 3, domain.BatchLoaded, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.Finalize(context.Background(), id, 42, 3, domain.BatchLoaded)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportBatchGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewImportBatchRepository(mock)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM import_batch WHERE id = $1`)).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportBatchFindManual(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewImportBatchRepository(mock)

	aircraftID := uuid.New()
	batchID := uuid.New()
	startedAt := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE aircraft_id = $1 AND file_sha256 = $2`)).
		WithArgs(aircraftID, domain.ManualFileSHA).
		WillReturnRows(batchRows().AddRow(
			batchID, aircraftID, "manual", domain.ManualFileSHA, startedAt, nil,
			0, 0, 0, domain.BatchLoaded,
		))

	batch, err := repo.FindManual(context.Background(), aircraftID)
	require.NoError(t, err)

	assert.Equal(t, batchID, batch.ID)
	assert.Equal(t, domain.ManualFileSHA, batch.FileSHA256)
	assert.NoError(t, mock.ExpectationsWereMet())
}
