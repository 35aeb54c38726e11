package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/skyops/airaudit/internal/db"
	"github.com/skyops/airaudit/internal/domain"
	"github.com/skyops/airaudit/internal/repository"
)

// Service runs the import pipeline: parse, sanitize, validate, persist, and
// quarantine-or-reject, inside one unit of work per batch.
type Service struct {
	tx         db.TxRunner
	aircraft   repository.AircraftRepository
	batches    repository.ImportBatchRepository
	items      repository.MaintenanceItemRepository
	quarantine repository.QuarantineRepository
	diags      repository.ImportErrorRepository
}

// NewService creates a new import service.
func NewService(
	tx db.TxRunner,
	aircraft repository.AircraftRepository,
	batches repository.ImportBatchRepository,
	items repository.MaintenanceItemRepository,
	quarantine repository.QuarantineRepository,
	diags repository.ImportErrorRepository,
) *Service {
	return &Service{
		tx:         tx,
		aircraft:   aircraft,
		batches:    batches,
		items:      items,
		quarantine: quarantine,
		diags:      diags,
	}
}

// Import ingests one file for one aircraft. Schema mismatches and duplicate
// files abort the whole import; row-level problems become diagnostics and, in
// quarantine mode, quarantined copies. The batch-level ledger entry is the
// caller's responsibility.
func (s *Service) Import(ctx context.Context, aircraftID uuid.UUID, fileName string, raw []byte, mode domain.PublishMode) (domain.ImportResult, error) {
	if len(raw) == 0 {
		return domain.ImportResult{}, errors.New("file is empty")
	}

	table, err := parseTable(fileName, raw)
	if err != nil {
		return domain.ImportResult{}, err
	}
	if missing := MissingColumns(table.headers); len(missing) > 0 {
		return domain.ImportResult{}, &domain.SchemaError{Missing: missing}
	}

	rows := make([]Row, len(table.rows))
	for i, record := range table.rows {
		rows[i] = SanitizeRow(i, cellMap(table.headers, record))
	}

	diags := ValidateRows(rows)
	hardError := make(map[int]bool)
	for _, d := range diags {
		if d.Severity == domain.SeverityError {
			hardError[d.RowIndex] = true
		}
	}

	sum := sha256.Sum256(raw)
	sha := hex.EncodeToString(sum[:])

	var result domain.ImportResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.aircraft.GetByID(ctx, aircraftID); err != nil {
			return err
		}

		batch, err := s.batches.Create(ctx, domain.ImportBatch{
			AircraftID: aircraftID,
			FileName:   fileName,
			FileSHA256: sha,
			TotalRows:  len(rows),
			Status:     domain.BatchUploaded,
		})
		if err != nil {
			return err
		}

		if err := s.diags.RecordMany(ctx, batch.ID, diags); err != nil {
			return err
		}
		if err := s.batches.UpdateStatus(ctx, batch.ID, domain.BatchValidated); err != nil {
			return err
		}

		inserted := 0
		insertFailures := make(map[int]string)
		for _, row := range rows {
			if hardError[row.Index] {
				continue
			}

			_, ok, err := s.items.Insert(ctx, domain.MaintenanceItem{
				AircraftID:    aircraftID,
				ImportBatchID: batch.ID,
				ItemFields:    row.Fields,
				Fingerprint:   row.Fingerprint,
			})
			if err != nil {
				return err
			}
			if !ok {
				message := fmt.Sprintf("duplicate fingerprint %s in batch", row.Fingerprint)
				diag := domain.Diagnostic{
					RowIndex: row.Index,
					Field:    domain.FieldInsert,
					Message:  message,
					Severity: domain.SeverityError,
				}
				if err := s.diags.Record(ctx, batch.ID, diag); err != nil {
					return err
				}
				diags = append(diags, diag)
				insertFailures[row.Index] = message
				continue
			}
			inserted++
		}

		quarantined := 0
		var status domain.BatchStatus
		if mode == domain.PublishQuarantine {
			for _, row := range rows {
				message, failed := insertFailures[row.Index]
				if !failed {
					continue
				}
				ok, err := s.quarantine.Insert(ctx, domain.QuarantineItem{
					AircraftID:     aircraftID,
					ImportBatchID:  batch.ID,
					SourceRowIndex: row.Index,
					Reason:         domain.ReasonDuplicateInBatch,
					ErrorMessage:   &message,
					ItemFields:     row.Fields,
					Fingerprint:    row.Fingerprint,
				})
				if err != nil {
					return err
				}
				if ok {
					quarantined++
				}
			}
			// Quarantining is a successful outcome for the batch.
			status = domain.BatchLoaded
		} else {
			status = domain.BatchLoaded
			for _, d := range diags {
				if d.Severity == domain.SeverityError {
					status = domain.BatchFailed
					break
				}
			}
		}

		errorCount := len(diags)
		if err := s.batches.Finalize(ctx, batch.ID, inserted, errorCount, status); err != nil {
			return err
		}

		result = domain.ImportResult{
			BatchID:      batch.ID,
			InsertedRows: inserted,
			TotalRows:    len(rows),
			ErrorCount:   errorCount,
			Status:       status,
			Quarantined:  quarantined,
		}
		return nil
	})
	if err != nil {
		return domain.ImportResult{}, err
	}

	return result, nil
}
