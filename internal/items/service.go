package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/skyops/airaudit/internal/db"
	"github.com/skyops/airaudit/internal/domain"
	"github.com/skyops/airaudit/internal/repository"
)

// ErrDescriptionRequired rejects manual items without a description.
var ErrDescriptionRequired = errors.New("description is required")

// Service handles manual item creation and editing. Both paths reuse the
// import pipeline's normalization and fingerprinting, and every successful
// mutation lands in the audit ledger.
type Service struct {
	tx      db.TxRunner
	batches repository.ImportBatchRepository
	items   repository.MaintenanceItemRepository
	ledger  repository.LedgerRepository
}

// NewService creates a new manual items service.
func NewService(tx db.TxRunner, batches repository.ImportBatchRepository, items repository.MaintenanceItemRepository, ledger repository.LedgerRepository) *Service {
	return &Service{tx: tx, batches: batches, items: items, ledger: ledger}
}

// Create inserts one manually entered item. The item joins the aircraft's
// synthetic manual batch, which is created on first use.
func (s *Service) Create(ctx context.Context, aircraftID uuid.UUID, payload map[string]any, actor *string) (domain.MaintenanceItem, error) {
	fields := ApplyPayload(domain.ItemFields{}, payload)
	if fields.Description == nil {
		return domain.MaintenanceItem{}, ErrDescriptionRequired
	}

	var created domain.MaintenanceItem
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		batch, err := s.manualBatch(ctx, aircraftID)
		if err != nil {
			return err
		}

		item, ok, err := s.items.Insert(ctx, domain.MaintenanceItem{
			AircraftID:    aircraftID,
			ImportBatchID: batch.ID,
			ItemFields:    fields,
			Fingerprint:   fields.Fingerprint(),
		})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("manual item %w", domain.ErrDuplicateFingerprint)
		}

		_, err = s.ledger.Write(ctx, domain.LedgerEntry{
			TableName: "maintenance_item",
			Action:    domain.ActionInsert,
			RowID:     item.ID,
			BatchID:   &batch.ID,
			Actor:     actor,
			Details:   map[string]any{"values": fields.Map()},
		})
		if err != nil {
			return err
		}

		created = item
		return nil
	})
	if err != nil {
		return domain.MaintenanceItem{}, err
	}

	return created, nil
}

// Update applies a partial edit to an existing item. When nothing actually
// changes the call is a no-op and no ledger entry is written.
func (s *Service) Update(ctx context.Context, itemID uuid.UUID, payload map[string]any, actor *string) (domain.MaintenanceItem, []string, error) {
	var (
		updated domain.MaintenanceItem
		changed []string
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		item, err := s.items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}

		fields := ApplyPayload(item.ItemFields, payload)
		if fields.Description == nil {
			return ErrDescriptionRequired
		}

		diff := domain.DiffItemFields(item.ItemFields, fields)
		if len(diff) == 0 {
			updated = item
			return nil
		}

		fingerprint := fields.Fingerprint()
		if err := s.items.Update(ctx, itemID, fields, fingerprint); err != nil {
			return err
		}

		_, err = s.ledger.Write(ctx, domain.LedgerEntry{
			TableName: "maintenance_item",
			Action:    domain.ActionUpdate,
			RowID:     itemID,
			BatchID:   &item.ImportBatchID,
			Actor:     actor,
			Details:   map[string]any{"diff": diff},
		})
		if err != nil {
			return err
		}

		item.ItemFields = fields
		item.Fingerprint = fingerprint
		updated = item
		changed = domain.ChangedFieldNames(diff)
		return nil
	})
	if err != nil {
		return domain.MaintenanceItem{}, nil, err
	}

	return updated, changed, nil
}

func (s *Service) manualBatch(ctx context.Context, aircraftID uuid.UUID) (domain.ImportBatch, error) {
	batch, err := s.batches.FindManual(ctx, aircraftID)
	if err == nil {
		return batch, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.ImportBatch{}, err
	}

	return s.batches.Create(ctx, domain.ImportBatch{
		AircraftID: aircraftID,
		FileName:   "manual",
		FileSHA256: domain.ManualFileSHA,
		Status:     domain.BatchLoaded,
	})
}
