package items

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/skyops/airaudit/internal/domain"
)

type stubTx struct{}

func (stubTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubBatchRepo struct {
	manual  *domain.ImportBatch
	created []domain.ImportBatch
}

func (s *stubBatchRepo) Create(ctx context.Context, batch domain.ImportBatch) (domain.ImportBatch, error) {
	batch.ID = uuid.New()
	s.created = append(s.created, batch)
	s.manual = &batch
	return batch, nil
}

func (s *stubBatchRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BatchStatus) error {
	return errors.New("not implemented")
}

func (s *stubBatchRepo) Finalize(ctx context.Context, id uuid.UUID, insertedRows, errorRows int, status domain.BatchStatus) error {
	return errors.New("not implemented")
}

func (s *stubBatchRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ImportBatch, error) {
	return domain.ImportBatch{}, domain.ErrNotFound
}

func (s *stubBatchRepo) FindManual(ctx context.Context, aircraftID uuid.UUID) (domain.ImportBatch, error) {
	if s.manual == nil {
		return domain.ImportBatch{}, domain.ErrNotFound
	}
	return *s.manual, nil
}

type stubItemRepo struct {
	byID      map[uuid.UUID]domain.MaintenanceItem
	conflicts bool
	updates   int
}

func (s *stubItemRepo) Insert(ctx context.Context, item domain.MaintenanceItem) (domain.MaintenanceItem, bool, error) {
	if s.conflicts {
		return domain.MaintenanceItem{}, false, nil
	}
	if s.byID == nil {
		s.byID = map[uuid.UUID]domain.MaintenanceItem{}
	}
	item.ID = uuid.New()
	s.byID[item.ID] = item
	return item, true, nil
}

func (s *stubItemRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.MaintenanceItem, error) {
	item, ok := s.byID[id]
	if !ok {
		return domain.MaintenanceItem{}, domain.ErrNotFound
	}
	return item, nil
}

func (s *stubItemRepo) Update(ctx context.Context, id uuid.UUID, fields domain.ItemFields, fingerprint string) error {
	item, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if s.conflicts {
		return domain.ErrDuplicateFingerprint
	}
	item.ItemFields = fields
	item.Fingerprint = fingerprint
	s.byID[id] = item
	s.updates++
	return nil
}

func (s *stubItemRepo) ListLoaded(ctx context.Context, aircraftID uuid.UUID, limit, offset int) ([]domain.MaintenanceItem, error) {
	return nil, nil
}

func (s *stubItemRepo) CountLoaded(ctx context.Context, aircraftID uuid.UUID) (int, error) {
	return len(s.byID), nil
}

type stubLedgerRepo struct {
	entries []domain.LedgerEntry
}

func (s *stubLedgerRepo) Write(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	entry.ID = uuid.New()
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *stubLedgerRepo) List(ctx context.Context, tableName string, rowID *uuid.UUID, limit, offset int) ([]domain.LedgerEntry, error) {
	return s.entries, nil
}

type fixture struct {
	service *Service
	batches *stubBatchRepo
	items   *stubItemRepo
	ledger  *stubLedgerRepo
}

func newFixture() fixture {
	batches := &stubBatchRepo{}
	items := &stubItemRepo{}
	ledger := &stubLedgerRepo{}
	return fixture{
		service: NewService(stubTx{}, batches, items, ledger),
		batches: batches,
		items:   items,
		ledger:  ledger,
	}
}

func TestCreateRequiresDescription(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), uuid.New(), map[string]any{"item_code": "32-100"}, nil)
	if !errors.Is(err, ErrDescriptionRequired) {
		t.Fatalf("expected description error, got %v", err)
	}
	if len(f.batches.created) != 0 || len(f.ledger.entries) != 0 {
		t.Fatalf("rejected create must not touch storage")
	}
}

func TestCreateUsesManualBatchAndWritesLedger(t *testing.T) {
	f := newFixture()
	aircraftID := uuid.New()
	actor := "inspector.ramirez"

	payload := map[string]any{
		"description":    "Fire bottle check",
		"type":           "INSP",
		"interval_hours": float64(600),
		"bogus_field":    "should be dropped",
	}

	item, err := f.service.Create(context.Background(), aircraftID, payload, &actor)
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if len(f.batches.created) != 1 {
		t.Fatalf("expected manual batch created, got %d", len(f.batches.created))
	}
	batch := f.batches.created[0]
	if batch.FileSHA256 != domain.ManualFileSHA || batch.Status != domain.BatchLoaded {
		t.Fatalf("unexpected manual batch: %+v", batch)
	}
	if item.ImportBatchID != batch.ID {
		t.Fatalf("item must join the manual batch")
	}

	if item.Type == nil || *item.Type != "insp" {
		t.Fatalf("expected type normalized to insp, got %v", item.Type)
	}
	if item.IntervalHours == nil || *item.IntervalHours != 600 {
		t.Fatalf("expected interval hours 600, got %v", item.IntervalHours)
	}
	if item.Fingerprint != item.ItemFields.Fingerprint() {
		t.Fatalf("fingerprint must be derived from the stored fields")
	}

	if len(f.ledger.entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(f.ledger.entries))
	}
	entry := f.ledger.entries[0]
	if entry.Action != domain.ActionInsert || entry.TableName != "maintenance_item" {
		t.Fatalf("unexpected ledger entry: %+v", entry)
	}
	if entry.Actor == nil || *entry.Actor != actor {
		t.Fatalf("expected actor recorded, got %v", entry.Actor)
	}
	values, ok := entry.Details["values"].(map[string]any)
	if !ok {
		t.Fatalf("expected values detail, got %+v", entry.Details)
	}
	if _, present := values["bogus_field"]; present {
		t.Fatalf("unknown payload keys must not leak into the ledger")
	}

	// Second create reuses the same manual batch.
	payload["description"] = "Oxygen bottle check"
	if _, err := f.service.Create(context.Background(), aircraftID, payload, &actor); err != nil {
		t.Fatalf("second create returned error: %v", err)
	}
	if len(f.batches.created) != 1 {
		t.Fatalf("manual batch must be created once, got %d", len(f.batches.created))
	}
}

func TestCreateSurfacesDuplicateFingerprint(t *testing.T) {
	f := newFixture()
	f.items.conflicts = true

	_, err := f.service.Create(context.Background(), uuid.New(), map[string]any{"description": "Fire bottle check"}, nil)
	if !errors.Is(err, domain.ErrDuplicateFingerprint) {
		t.Fatalf("expected duplicate fingerprint error, got %v", err)
	}
	if len(f.ledger.entries) != 0 {
		t.Fatalf("failed create must not write a ledger entry")
	}
}

func TestUpdateNoChangeIsSilent(t *testing.T) {
	f := newFixture()
	aircraftID := uuid.New()

	item, err := f.service.Create(context.Background(), aircraftID, map[string]any{"description": "Fire bottle check"}, nil)
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	ledgerBefore := len(f.ledger.entries)

	updated, changed, err := f.service.Update(context.Background(), item.ID, map[string]any{"description": "Fire bottle check"}, nil)
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if len(changed) != 0 {
		t.Fatalf("expected no changed fields, got %v", changed)
	}
	if len(f.ledger.entries) != ledgerBefore {
		t.Fatalf("no-op update must not write a ledger entry")
	}
	if f.items.updates != 0 {
		t.Fatalf("no-op update must not hit storage")
	}
	if updated.Fingerprint != item.Fingerprint {
		t.Fatalf("fingerprint must be unchanged")
	}
}

func TestUpdateWritesDiffToLedger(t *testing.T) {
	f := newFixture()
	aircraftID := uuid.New()
	actor := "inspector.ramirez"

	item, err := f.service.Create(context.Background(), aircraftID, map[string]any{
		"description":    "Fire bottle check",
		"interval_hours": float64(600),
	}, &actor)
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	updated, changed, err := f.service.Update(context.Background(), item.ID, map[string]any{
		"interval_hours": float64(750),
		"status":         "DUE",
	}, &actor)
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}

	if len(changed) != 2 || changed[0] != "interval_hours" || changed[1] != "status" {
		t.Fatalf("unexpected changed fields: %v", changed)
	}
	if updated.IntervalHours == nil || *updated.IntervalHours != 750 {
		t.Fatalf("expected interval hours 750, got %v", updated.IntervalHours)
	}
	// interval_hours is a key field, so identity changes with it.
	if updated.Fingerprint == item.Fingerprint {
		t.Fatalf("expected fingerprint to change with key fields")
	}

	entry := f.ledger.entries[len(f.ledger.entries)-1]
	if entry.Action != domain.ActionUpdate {
		t.Fatalf("expected update ledger entry, got %s", entry.Action)
	}
	diff, ok := entry.Details["diff"].(map[string]domain.FieldChange)
	if !ok {
		t.Fatalf("expected diff detail, got %+v", entry.Details)
	}
	change, ok := diff["interval_hours"]
	if !ok {
		t.Fatalf("expected interval_hours in diff, got %v", diff)
	}
	if change.From != 600 || change.To != 750 {
		t.Fatalf("unexpected diff values: %+v", change)
	}
}

func TestUpdateUnknownItem(t *testing.T) {
	f := newFixture()

	_, _, err := f.service.Update(context.Background(), uuid.New(), map[string]any{"status": "DUE"}, nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
