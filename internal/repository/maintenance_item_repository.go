package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skyops/airaudit/internal/db"
	"github.com/skyops/airaudit/internal/domain"
)

type maintenanceItemRepository struct {
	db db.Querier
}

// NewMaintenanceItemRepository creates a new maintenance item repository.
func NewMaintenanceItemRepository(q db.Querier) MaintenanceItemRepository {
	return &maintenanceItemRepository{db: q}
}

// itemSelectColumns renders dates as ISO strings so the wide row scans straight
// into domain.MaintenanceItem.
const itemSelectColumns = `id, aircraft_id, import_batch_id, item_code, position, description, type,
	interval_months, interval_hours, interval_landings,
	adjusted_value, adjusted_unit, adjusted_delta,
	part_number, part_serial,
	to_char(last_completed_date, 'YYYY-MM-DD') AS last_completed_date,
	last_completed_hours, last_completed_landings, last_completed_city,
	to_char(due_next_date, 'YYYY-MM-DD') AS due_next_date,
	due_next_hours, due_next_landings,
	time_remaining_text, months_remaining, days_remaining, is_overdue_time,
	hours_remaining, landings_remaining, status, status_note, fingerprint, created_at`

func (r *maintenanceItemRepository) Insert(ctx context.Context, item domain.MaintenanceItem) (domain.MaintenanceItem, bool, error) {
	q := db.QuerierFrom(ctx, r.db)

	f := item.ItemFields
	err := q.QueryRow(
		ctx,
		`INSERT INTO maintenance_item (
			aircraft_id, import_batch_id, item_code, position, description, type,
			interval_months, interval_hours, interval_landings,
			adjusted_value, adjusted_unit, adjusted_delta,
			part_number, part_serial,
			last_completed_date, last_completed_hours, last_completed_landings, last_completed_city,
			due_next_date, due_next_hours, due_next_landings,
			time_remaining_text, months_remaining, days_remaining, is_overdue_time,
			hours_remaining, landings_remaining, status, status_note, fingerprint
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30
		)
		ON CONFLICT (import_batch_id, fingerprint) DO NOTHING
		RETURNING id, created_at`,
		item.AircraftID, item.ImportBatchID, f.ItemCode, f.Position, f.Description, f.Type,
		f.IntervalMonths, f.IntervalHours, f.IntervalLandings,
		f.AdjustedValue, f.AdjustedUnit, f.AdjustedDelta,
		f.PartNumber, f.PartSerial,
		f.LastCompletedDate, f.LastCompletedHours, f.LastCompletedLandings, f.LastCompletedCity,
		f.DueNextDate, f.DueNextHours, f.DueNextLandings,
		f.TimeRemainingText, f.MonthsRemaining, f.DaysRemaining, f.IsOverdueTime,
		f.HoursRemaining, f.LandingsRemaining, f.Status, f.StatusNote, item.Fingerprint,
	).Scan(&item.ID, &item.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// The batch already holds a row with this fingerprint. Not an error so
		// the surrounding transaction keeps going.
		return domain.MaintenanceItem{}, false, nil
	}
	if err != nil {
		return domain.MaintenanceItem{}, false, fmt.Errorf("failed to insert maintenance item: %w", err)
	}

	return item, true, nil
}

func (r *maintenanceItemRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.MaintenanceItem, error) {
	q := db.QuerierFrom(ctx, r.db)

	var item domain.MaintenanceItem
	err := pgxscan.Get(
		ctx, q, &item,
		`SELECT `+itemSelectColumns+` FROM maintenance_item WHERE id = $1`,
		id,
	)
	if pgxscan.NotFound(err) {
		return domain.MaintenanceItem{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.MaintenanceItem{}, fmt.Errorf("failed to get maintenance item: %w", err)
	}

	return item, nil
}

func (r *maintenanceItemRepository) Update(ctx context.Context, id uuid.UUID, fields domain.ItemFields, fingerprint string) error {
	q := db.QuerierFrom(ctx, r.db)

	setMap := fields.Map()
	setMap["fingerprint"] = fingerprint

	query, args, err := sq.Update("maintenance_item").
		SetMap(setMap).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build item update: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if db.IsUniqueViolation(err, "uq_item_batch_fingerprint") {
		return domain.ErrDuplicateFingerprint
	}
	if err != nil {
		return fmt.Errorf("failed to update maintenance item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *maintenanceItemRepository) ListLoaded(ctx context.Context, aircraftID uuid.UUID, limit, offset int) ([]domain.MaintenanceItem, error) {
	q := db.QuerierFrom(ctx, r.db)

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	items := []domain.MaintenanceItem{}
	err := pgxscan.Select(
		ctx, q, &items,
		`SELECT `+itemSelectColumns+` FROM v_items_loaded
		 WHERE aircraft_id = $1
		 ORDER BY created_at, id
		 LIMIT $2 OFFSET $3`,
		aircraftID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list loaded items: %w", err)
	}

	return items, nil
}

func (r *maintenanceItemRepository) CountLoaded(ctx context.Context, aircraftID uuid.UUID) (int, error) {
	q := db.QuerierFrom(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM v_items_loaded WHERE aircraft_id = $1`, aircraftID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count loaded items: %w", err)
	}

	return count, nil
}
