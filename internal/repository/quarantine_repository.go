package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skyops/airaudit/internal/db"
	"github.com/skyops/airaudit/internal/domain"
)

type quarantineRepository struct {
	db db.Querier
}

// NewQuarantineRepository creates a new quarantine repository.
func NewQuarantineRepository(q db.Querier) QuarantineRepository {
	return &quarantineRepository{db: q}
}

const quarantineSelectColumns = `id, aircraft_id, import_batch_id, source_row_index, reason, error_message,
	item_code, position, description, type,
	interval_months, interval_hours, interval_landings,
	adjusted_value, adjusted_unit, adjusted_delta,
	part_number, part_serial,
	to_char(last_completed_date, 'YYYY-MM-DD') AS last_completed_date,
	last_completed_hours, last_completed_landings, last_completed_city,
	to_char(due_next_date, 'YYYY-MM-DD') AS due_next_date,
	due_next_hours, due_next_landings,
	time_remaining_text, months_remaining, days_remaining, is_overdue_time,
	hours_remaining, landings_remaining, status, status_note, fingerprint, quarantined_at`

func (r *quarantineRepository) Insert(ctx context.Context, item domain.QuarantineItem) (bool, error) {
	q := db.QuerierFrom(ctx, r.db)

	f := item.ItemFields
	err := q.QueryRow(
		ctx,
		`INSERT INTO maintenance_item_quarantine (
			aircraft_id, import_batch_id, source_row_index, reason, error_message,
			item_code, position, description, type,
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
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33
		)
		ON CONFLICT (import_batch_id, source_row_index) DO NOTHING
		RETURNING id`,
		item.AircraftID, item.ImportBatchID, item.SourceRowIndex, item.Reason, item.ErrorMessage,
		f.ItemCode, f.Position, f.Description, f.Type,
		f.IntervalMonths, f.IntervalHours, f.IntervalLandings,
		f.AdjustedValue, f.AdjustedUnit, f.AdjustedDelta,
		f.PartNumber, f.PartSerial,
		f.LastCompletedDate, f.LastCompletedHours, f.LastCompletedLandings, f.LastCompletedCity,
		f.DueNextDate, f.DueNextHours, f.DueNextLandings,
		f.TimeRemainingText, f.MonthsRemaining, f.DaysRemaining, f.IsOverdueTime,
		f.HoursRemaining, f.LandingsRemaining, f.Status, f.StatusNote, item.Fingerprint,
	).Scan(&item.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to quarantine row: %w", err)
	}

	return true, nil
}

func (r *quarantineRepository) List(ctx context.Context, aircraftID uuid.UUID, batchID *uuid.UUID, limit, offset int) ([]domain.QuarantineItem, error) {
	q := db.QuerierFrom(ctx, r.db)

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	items := []domain.QuarantineItem{}
	var err error
	if batchID == nil {
		err = pgxscan.Select(
			ctx, q, &items,
			`SELECT `+quarantineSelectColumns+` FROM maintenance_item_quarantine
			 WHERE aircraft_id = $1
			 ORDER BY quarantined_at, id
			 LIMIT $2 OFFSET $3`,
			aircraftID, limit, offset,
		)
	} else {
		err = pgxscan.Select(
			ctx, q, &items,
			`SELECT `+quarantineSelectColumns+` FROM maintenance_item_quarantine
			 WHERE aircraft_id = $1 AND import_batch_id = $2
			 ORDER BY quarantined_at, id
			 LIMIT $3 OFFSET $4`,
			aircraftID, *batchID, limit, offset,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list quarantine: %w", err)
	}

	return items, nil
}

func (r *quarantineRepository) Count(ctx context.Context, aircraftID uuid.UUID, batchID *uuid.UUID) (int, error) {
	q := db.QuerierFrom(ctx, r.db)

	var (
		count int
		err   error
	)
	if batchID == nil {
		err = q.QueryRow(ctx, `SELECT COUNT(*) FROM maintenance_item_quarantine WHERE aircraft_id = $1`, aircraftID).Scan(&count)
	} else {
		err = q.QueryRow(ctx, `SELECT COUNT(*) FROM maintenance_item_quarantine WHERE aircraft_id = $1 AND import_batch_id = $2`, aircraftID, *batchID).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count quarantine: %w", err)
	}

	return count, nil
}
