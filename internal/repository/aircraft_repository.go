package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/skyops/airaudit/internal/db"
	"github.com/skyops/airaudit/internal/domain"
)

type aircraftRepository struct {
	db db.Querier
}

// NewAircraftRepository creates a new aircraft repository.
func NewAircraftRepository(q db.Querier) AircraftRepository {
	return &aircraftRepository{db: q}
}

func (r *aircraftRepository) Create(ctx context.Context, name, model string) (domain.Aircraft, error) {
	q := db.QuerierFrom(ctx, r.db)

	var aircraft domain.Aircraft
	err := q.QueryRow(
		ctx,
		`INSERT INTO aircraft (name, model)
		 VALUES ($1, $2)
		 RETURNING id, name, model, created_at, archived_at`,
		name, model,
	).Scan(&aircraft.ID, &aircraft.Name, &aircraft.Model, &aircraft.CreatedAt, &aircraft.ArchivedAt)
	if err != nil {
		return domain.Aircraft{}, fmt.Errorf("failed to create aircraft: %w", err)
	}

	return aircraft, nil
}

func (r *aircraftRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Aircraft, error) {
	q := db.QuerierFrom(ctx, r.db)

	var aircraft domain.Aircraft
	err := q.QueryRow(
		ctx,
		`SELECT id, name, model, created_at, archived_at FROM aircraft WHERE id = $1`,
		id,
	).Scan(&aircraft.ID, &aircraft.Name, &aircraft.Model, &aircraft.CreatedAt, &aircraft.ArchivedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Aircraft{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Aircraft{}, fmt.Errorf("failed to get aircraft: %w", err)
	}

	return aircraft, nil
}

func (r *aircraftRepository) List(ctx context.Context) ([]domain.Aircraft, error) {
	q := db.QuerierFrom(ctx, r.db)

	rows, err := q.Query(
		ctx,
		`SELECT id, name, model, created_at, archived_at FROM aircraft ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list aircraft: %w", err)
	}
	defer rows.Close()

	fleet := []domain.Aircraft{}
	for rows.Next() {
		var (
			aircraft   domain.Aircraft
			archivedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&aircraft.ID, &aircraft.Name, &aircraft.Model, &aircraft.CreatedAt, &archivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan aircraft: %w", err)
		}
		if archivedAt.Valid {
			t := archivedAt.Time
			aircraft.ArchivedAt = &t
		}
		fleet = append(fleet, aircraft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aircraft: %w", err)
	}

	return fleet, nil
}

func (r *aircraftRepository) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (domain.Aircraft, error) {
	q := db.QuerierFrom(ctx, r.db)

	query := `UPDATE aircraft SET archived_at = now() WHERE id = $1
	          RETURNING id, name, model, created_at, archived_at`
	if !archived {
		query = `UPDATE aircraft SET archived_at = NULL WHERE id = $1
		         RETURNING id, name, model, created_at, archived_at`
	}

	var aircraft domain.Aircraft
	err := q.QueryRow(ctx, query, id).
		Scan(&aircraft.ID, &aircraft.Name, &aircraft.Model, &aircraft.CreatedAt, &aircraft.ArchivedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Aircraft{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Aircraft{}, fmt.Errorf("failed to update aircraft archive state: %w", err)
	}

	return aircraft, nil
}
