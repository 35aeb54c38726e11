package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/skyops/airaudit/internal/db"
	"github.com/skyops/airaudit/internal/domain"
)

type ledgerRepository struct {
	db db.Querier
}

// NewLedgerRepository creates a new audit ledger repository.
func NewLedgerRepository(q db.Querier) LedgerRepository {
	return &ledgerRepository{db: q}
}

func (r *ledgerRepository) Write(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	q := db.QuerierFrom(ctx, r.db)

	var details []byte
	if entry.Details != nil {
		encoded, err := json.Marshal(entry.Details)
		if err != nil {
			return domain.LedgerEntry{}, fmt.Errorf("failed to encode ledger details: %w", err)
		}
		details = encoded
	}

	err := q.QueryRow(
		ctx,
		`INSERT INTO audit_ledger (table_name, action, row_id, batch_id, actor, details)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, occurred_at`,
		entry.TableName, entry.Action, entry.RowID, entry.BatchID, entry.Actor, details,
	).Scan(&entry.ID, &entry.OccurredAt)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("failed to write ledger entry: %w", err)
	}

	return entry, nil
}

func (r *ledgerRepository) List(ctx context.Context, tableName string, rowID *uuid.UUID, limit, offset int) ([]domain.LedgerEntry, error) {
	q := db.QuerierFrom(ctx, r.db)

	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, occurred_at, table_name, action, row_id, batch_id, actor, details
	          FROM audit_ledger WHERE 1=1`
	args := []any{}
	if tableName != "" {
		args = append(args, tableName)
		query += fmt.Sprintf(" AND table_name = $%d", len(args))
	}
	if rowID != nil {
		args = append(args, *rowID)
		query += fmt.Sprintf(" AND row_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY occurred_at DESC, id LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var (
			entry   domain.LedgerEntry
			details []byte
		)
		if err := rows.Scan(
			&entry.ID, &entry.OccurredAt, &entry.TableName, &entry.Action,
			&entry.RowID, &entry.BatchID, &entry.Actor, &details,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to decode ledger details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
