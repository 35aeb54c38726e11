package fleet

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/skyops/airaudit/internal/db"
	"github.com/skyops/airaudit/internal/domain"
	"github.com/skyops/airaudit/internal/repository"
)

// ErrNameRequired rejects aircraft without a name.
var ErrNameRequired = errors.New("aircraft name is required")

// Service manages the aircraft registry. Aircraft are never deleted; archiving
// hides them from active views and every lifecycle change lands in the ledger.
type Service struct {
	tx       db.TxRunner
	aircraft repository.AircraftRepository
	ledger   repository.LedgerRepository
}

// NewService creates a new fleet service.
func NewService(tx db.TxRunner, aircraft repository.AircraftRepository, ledger repository.LedgerRepository) *Service {
	return &Service{tx: tx, aircraft: aircraft, ledger: ledger}
}

// Create registers a new aircraft.
func (s *Service) Create(ctx context.Context, name, model string, actor *string) (domain.Aircraft, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Aircraft{}, ErrNameRequired
	}
	model = strings.TrimSpace(model)

	var created domain.Aircraft
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		craft, err := s.aircraft.Create(ctx, name, model)
		if err != nil {
			return err
		}

		_, err = s.ledger.Write(ctx, domain.LedgerEntry{
			TableName: "aircraft",
			Action:    domain.ActionCreate,
			RowID:     craft.ID,
			Actor:     actor,
			Details:   map[string]any{"name": name, "model": model},
		})
		if err != nil {
			return err
		}

		created = craft
		return nil
	})
	if err != nil {
		return domain.Aircraft{}, err
	}

	return created, nil
}

// Get returns one aircraft.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Aircraft, error) {
	return s.aircraft.GetByID(ctx, id)
}

// List returns every registered aircraft, archived ones included.
func (s *Service) List(ctx context.Context) ([]domain.Aircraft, error) {
	return s.aircraft.List(ctx)
}

// Archive hides an aircraft from active views. Archiving an already archived
// aircraft is a no-op and writes no ledger entry.
func (s *Service) Archive(ctx context.Context, id uuid.UUID, actor *string) (domain.Aircraft, error) {
	return s.setArchived(ctx, id, true, domain.ActionArchive, actor)
}

// Restore brings an archived aircraft back.
func (s *Service) Restore(ctx context.Context, id uuid.UUID, actor *string) (domain.Aircraft, error) {
	return s.setArchived(ctx, id, false, domain.ActionRestore, actor)
}

func (s *Service) setArchived(ctx context.Context, id uuid.UUID, archived bool, action domain.LedgerAction, actor *string) (domain.Aircraft, error) {
	var updated domain.Aircraft
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.aircraft.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if (current.ArchivedAt != nil) == archived {
			updated = current
			return nil
		}

		craft, err := s.aircraft.SetArchived(ctx, id, archived)
		if err != nil {
			return err
		}

		_, err = s.ledger.Write(ctx, domain.LedgerEntry{
			TableName: "aircraft",
			Action:    action,
			RowID:     craft.ID,
			Actor:     actor,
		})
		if err != nil {
			return err
		}

		updated = craft
		return nil
	})
	if err != nil {
		return domain.Aircraft{}, err
	}

	return updated, nil
}
