package domain

import (
	"time"

	"github.com/google/uuid"
)

// Aircraft is the owning entity for import batches and maintenance items.
// Aircraft are never deleted; archiving sets ArchivedAt instead.
type Aircraft struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Model      string     `json:"model"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}
