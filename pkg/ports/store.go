package ports

import (
	"context"

	"github.com/aretw0/graficador/pkg/domain"
)

// DesignStore defines the interface for persisting designs between edits.
type DesignStore interface {
	// Save persists the design under design.ID, replacing any previous version.
	Save(ctx context.Context, design *domain.Design) error

	// Load retrieves a design by ID.
	// Returns domain.ErrDesignNotFound if the design does not exist.
	Load(ctx context.Context, id string) (*domain.Design, error)

	// Delete removes a design. Deleting a missing design is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored designs.
	List(ctx context.Context) ([]string, error)
}
