// Package edge provides storage for directed interest edges.
package edge

import (
	"context"

	"amora/internal/interest/models"
	id "amora/pkg/domain"
)

// Store persists interest edges. Implementations must enforce uniqueness on
// the ordered (sender, receiver) pair at the storage layer: an in-process
// lock alone is not enough because multiple instances may run concurrently.
// Create returns sentinel.ErrConflict (wrapped or bare) on a duplicate.
type Store interface {
	// Create inserts a new edge, failing with sentinel.ErrConflict when the
	// ordered pair already exists.
	Create(ctx context.Context, edge *models.Edge) error

	// Exists reports whether the directed edge (sender -> receiver) exists.
	Exists(ctx context.Context, sender, receiver id.UserID) (bool, error)

	// RemoveBetween deletes both directions between two users. It backs the
	// account-deletion/blocking collaborator hook and is never called by the
	// core's own flows.
	RemoveBetween(ctx context.Context, a, b id.UserID) error
}
