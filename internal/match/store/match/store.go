// Package match provides storage for formed matches.
package match

import (
	"context"

	"amora/internal/match/models"
	id "amora/pkg/domain"
)

// Store persists matches. Implementations must enforce uniqueness on the
// canonical pair key at the storage layer; Create returns sentinel.ErrConflict
// when the pair already has a match. That conflict is the expected outcome for
// the losing side of a formation race, not an error condition.
type Store interface {
	Create(ctx context.Context, match *models.Match) error
	FindByPair(ctx context.Context, pair id.PairKey) (*models.Match, error)
	FindByID(ctx context.Context, matchID id.MatchID) (*models.Match, error)
	ListForUser(ctx context.Context, user id.UserID) ([]*models.Match, error)
}
