package match

import (
	"context"
	"sort"
	"sync"

	"amora/internal/match/models"
	id "amora/pkg/domain"
	"amora/pkg/platform/sentinel"
)

// InMemory keeps matches in locked maps. The pair-keyed map stands in for the
// database uniqueness constraint on (low_user_id, high_user_id).
type InMemory struct {
	mu     sync.RWMutex
	byPair map[id.PairKey]*models.Match
	byID   map[id.MatchID]*models.Match
}

// NewInMemory constructs an empty in-memory match store.
func NewInMemory() *InMemory {
	return &InMemory{
		byPair: make(map[id.PairKey]*models.Match),
		byID:   make(map[id.MatchID]*models.Match),
	}
}

func (s *InMemory) Create(_ context.Context, match *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byPair[match.Pair]; ok {
		return sentinel.ErrConflict
	}

	stored := *match
	s.byPair[match.Pair] = &stored
	s.byID[match.ID] = &stored
	return nil
}

func (s *InMemory) FindByPair(_ context.Context, pair id.PairKey) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if match, ok := s.byPair[pair]; ok {
		copied := *match
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByID(_ context.Context, matchID id.MatchID) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if match, ok := s.byID[matchID]; ok {
		copied := *match
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListForUser(_ context.Context, user id.UserID) ([]*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Match
	for _, match := range s.byPair {
		if match.Pair.Contains(user) {
			copied := *match
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
