package profile

import (
	"context"
	"sync"

	"amora/internal/matching/models"
	id "amora/pkg/domain"
	"amora/pkg/platform/sentinel"
	pstrings "amora/pkg/platform/strings"
)

// InMemory is the test/development adapter of the profile port. Seed it with
// Put; validation happens on the way in so the core only ever sees profiles
// upholding the age and weight invariants.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[id.UserID]*models.Profile
}

// NewInMemory constructs an empty in-memory profile adapter.
func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[id.UserID]*models.Profile)}
}

// Put validates and stores a profile. Interests are normalized so duplicate
// entries cannot skew overlap scoring.
func (s *InMemory) Put(p *models.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *p
	stored.Interests = pstrings.DedupeAndTrim(p.Interests)
	s.profiles[p.ID] = &stored
	return nil
}

func (s *InMemory) GetProfile(_ context.Context, userID id.UserID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.profiles[userID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListCandidates(_ context.Context, exclude map[id.UserID]struct{}, filter Filter) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Profile
	for userID, p := range s.profiles {
		if _, skip := exclude[userID]; skip {
			continue
		}
		if !matchesFilter(p, filter) {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}
