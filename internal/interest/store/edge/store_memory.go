package edge

import (
	"context"
	"sync"

	"amora/internal/interest/models"
	id "amora/pkg/domain"
	"amora/pkg/platform/sentinel"
)

// InMemory keeps edges in a locked map keyed by the directed pair. Intended
// for tests and single-process development; the map key plays the role of the
// database uniqueness constraint.
type InMemory struct {
	mu    sync.RWMutex
	edges map[directedPair]*models.Edge
}

type directedPair struct {
	sender   id.UserID
	receiver id.UserID
}

// NewInMemory constructs an empty in-memory edge store.
func NewInMemory() *InMemory {
	return &InMemory{edges: make(map[directedPair]*models.Edge)}
}

func (s *InMemory) Create(_ context.Context, edge *models.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := directedPair{sender: edge.SenderID, receiver: edge.ReceiverID}
	if _, ok := s.edges[key]; ok {
		return sentinel.ErrConflict
	}

	stored := *edge
	s.edges[key] = &stored
	return nil
}

func (s *InMemory) Exists(_ context.Context, sender, receiver id.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.edges[directedPair{sender: sender, receiver: receiver}]
	return ok, nil
}

func (s *InMemory) RemoveBetween(_ context.Context, a, b id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.edges, directedPair{sender: a, receiver: b})
	delete(s.edges, directedPair{sender: b, receiver: a})
	return nil
}
