package channel

import (
	"context"
	"sync"

	"amora/internal/channel/models"
	id "amora/pkg/domain"
	"amora/pkg/platform/sentinel"
)

// InMemory keeps channels in a locked map for tests and single-process use.
type InMemory struct {
	mu       sync.RWMutex
	channels map[id.ChannelID]*models.Channel
}

// NewInMemory constructs an empty in-memory channel store.
func NewInMemory() *InMemory {
	return &InMemory{channels: make(map[id.ChannelID]*models.Channel)}
}

func (s *InMemory) Create(_ context.Context, ch *models.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[ch.ID]; ok {
		return sentinel.ErrConflict
	}

	seen := make(map[id.UserID]struct{}, len(ch.Participants))
	for _, participant := range ch.Participants {
		if _, dup := seen[participant]; dup {
			return sentinel.ErrConflict
		}
		seen[participant] = struct{}{}
	}

	stored := models.Channel{
		ID:           ch.ID,
		Participants: append([]id.UserID(nil), ch.Participants...),
		CreatedAt:    ch.CreatedAt,
	}
	s.channels[ch.ID] = &stored
	return nil
}

func (s *InMemory) Find(_ context.Context, channelID id.ChannelID) (*models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := models.Channel{
		ID:           ch.ID,
		Participants: append([]id.UserID(nil), ch.Participants...),
		CreatedAt:    ch.CreatedAt,
	}
	return &copied, nil
}
