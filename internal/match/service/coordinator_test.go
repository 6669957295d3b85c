package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	channelservice "amora/internal/channel/service"
	channelstore "amora/internal/channel/store/channel"
	"amora/internal/match/events"
	"amora/internal/match/store"
	matchstore "amora/internal/match/store/match"
	id "amora/pkg/domain"
	dErrors "amora/pkg/domain-errors"
)

// capturePublisher records emitted events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.MatchFormed
}

func (p *capturePublisher) PublishMatchFormed(_ context.Context, event events.MatchFormed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []events.MatchFormed {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.MatchFormed(nil), p.events...)
}

type CoordinatorSuite struct {
	suite.Suite
	coordinator *Coordinator
	matches     *matchstore.InMemory
	channels    *channelstore.InMemory
	publisher   *capturePublisher
	ctx         context.Context
}

func (s *CoordinatorSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.matches = matchstore.NewInMemory()
	s.channels = channelstore.NewInMemory()
	s.publisher = &capturePublisher{}
	s.coordinator = NewCoordinator(
		store.NewMemoryRunner(s.matches, s.channels),
		s.matches,
		channelservice.NewProvisioner(logger),
		s.publisher,
		logger,
		nil,
	)
	s.ctx = context.Background()
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

// TestFormation covers first-time formation and idempotent repeats.
func (s *CoordinatorSuite) TestFormation() {
	alice := id.UserID(uuid.New())
	bob := id.UserID(uuid.New())

	s.Run("forms a match with its channel", func() {
		outcome, err := s.coordinator.FormMatchIfMutual(s.ctx, alice, bob)
		s.Require().NoError(err)
		s.False(outcome.AlreadyExisted)
		s.False(outcome.MatchID.IsZero())
		s.False(outcome.ChannelID.IsZero())

		match, err := s.matches.FindByPair(s.ctx, id.NewPairKey(alice, bob))
		s.Require().NoError(err)
		s.Equal(outcome.MatchID, match.ID)
		s.Equal(outcome.ChannelID, match.ChannelID)

		ch, err := s.channels.Find(s.ctx, match.ChannelID)
		s.Require().NoError(err)
		s.ElementsMatch([]id.UserID{alice, bob}, ch.Participants)
	})

	s.Run("repeat call reports the existing match, not an error", func() {
		first, err := s.coordinator.FormMatchIfMutual(s.ctx, alice, bob)
		s.Require().NoError(err)

		again, err := s.coordinator.FormMatchIfMutual(s.ctx, bob, alice)
		s.Require().NoError(err)
		s.True(again.AlreadyExisted)
		s.Equal(first.MatchID, again.MatchID)
		s.Equal(first.ChannelID, again.ChannelID)
	})

	s.Run("publishes exactly one event for the pair", func() {
		published := s.publisher.published()
		s.Require().Len(published, 1)
		s.Equal(id.NewPairKey(alice, bob), published[0].PairKey())
		s.False(published[0].ChannelID.IsZero())
	})
}

// TestValidation rejects malformed pairs before touching storage.
func (s *CoordinatorSuite) TestValidation() {
	alice := id.UserID(uuid.New())

	s.Run("rejects zero ids", func() {
		_, err := s.coordinator.FormMatchIfMutual(s.ctx, id.UserID{}, alice)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("rejects a self pair", func() {
		_, err := s.coordinator.FormMatchIfMutual(s.ctx, alice, alice)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// TestConcurrentFormation races formation attempts from both directions for
// the same pair. Exactly one attempt may create the match; every attempt must
// converge on the same match and channel ids.
func (s *CoordinatorSuite) TestConcurrentFormation() {
	alice := id.UserID(uuid.New())
	bob := id.UserID(uuid.New())

	const attempts = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		formed   int
		outcomes []Outcome
		errs     []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			a, b := alice, bob
			if n%2 == 1 {
				a, b = bob, alice
			}
			outcome, err := s.coordinator.FormMatchIfMutual(s.ctx, a, b)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if !outcome.AlreadyExisted {
				formed++
			}
			outcomes = append(outcomes, outcome)
		}(i)
	}
	wg.Wait()

	s.Require().Empty(errs)
	s.Equal(1, formed, "exactly one attempt may form the match")
	s.Require().Len(outcomes, attempts)
	for _, outcome := range outcomes {
		s.Equal(outcomes[0].MatchID, outcome.MatchID)
		s.Equal(outcomes[0].ChannelID, outcome.ChannelID)
	}

	s.Len(s.publisher.published(), 1, "one event per formed match")

	matches, err := s.matches.ListForUser(s.ctx, alice)
	s.Require().NoError(err)
	s.Len(matches, 1)
}
