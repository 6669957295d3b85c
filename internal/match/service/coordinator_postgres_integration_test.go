//go:build integration

package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	channelservice "amora/internal/channel/service"
	channelstore "amora/internal/channel/store/channel"
	"amora/internal/match/events"
	"amora/internal/match/service"
	"amora/internal/match/store"
	matchstore "amora/internal/match/store/match"
	id "amora/pkg/domain"
	"amora/pkg/testutil/containers"
)

// PostgresCoordinatorSuite proves the exactly-once formation property against
// the real database: the loser of a racing transaction rolls back its channel
// and reads the winner's match.
type PostgresCoordinatorSuite struct {
	suite.Suite
	postgres    *containers.PostgresContainer
	coordinator *service.Coordinator
	matches     *matchstore.PostgresStore
	channels    *channelstore.PostgresStore
}

func TestPostgresCoordinatorSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCoordinatorSuite))
}

func (s *PostgresCoordinatorSuite) SetupSuite() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.matches = matchstore.NewPostgres(s.postgres.DB)
	s.channels = channelstore.NewPostgres(s.postgres.DB)
	s.coordinator = service.NewCoordinator(
		store.NewPostgresRunner(s.postgres.DB),
		s.matches,
		channelservice.NewProvisioner(logger),
		events.Nop{},
		logger,
		nil,
	)
}

func (s *PostgresCoordinatorSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background()))
}

func (s *PostgresCoordinatorSuite) countRows(table string) int {
	var count int
	s.Require().NoError(s.postgres.DB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count))
	return count
}

// TestFormationPersists verifies the match and its channel commit together.
func (s *PostgresCoordinatorSuite) TestFormationPersists() {
	ctx := context.Background()
	alice := id.UserID(uuid.New())
	bob := id.UserID(uuid.New())

	outcome, err := s.coordinator.FormMatchIfMutual(ctx, alice, bob)
	s.Require().NoError(err)
	s.False(outcome.AlreadyExisted)

	match, err := s.matches.FindByPair(ctx, id.NewPairKey(alice, bob))
	s.Require().NoError(err)
	s.Equal(outcome.MatchID, match.ID)

	ch, err := s.channels.Find(ctx, outcome.ChannelID)
	s.Require().NoError(err)
	s.Require().Len(ch.Participants, 2)
	s.ElementsMatch([]id.UserID{alice, bob}, ch.Participants)

	again, err := s.coordinator.FormMatchIfMutual(ctx, bob, alice)
	s.Require().NoError(err)
	s.True(again.AlreadyExisted)
	s.Equal(outcome.MatchID, again.MatchID)
	s.Equal(outcome.ChannelID, again.ChannelID)
}

// TestConcurrentFormationExactlyOnce races many formation attempts for one
// pair through real transactions. Exactly one match and one channel may
// exist afterwards, with no orphaned channels from rolled-back losers.
func (s *PostgresCoordinatorSuite) TestConcurrentFormationExactlyOnce() {
	ctx := context.Background()
	alice := id.UserID(uuid.New())
	bob := id.UserID(uuid.New())
	const goroutines = 20

	var wg sync.WaitGroup
	var formedCount, existedCount, errCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			a, b := alice, bob
			if n%2 == 1 {
				a, b = bob, alice
			}
			outcome, err := s.coordinator.FormMatchIfMutual(ctx, a, b)
			switch {
			case err != nil:
				errCount.Add(1)
			case outcome.AlreadyExisted:
				existedCount.Add(1)
			default:
				formedCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(0), errCount.Load(), "races must resolve, not error")
	s.Equal(int32(1), formedCount.Load(), "exactly one attempt forms the match")
	s.Equal(int32(goroutines-1), existedCount.Load())

	s.Equal(1, s.countRows("matches"))
	s.Equal(1, s.countRows("channels"), "loser channels must roll back with their transaction")
	s.Equal(2, s.countRows("channel_participants"))
}
