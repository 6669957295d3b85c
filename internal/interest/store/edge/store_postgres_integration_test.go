//go:build integration

package edge_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"amora/internal/interest/models"
	"amora/internal/interest/store/edge"
	id "amora/pkg/domain"
	"amora/pkg/platform/sentinel"
	"amora/pkg/testutil/containers"
)

type PostgresEdgeStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *edge.PostgresStore
}

func TestPostgresEdgeStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresEdgeStoreSuite))
}

func (s *PostgresEdgeStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = edge.NewPostgres(s.postgres.DB)
}

func (s *PostgresEdgeStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background()))
}

func newTestEdge(sender, receiver id.UserID) *models.Edge {
	return &models.Edge{
		ID:         id.NewEdgeID(),
		SenderID:   sender,
		ReceiverID: receiver,
		Kind:       models.KindLike,
		CreatedAt:  time.Now().UTC(),
	}
}

// TestDirectedEdgeLifecycle covers create, reverse independence, and removal
// against the real constraint.
func (s *PostgresEdgeStoreSuite) TestDirectedEdgeLifecycle() {
	ctx := context.Background()
	alice := id.UserID(uuid.New())
	bob := id.UserID(uuid.New())

	s.Require().NoError(s.store.Create(ctx, newTestEdge(alice, bob)))

	exists, err := s.store.Exists(ctx, alice, bob)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.store.Exists(ctx, bob, alice)
	s.Require().NoError(err)
	s.False(exists, "reverse direction must be independent")

	s.Require().ErrorIs(s.store.Create(ctx, newTestEdge(alice, bob)), sentinel.ErrConflict)

	s.Require().NoError(s.store.Create(ctx, newTestEdge(bob, alice)))
	s.Require().NoError(s.store.RemoveBetween(ctx, alice, bob))

	exists, err = s.store.Exists(ctx, alice, bob)
	s.Require().NoError(err)
	s.False(exists)
	exists, err = s.store.Exists(ctx, bob, alice)
	s.Require().NoError(err)
	s.False(exists)
}

// TestConcurrentDuplicateInserts verifies the primary key arbitrates racing
// identical inserts: exactly one success.
func (s *PostgresEdgeStoreSuite) TestConcurrentDuplicateInserts() {
	ctx := context.Background()
	alice := id.UserID(uuid.New())
	bob := id.UserID(uuid.New())
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, newTestEdge(alice, bob))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one insert should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should conflict")
}
