package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	channelservice "amora/internal/channel/service"
	channelstore "amora/internal/channel/store/channel"
	"amora/internal/match/events"
	matchservice "amora/internal/match/service"
	"amora/internal/match/store"
	matchstore "amora/internal/match/store/match"
	id "amora/pkg/domain"
	"amora/pkg/testutil"
)

type MatchHandlerSuite struct {
	suite.Suite
	router      *chi.Mux
	coordinator *matchservice.Coordinator
}

func (s *MatchHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	matches := matchstore.NewInMemory()
	channels := channelstore.NewInMemory()
	s.coordinator = matchservice.NewCoordinator(
		store.NewMemoryRunner(matches, channels),
		matches,
		channelservice.NewProvisioner(logger),
		events.Nop{},
		logger,
		nil,
	)

	s.router = chi.NewRouter()
	New(s.coordinator, logger).Register(s.router)
}

func TestMatchHandlerSuite(t *testing.T) {
	suite.Run(t, new(MatchHandlerSuite))
}

// TestList verifies the listing endpoint reports the partner, not the raw
// pair.
func (s *MatchHandlerSuite) TestList() {
	alice := id.UserID(uuid.New())
	bob := id.UserID(uuid.New())

	s.Run("requires authentication", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/matches"))
		s.Equal(http.StatusUnauthorized, rr.Code)
	})

	s.Run("empty for a user with no matches", func() {
		req := testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/matches"), alice.String())
		rr := testutil.DoRequest(s.router, req)
		s.Require().Equal(http.StatusOK, rr.Code)

		var body struct {
			Matches []json.RawMessage `json:"matches"`
		}
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
		s.Empty(body.Matches)
	})

	s.Run("lists the partner and channel", func() {
		outcome, err := s.coordinator.FormMatchIfMutual(s.T().Context(), alice, bob)
		s.Require().NoError(err)

		req := testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/matches"), alice.String())
		rr := testutil.DoRequest(s.router, req)
		s.Require().Equal(http.StatusOK, rr.Code)

		var body struct {
			Matches []struct {
				MatchID   string `json:"match_id"`
				PartnerID string `json:"partner_id"`
				ChannelID string `json:"channel_id"`
			} `json:"matches"`
		}
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
		s.Require().Len(body.Matches, 1)
		s.Equal(outcome.MatchID.String(), body.Matches[0].MatchID)
		s.Equal(bob.String(), body.Matches[0].PartnerID)
		s.Equal(outcome.ChannelID.String(), body.Matches[0].ChannelID)
	})
}
